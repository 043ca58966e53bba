package payment

import "errors"

// Kind is a stable error category for programmatic handling. Callers
// should branch on Kind rather than matching error strings.
type Kind string

const (
	// KindValidation: missing or conflicting caller-supplied parameter.
	// Raised before any network call; never retried.
	KindValidation Kind = "Validation"
	// KindResolution: account or ledger lookup failed.
	KindResolution Kind = "Resolution"
	// KindNotarization: notary case registration failed. Fatal to the
	// atomic flow; there is no fallback to universal mode.
	KindNotarization Kind = "Notarization"
	// KindAssembly: malformed quote or transfer data.
	KindAssembly Kind = "Assembly"
	// KindSubmission: the ledger rejected the transfer. Carries the
	// response status and body.
	KindSubmission Kind = "Submission"
	// KindTransport: network-level failure reaching an external party.
	KindTransport Kind = "Transport"
)

// Error is the structured error type for a failed payment step.
// Message is for humans; branch on Kind and Op, not on strings.
type Error struct {
	Kind    Kind
	Op      string // step that produced the error, e.g. "findPath"
	Message string
	Status  int    // HTTP status, when a remote party answered
	Body    string // response body, for submission rejections
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a payment error of the given kind.
func NewError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// WrapError builds a payment error wrapping an underlying cause.
func WrapError(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err, or "" if err is not a payment error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// stamp fills in the step name on a payment error that does not carry one,
// and wraps foreign errors so every failure surfaces a kind and a step.
func stamp(err error, op string, fallback Kind) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Op == "" {
			pe.Op = op
		}
		return err
	}
	return WrapError(fallback, op, "step failed", err)
}
