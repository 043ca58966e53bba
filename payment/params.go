package payment

import (
	"github.com/shopspring/decimal"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// AmountSide tags which end of the payment carries the fixed amount.
type AmountSide int

const (
	AmountUnset AmountSide = iota
	SourceFixed
	DestinationFixed
)

// Amount is the caller's amount specification: exactly one side of the
// payment is fixed, the other is discovered through quoting.
type Amount struct {
	side  AmountSide
	value decimal.Decimal
}

// FixedSource fixes the amount debited from the source account.
func FixedSource(v decimal.Decimal) Amount {
	return Amount{side: SourceFixed, value: v}
}

// FixedDestination fixes the amount credited to the destination account.
func FixedDestination(v decimal.Decimal) Amount {
	return Amount{side: DestinationFixed, value: v}
}

func (a Amount) Side() AmountSide       { return a.side }
func (a Amount) Value() decimal.Decimal { return a.value }

// Params is a caller-supplied payment request. Presence of Notary switches
// the payment to atomic mode, which additionally requires NotaryPublicKey.
type Params struct {
	SourceAccount      string
	DestinationAccount string
	Amount             Amount

	// ReceiptCondition locks the chain to proof of final receipt. It is
	// mandatory: the protocol refuses to run without any condition.
	ReceiptCondition domain.Condition

	// Caller-supplied conditions are authoritative; when set they bypass
	// derivation entirely.
	ExecutionCondition    domain.Condition
	CancellationCondition domain.Condition

	Notary          string
	NotaryPublicKey string
	// CaseID reuses an existing case instead of generating a fresh one.
	CaseID string

	SourceMemo      map[string]any
	DestinationMemo map[string]any
	AdditionalInfo  map[string]any

	Credential domain.Credential
}

// Atomic reports whether the payment runs in atomic (notarized) mode.
func (p *Params) Atomic() bool { return p.Notary != "" }

// Validate checks the request once at the API boundary, before any network
// call is made.
func (p *Params) Validate() error {
	const op = "validateParams"
	if p.SourceAccount == "" {
		return NewError(KindValidation, op, "source account is required")
	}
	if p.DestinationAccount == "" {
		return NewError(KindValidation, op, "destination account is required")
	}
	if p.Amount.Side() == AmountUnset {
		return NewError(KindValidation, op, "exactly one of source amount or destination amount must be set")
	}
	if !p.Amount.Value().IsPositive() {
		return NewError(KindValidation, op, "amount must be positive")
	}
	if p.ReceiptCondition.Empty() {
		return NewError(KindValidation, op, "receipt condition is required; conditionless execution is not supported")
	}
	if p.Atomic() && p.NotaryPublicKey == "" {
		return NewError(KindValidation, op, "notary public key is required in atomic mode")
	}
	return nil
}
