package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// Expiry policy: each hop's deadline is earlier than the deadline of the
// hop that depends on it by at least HopExpiryMargin, and the innermost
// (destination) hop gets DestinationExpiryWindow past now. A connector
// quote may demand longer windows; quoted durations override the defaults.
const (
	DestinationExpiryWindow = 5 * time.Second
	HopExpiryMargin         = 1 * time.Second
)

// TransferAssembler builds the transfer chain implied by a quote and later
// attaches conditions, expiry and case linkage to it.
type TransferAssembler struct {
	now   func() time.Time
	newID func() string
}

// NewTransferAssembler creates an assembler with real clock and id source.
func NewTransferAssembler() *TransferAssembler {
	return &TransferAssembler{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// SetupTransfers builds the source-hop transfer for a quote, with the
// destination-hop transfer threaded into the connector credit's memo so the
// receiving ledger can continue the chain. The nested transfer is a plain
// data payload; it is not dereferenced again after assembly.
func (a *TransferAssembler) SetupTransfers(quote *domain.ConnectorQuote, p *Params) (*domain.Transfer, error) {
	if err := checkQuote(quote); err != nil {
		return nil, err
	}

	now := a.now()

	destination := &domain.Transfer{
		ID:     transferURI(quote.DestinationLedger, a.newID()),
		Ledger: quote.DestinationLedger,
		Debits: []domain.Funds{{
			Account: quote.ConnectorAccount,
			Amount:  quote.DestinationAmount,
		}},
		Credits: []domain.Funds{{
			Account: p.DestinationAccount,
			Amount:  quote.DestinationAmount,
			Memo:    p.DestinationMemo,
		}},
	}

	source := &domain.Transfer{
		ID:     transferURI(quote.SourceLedger, a.newID()),
		Ledger: quote.SourceLedger,
		Debits: []domain.Funds{{
			Account: p.SourceAccount,
			Amount:  quote.SourceAmount,
			Memo:    p.SourceMemo,
		}},
		Credits: []domain.Funds{{
			Account: quote.ConnectorAccount,
			Amount:  quote.SourceAmount,
			Memo: map[string]any{
				domain.DestinationTransferKey: destination,
			},
		}},
		AdditionalInfo: p.AdditionalInfo,
	}

	destination.ExpiresAt = a.TransferExpiresAt(now, destination, quote)
	source.ExpiresAt = a.TransferExpiresAt(now, source, quote)

	return source, nil
}

// TransferExpiresAt computes the absolute deadline for a transfer: the
// deeper the chain hanging off a transfer, the later it must stay open, so
// that every hop it depends on can still complete first.
func (a *TransferAssembler) TransferExpiresAt(now time.Time, transfer *domain.Transfer, quote *domain.ConnectorQuote) time.Time {
	window := DestinationExpiryWindow
	if quote != nil && quote.DestinationExpiryDuration > window {
		window = quote.DestinationExpiryDuration
	}
	margin := HopExpiryMargin
	if quote != nil && quote.SourceExpiryDuration > quote.DestinationExpiryDuration {
		if m := quote.SourceExpiryDuration - quote.DestinationExpiryDuration; m > margin {
			margin = m
		}
	}
	depth := 0
	for next := transfer.DestinationTransfer(); next != nil; next = next.DestinationTransfer() {
		depth++
	}
	return now.Add(window + time.Duration(depth)*margin)
}

// CaseExpiresAt computes the expiry of the notarized case covering the
// whole chain: strictly after every transfer in it.
func (a *TransferAssembler) CaseExpiresAt(now time.Time, transfer *domain.Transfer, quote *domain.ConnectorQuote) time.Time {
	return a.TransferExpiresAt(now, transfer, quote).Add(HopExpiryMargin)
}

// ConditionOptions selects what SetupConditions attaches.
type ConditionOptions struct {
	Atomic                bool
	ExecutionCondition    domain.Condition
	CancellationCondition domain.Condition
	CaseID                string
}

// SetupConditions attaches conditions to the transfer and every nested hop.
// In universal mode the cancellation condition is omitted entirely: its
// absence is the signal downstream ledgers use to distinguish modes.
func (a *TransferAssembler) SetupConditions(transfer *domain.Transfer, opts ConditionOptions) (*domain.Transfer, error) {
	const op = "setupConditions"
	if opts.ExecutionCondition.Empty() {
		return nil, NewError(KindAssembly, op, "execution condition is missing")
	}
	if opts.Atomic {
		if opts.CancellationCondition.Empty() {
			return nil, NewError(KindAssembly, op, "cancellation condition is missing in atomic mode")
		}
		if opts.CaseID == "" {
			return nil, NewError(KindAssembly, op, "case id is missing in atomic mode")
		}
	}

	for hop := transfer; hop != nil; hop = hop.DestinationTransfer() {
		hop.ExecutionCondition = opts.ExecutionCondition
		if opts.Atomic {
			hop.CancellationCondition = opts.CancellationCondition
			hop.CaseID = opts.CaseID
		} else {
			hop.CancellationCondition = ""
			hop.CaseID = ""
		}
	}
	return transfer, nil
}

// ChainTransferIDs lists the transfer URIs of the chain, source first.
func ChainTransferIDs(transfer *domain.Transfer) []string {
	var ids []string
	for hop := transfer; hop != nil; hop = hop.DestinationTransfer() {
		ids = append(ids, hop.ID)
	}
	return ids
}

func checkQuote(quote *domain.ConnectorQuote) error {
	const op = "setupTransfers"
	switch {
	case quote == nil:
		return NewError(KindAssembly, op, "quote is missing")
	case quote.ConnectorAccount == "":
		return NewError(KindAssembly, op, "quote has no connector account")
	case quote.SourceLedger == "" || quote.DestinationLedger == "":
		return NewError(KindAssembly, op, "quote has no source or destination ledger")
	case !quote.SourceAmount.IsPositive() || !quote.DestinationAmount.IsPositive():
		return NewError(KindAssembly, op, "quote amounts must be positive")
	}
	return nil
}

func transferURI(ledger, id string) string {
	return strings.TrimSuffix(ledger, "/") + "/transfers/" + id
}
