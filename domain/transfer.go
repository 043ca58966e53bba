package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DestinationTransferKey is the credit-memo key under which a transfer
// carries the next hop of the chain. The nested transfer is a plain data
// payload for the receiving ledger; this library never dereferences it
// except to attach it.
const DestinationTransferKey = "destination_transfer"

// Well-known transfer states. The authoritative state is whatever the
// owning ledger reports after submission; these constants only name the
// values this library expects to see.
const (
	TransferStateProposed = "proposed"
	TransferStatePrepared = "prepared"
	TransferStateExecuted = "executed"
	TransferStateRejected = "rejected"
)

// Funds is a single debit or credit entry on a transfer.
type Funds struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    map[string]any  `json:"memo,omitempty"`
}

// Transfer is a condition-locked movement of funds on a single ledger.
// It is the core primitive the payment chain is built from: each hop is a
// Transfer whose credit memo references the Transfer of the next hop.
type Transfer struct {
	ID     string `json:"id"`
	Ledger string `json:"ledger"`

	Debits  []Funds `json:"debits"`
	Credits []Funds `json:"credits"`

	ExecutionCondition    Condition `json:"execution_condition,omitempty"`
	CancellationCondition Condition `json:"cancellation_condition,omitempty"`

	ExpiresAt time.Time `json:"expires_at,omitempty"`

	// CaseID links the transfer to a notarized case. Set only in atomic
	// mode, alongside the cancellation condition.
	CaseID string `json:"case_id,omitempty"`

	// State is written by the owning ledger; empty until submission.
	State string `json:"state,omitempty"`

	AdditionalInfo map[string]any `json:"additional_info,omitempty"`
}

// DestinationTransfer returns the nested next-hop transfer carried in a
// credit memo, or nil when the transfer is the last hop.
func (t *Transfer) DestinationTransfer() *Transfer {
	for _, credit := range t.Credits {
		if credit.Memo == nil {
			continue
		}
		if next, ok := credit.Memo[DestinationTransferKey].(*Transfer); ok {
			return next
		}
	}
	return nil
}
