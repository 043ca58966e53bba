package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConnectorQuote is a single connector's offer to relay a payment between
// two ledgers. Quotes are compared pairwise by total cost; the expiry
// durations are path-specific hints the connector needs honored for the
// chain to remain completable.
type ConnectorQuote struct {
	ConnectorAccount  string          `json:"source_connector_account"`
	SourceLedger      string          `json:"source_ledger"`
	DestinationLedger string          `json:"destination_ledger"`
	SourceAmount      decimal.Decimal `json:"source_amount"`
	DestinationAmount decimal.Decimal `json:"destination_amount"`

	SourceExpiryDuration      time.Duration `json:"-"`
	DestinationExpiryDuration time.Duration `json:"-"`
}
