package domain

import "time"

// Case is a notary-held record binding a receipt condition to a fixed set
// of transfers and an expiry. It is created once per atomic payment and is
// immutable after creation; fulfillment state lives on the notary.
type Case struct {
	ID               string    `json:"id"`
	Notary           string    `json:"notary"`
	ReceiptCondition Condition `json:"execution_condition"`
	Transfers        []string  `json:"transfers"`
	ExpiresAt        time.Time `json:"expires_at"`
}
