package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// NotaryCoordinator registers a multi-party case with a notary. It must run
// before conditions are derived, since atomic-mode conditions are bound to
// the case id.
type NotaryCoordinator struct {
	notary Notary
	newID  func() string
}

// NewNotaryCoordinator wires a coordinator over the notary port.
func NewNotaryCoordinator(notary Notary) *NotaryCoordinator {
	return &NotaryCoordinator{
		notary: notary,
		newID:  func() string { return uuid.NewString() },
	}
}

// CaseRequest carries everything needed to register a case.
type CaseRequest struct {
	Notary           string
	CaseID           string // optional; generated when empty
	ReceiptCondition domain.Condition
	Transfers        []string
	ExpiresAt        time.Time
}

// SetupCase registers the case and returns its id. Failure is fatal to the
// atomic flow: there is no silent fallback to universal mode.
func (n *NotaryCoordinator) SetupCase(ctx context.Context, req CaseRequest) (string, error) {
	const op = "setupCase"

	caseID := req.CaseID
	if caseID == "" {
		caseID = n.newID()
	}

	id, err := n.notary.CreateCase(ctx, domain.Case{
		ID:               caseID,
		Notary:           req.Notary,
		ReceiptCondition: req.ReceiptCondition,
		Transfers:        req.Transfers,
		ExpiresAt:        req.ExpiresAt,
	})
	if err != nil {
		return "", stamp(err, op, KindNotarization)
	}

	slog.Info("notary case registered", "case_id", id, "notary", req.Notary)
	return id, nil
}
