// Package rest implements the payment ports over the ledger, connector and
// notary REST interfaces.
package rest

import (
	"context"
	"fmt"
	"strings"

	"github.com/MatthewPhinney/five-bells-sender/clients/rest"
	"github.com/MatthewPhinney/five-bells-sender/domain"
	"github.com/MatthewPhinney/five-bells-sender/payment"
)

// Gateway implements payment.LedgerGateway against ledger REST resources.
type Gateway struct {
	client *rest.Client
}

// NewGateway creates a ledger gateway over the given REST client.
func NewGateway(client *rest.Client) *Gateway {
	return &Gateway{client: client}
}

// ResolveAccount fetches the account resource and requires a 200 with a
// usable body.
func (g *Gateway) ResolveAccount(ctx context.Context, accountURI string) (*domain.Account, error) {
	const op = "resolveAccount"

	resp, err := g.client.Get(ctx, accountURI)
	if err != nil {
		return nil, payment.WrapError(payment.KindTransport, op, "failed to reach account endpoint", err)
	}
	if resp.Status != 200 {
		return nil, &payment.Error{
			Kind:    payment.KindResolution,
			Op:      op,
			Message: fmt.Sprintf("account lookup returned status %d: %s", resp.Status, accountURI),
			Status:  resp.Status,
		}
	}

	var account domain.Account
	if err := resp.Decode(&account); err != nil {
		return nil, payment.WrapError(payment.KindResolution, op, "account body is not a valid account", err)
	}
	if account.ID == "" {
		account.ID = accountURI
	}
	return &account, nil
}

// Connectors lists the connector accounts advertised by a ledger.
func (g *Gateway) Connectors(ctx context.Context, ledgerURI string) ([]domain.ConnectorRef, error) {
	const op = "listConnectors"

	resp, err := g.client.Get(ctx, strings.TrimSuffix(ledgerURI, "/")+"/connectors")
	if err != nil {
		return nil, payment.WrapError(payment.KindTransport, op, "failed to reach ledger", err)
	}
	if resp.Status != 200 {
		return nil, &payment.Error{
			Kind:    payment.KindResolution,
			Op:      op,
			Message: fmt.Sprintf("connector listing returned status %d: %s", resp.Status, ledgerURI),
			Status:  resp.Status,
		}
	}

	var connectors []domain.ConnectorRef
	if err := resp.Decode(&connectors); err != nil {
		return nil, payment.WrapError(payment.KindResolution, op, "connector listing body is invalid", err)
	}
	return connectors, nil
}

// SubmitTransfer PUTs the fully conditioned transfer to its own URI on the
// owning ledger. Issued exactly once; never retried here.
func (g *Gateway) SubmitTransfer(ctx context.Context, transfer *domain.Transfer, cred domain.Credential) (*domain.Transfer, error) {
	const op = "submitTransfer"

	resp, err := g.client.Put(ctx, transfer.ID, transfer, cred)
	if err != nil {
		return nil, payment.WrapError(payment.KindTransport, op, "failed to reach ledger", err)
	}
	if !resp.OK() {
		return nil, &payment.Error{
			Kind:    payment.KindSubmission,
			Op:      op,
			Message: fmt.Sprintf("ledger rejected transfer with status %d", resp.Status),
			Status:  resp.Status,
			Body:    string(resp.Body),
		}
	}

	var submitted domain.Transfer
	if err := resp.Decode(&submitted); err != nil {
		return nil, payment.WrapError(payment.KindSubmission, op, "ledger response is not a valid transfer", err)
	}
	// The ledger's view is authoritative for the state only; keep the
	// assembled chain as submitted.
	result := *transfer
	result.State = submitted.State
	return &result, nil
}
