// Package payment implements the client-side protocol for executing
// conditional, cryptographically-locked payments across independent
// ledgers, optionally notarized for atomicity.
package payment

import (
	"context"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// LedgerGateway is the transport-agnostic port for ledger REST resources.
// The PaymentExecutor talks ONLY to this interface — never to HTTP or any
// wire format directly.
type LedgerGateway interface {
	// ResolveAccount fetches the account resource behind accountURI.
	// Fails with a Resolution error when the endpoint does not answer
	// with a usable account.
	ResolveAccount(ctx context.Context, accountURI string) (*domain.Account, error)

	// Connectors lists the connector accounts advertised by a ledger.
	Connectors(ctx context.Context, ledgerURI string) ([]domain.ConnectorRef, error)

	// SubmitTransfer posts a fully assembled and conditioned transfer to
	// its owning ledger, authenticated with cred, and returns the
	// transfer as the ledger reported it back (state included). The call
	// is a non-idempotent remote state change; it is issued exactly once
	// per payment attempt and never retried here.
	SubmitTransfer(ctx context.Context, transfer *domain.Transfer, cred domain.Credential) (*domain.Transfer, error)
}

// QuoteRequest carries the parameters of a quote inquiry to a connector.
type QuoteRequest struct {
	SourceAccount      string
	DestinationAccount string
	Amount             Amount
}

// QuoteRequester is the port for asking a single connector for a quote.
// A connector that cannot serve the path may fail; the PathFinder treats
// any error as "no quote from this connector".
type QuoteRequester interface {
	RequestQuote(ctx context.Context, connectorAccount string, req QuoteRequest) (*domain.ConnectorQuote, error)
}

// Notary is the port for registering a multi-party case with a notary.
type Notary interface {
	// CreateCase registers the case and returns its id.
	CreateCase(ctx context.Context, c domain.Case) (string, error)
}
