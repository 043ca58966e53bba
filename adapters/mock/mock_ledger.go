// Package mock provides in-memory implementations of the payment ports for
// tests and demos.
package mock

import (
	"context"
	"sync"

	"github.com/MatthewPhinney/five-bells-sender/domain"
	"github.com/MatthewPhinney/five-bells-sender/payment"
)

// MockLedger implements payment.LedgerGateway for testing/dev.
type MockLedger struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	connectors   map[string][]domain.ConnectorRef
	submitted    []*domain.Transfer
	resolveCalls int

	// SubmitState is the state the fake ledger reports on submission.
	SubmitState string
	// ResolveErr, ConnectorsErr and SubmitErr force the corresponding
	// call to fail.
	ResolveErr    error
	ConnectorsErr error
	SubmitErr     error
}

// NewMockLedger creates an empty mock ledger gateway.
func NewMockLedger() *MockLedger {
	return &MockLedger{
		accounts:    make(map[string]*domain.Account),
		connectors:  make(map[string][]domain.ConnectorRef),
		SubmitState: domain.TransferStatePrepared,
	}
}

// SimulateAccount registers an account resource.
func (m *MockLedger) SimulateAccount(uri, name, ledger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[uri] = &domain.Account{ID: uri, Name: name, Ledger: ledger}
}

// SimulateConnector advertises a connector account on a ledger.
func (m *MockLedger) SimulateConnector(ledger, connectorAccount string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectors[ledger] = append(m.connectors[ledger], domain.ConnectorRef{Connector: connectorAccount})
}

func (m *MockLedger) ResolveAccount(ctx context.Context, accountURI string) (*domain.Account, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()
	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[accountURI]
	if !ok {
		return nil, &payment.Error{
			Kind:    payment.KindResolution,
			Op:      "resolveAccount",
			Message: "account not found: " + accountURI,
			Status:  404,
		}
	}
	copied := *account
	return &copied, nil
}

func (m *MockLedger) Connectors(ctx context.Context, ledgerURI string) ([]domain.ConnectorRef, error) {
	if m.ConnectorsErr != nil {
		return nil, m.ConnectorsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.ConnectorRef(nil), m.connectors[ledgerURI]...), nil
}

func (m *MockLedger) SubmitTransfer(ctx context.Context, transfer *domain.Transfer, cred domain.Credential) (*domain.Transfer, error) {
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := *transfer
	result.State = m.SubmitState
	m.submitted = append(m.submitted, &result)
	return &result, nil
}

// ResolveCalls returns how many account resolutions were attempted.
func (m *MockLedger) ResolveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolveCalls
}

// Submitted returns the transfers submitted so far.
func (m *MockLedger) Submitted() []*domain.Transfer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transfer(nil), m.submitted...)
}
