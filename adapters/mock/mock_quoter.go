package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/MatthewPhinney/five-bells-sender/domain"
	"github.com/MatthewPhinney/five-bells-sender/payment"
)

// MockQuoter implements payment.QuoteRequester for testing/dev.
type MockQuoter struct {
	mu       sync.RWMutex
	quotes   map[string]*domain.ConnectorQuote
	errs     map[string]error
	requests []string
}

// NewMockQuoter creates an empty mock quote requester.
func NewMockQuoter() *MockQuoter {
	return &MockQuoter{
		quotes: make(map[string]*domain.ConnectorQuote),
		errs:   make(map[string]error),
	}
}

// SimulateQuote makes a connector answer with the given quote.
func (m *MockQuoter) SimulateQuote(connectorAccount string, quote *domain.ConnectorQuote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[connectorAccount] = quote
}

// SimulateFailure makes a connector fail its quote requests.
func (m *MockQuoter) SimulateFailure(connectorAccount string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[connectorAccount] = err
}

func (m *MockQuoter) RequestQuote(ctx context.Context, connectorAccount string, req payment.QuoteRequest) (*domain.ConnectorQuote, error) {
	m.mu.Lock()
	m.requests = append(m.requests, connectorAccount)
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.errs[connectorAccount]; ok {
		return nil, err
	}
	quote, ok := m.quotes[connectorAccount]
	if !ok {
		return nil, fmt.Errorf("no path via connector %s", connectorAccount)
	}
	copied := *quote
	return &copied, nil
}

// Requests returns the connectors asked for a quote, in request order.
func (m *MockQuoter) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.requests...)
}
