package mock

import (
	"context"
	"sync"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// MockNotary implements payment.Notary for testing/dev.
type MockNotary struct {
	mu    sync.RWMutex
	cases []domain.Case

	// CreateErr forces case creation to fail.
	CreateErr error
}

// NewMockNotary creates an empty mock notary.
func NewMockNotary() *MockNotary {
	return &MockNotary{}
}

func (m *MockNotary) CreateCase(ctx context.Context, c domain.Case) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases = append(m.cases, c)
	return c.ID, nil
}

// Cases returns the cases registered so far.
func (m *MockNotary) Cases() []domain.Case {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Case(nil), m.cases...)
}
