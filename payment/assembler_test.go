package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

func testQuote() *domain.ConnectorQuote {
	return &domain.ConnectorQuote{
		ConnectorAccount:  "https://ledger1.example/accounts/mark",
		SourceLedger:      "https://ledger1.example",
		DestinationLedger: "https://ledger2.example",
		SourceAmount:      decimal.RequireFromString("10"),
		DestinationAmount: decimal.RequireFromString("9.5"),
	}
}

func testParams() *Params {
	return &Params{
		SourceAccount:      "https://ledger1.example/accounts/alice",
		DestinationAccount: "https://ledger2.example/accounts/bob",
		Amount:             FixedSource(decimal.RequireFromString("10")),
		ReceiptCondition:   "cc:0:3:receipt-hash:32",
	}
}

func TestSetupTransfers_BuildsChain(t *testing.T) {
	a := NewTransferAssembler()
	p := testParams()
	p.SourceMemo = map[string]any{"note": "rent"}
	p.DestinationMemo = map[string]any{"invoice": "42"}

	source, err := a.SetupTransfers(testQuote(), p)
	require.NoError(t, err)

	require.Len(t, source.Debits, 1)
	assert.Equal(t, p.SourceAccount, source.Debits[0].Account)
	assert.True(t, source.Debits[0].Amount.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, p.SourceMemo, source.Debits[0].Memo)
	assert.Equal(t, "https://ledger1.example", source.Ledger)
	assert.Contains(t, source.ID, "https://ledger1.example/transfers/")

	require.Len(t, source.Credits, 1)
	assert.Equal(t, "https://ledger1.example/accounts/mark", source.Credits[0].Account)

	destination := source.DestinationTransfer()
	require.NotNil(t, destination)
	assert.Equal(t, "https://ledger2.example", destination.Ledger)
	require.Len(t, destination.Credits, 1)
	assert.Equal(t, p.DestinationAccount, destination.Credits[0].Account)
	assert.True(t, destination.Credits[0].Amount.Equal(decimal.RequireFromString("9.5")))
	assert.Equal(t, p.DestinationMemo, destination.Credits[0].Memo)
	assert.Nil(t, destination.DestinationTransfer())
}

func TestSetupTransfers_ExpiryOrdering(t *testing.T) {
	a := NewTransferAssembler()
	now := time.Date(2015, 6, 16, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	source, err := a.SetupTransfers(testQuote(), testParams())
	require.NoError(t, err)
	destination := source.DestinationTransfer()

	assert.True(t, source.ExpiresAt.After(now))
	assert.True(t, destination.ExpiresAt.After(now))
	// The source hop depends on the destination hop completing first, so
	// it must stay open at least a margin longer.
	assert.True(t, source.ExpiresAt.Sub(destination.ExpiresAt) >= HopExpiryMargin)
}

func TestSetupTransfers_QuotedDurationsExtendWindow(t *testing.T) {
	a := NewTransferAssembler()
	now := time.Date(2015, 6, 16, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	quote := testQuote()
	quote.DestinationExpiryDuration = 20 * time.Second
	quote.SourceExpiryDuration = 25 * time.Second

	source, err := a.SetupTransfers(quote, testParams())
	require.NoError(t, err)

	assert.Equal(t, now.Add(20*time.Second), source.DestinationTransfer().ExpiresAt)
	assert.Equal(t, now.Add(25*time.Second), source.ExpiresAt)
}

func TestSetupTransfers_MalformedQuote(t *testing.T) {
	a := NewTransferAssembler()

	cases := []struct {
		name   string
		mutate func(q *domain.ConnectorQuote)
	}{
		{"no connector account", func(q *domain.ConnectorQuote) { q.ConnectorAccount = "" }},
		{"no source ledger", func(q *domain.ConnectorQuote) { q.SourceLedger = "" }},
		{"no destination ledger", func(q *domain.ConnectorQuote) { q.DestinationLedger = "" }},
		{"zero source amount", func(q *domain.ConnectorQuote) { q.SourceAmount = decimal.Zero }},
		{"negative destination amount", func(q *domain.ConnectorQuote) {
			q.DestinationAmount = decimal.RequireFromString("-1")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quote := testQuote()
			tc.mutate(quote)
			_, err := a.SetupTransfers(quote, testParams())
			require.Error(t, err)
			assert.Equal(t, KindAssembly, KindOf(err))
		})
	}

	_, err := a.SetupTransfers(nil, testParams())
	require.Error(t, err)
	assert.Equal(t, KindAssembly, KindOf(err))
}

func TestSetupConditions_Universal(t *testing.T) {
	a := NewTransferAssembler()
	source, err := a.SetupTransfers(testQuote(), testParams())
	require.NoError(t, err)

	source, err = a.SetupConditions(source, ConditionOptions{
		ExecutionCondition: "cc:0:3:receipt-hash:32",
	})
	require.NoError(t, err)

	for hop := source; hop != nil; hop = hop.DestinationTransfer() {
		assert.Equal(t, domain.Condition("cc:0:3:receipt-hash:32"), hop.ExecutionCondition)
		assert.True(t, hop.CancellationCondition.Empty(), "universal transfers must not carry a cancellation condition")
		assert.Empty(t, hop.CaseID)
	}
}

func TestSetupConditions_Atomic(t *testing.T) {
	a := NewTransferAssembler()
	source, err := a.SetupTransfers(testQuote(), testParams())
	require.NoError(t, err)

	source, err = a.SetupConditions(source, ConditionOptions{
		Atomic:                true,
		ExecutionCondition:    "cc:1:sha256:exec",
		CancellationCondition: "cc:1:sha256:cancel",
		CaseID:                "case-1",
	})
	require.NoError(t, err)

	for hop := source; hop != nil; hop = hop.DestinationTransfer() {
		assert.Equal(t, domain.Condition("cc:1:sha256:exec"), hop.ExecutionCondition)
		assert.Equal(t, domain.Condition("cc:1:sha256:cancel"), hop.CancellationCondition)
		assert.Equal(t, "case-1", hop.CaseID)
	}
}

func TestSetupConditions_AtomicRequiresCancellationAndCase(t *testing.T) {
	a := NewTransferAssembler()
	source, err := a.SetupTransfers(testQuote(), testParams())
	require.NoError(t, err)

	_, err = a.SetupConditions(source, ConditionOptions{
		Atomic:             true,
		ExecutionCondition: "cc:1:sha256:exec",
		CaseID:             "case-1",
	})
	assert.Equal(t, KindAssembly, KindOf(err))

	_, err = a.SetupConditions(source, ConditionOptions{
		Atomic:                true,
		ExecutionCondition:    "cc:1:sha256:exec",
		CancellationCondition: "cc:1:sha256:cancel",
	})
	assert.Equal(t, KindAssembly, KindOf(err))
}

func TestChainTransferIDs(t *testing.T) {
	a := NewTransferAssembler()
	source, err := a.SetupTransfers(testQuote(), testParams())
	require.NoError(t, err)

	ids := ChainTransferIDs(source)
	require.Len(t, ids, 2)
	assert.Equal(t, source.ID, ids[0])
	assert.Equal(t, source.DestinationTransfer().ID, ids[1])
}
