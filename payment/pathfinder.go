package payment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// QuoteComparator reports whether quote a is strictly cheaper than quote b
// for a payment whose fixed side is `fixed`. Ties must return false so the
// first-seen quote wins and selection stays deterministic.
type QuoteComparator func(fixed AmountSide, a, b *domain.ConnectorQuote) bool

// CheaperQuote is the default comparator: with the source amount fixed, the
// quote delivering more wins; with the destination amount fixed, the quote
// costing less wins.
func CheaperQuote(fixed AmountSide, a, b *domain.ConnectorQuote) bool {
	if fixed == SourceFixed {
		return a.DestinationAmount.GreaterThan(b.DestinationAmount)
	}
	return a.SourceAmount.LessThan(b.SourceAmount)
}

// PathFinder discovers the source ledger, asks every advertised connector
// for a quote in parallel, and selects the cheapest usable one.
type PathFinder struct {
	gateway LedgerGateway
	quoter  QuoteRequester
	cheaper QuoteComparator
}

// NewPathFinder wires a PathFinder over the given ports. A nil comparator
// falls back to CheaperQuote.
func NewPathFinder(gateway LedgerGateway, quoter QuoteRequester, cheaper QuoteComparator) *PathFinder {
	if cheaper == nil {
		cheaper = CheaperQuote
	}
	return &PathFinder{gateway: gateway, quoter: quoter, cheaper: cheaper}
}

// FindPath returns the best quote for the request, or (nil, nil) when no
// connector can serve the path. Callers must treat the nil quote as
// "payment not executable", not as a protocol fault.
func (f *PathFinder) FindPath(ctx context.Context, req QuoteRequest) (*domain.ConnectorQuote, error) {
	const op = "findPath"

	account, err := f.gateway.ResolveAccount(ctx, req.SourceAccount)
	if err != nil {
		return nil, stamp(err, op, KindResolution)
	}
	if account.Ledger == "" {
		return nil, NewError(KindResolution, op, "account did not identify a ledger: "+req.SourceAccount)
	}

	connectors, err := f.gateway.Connectors(ctx, account.Ledger)
	if err != nil {
		return nil, stamp(err, op, KindResolution)
	}

	// Fan out to every connector at once; individual failures only mean
	// "no quote from this connector". Results keep connector order so
	// tie-breaking is stable across runs.
	quotes := make([]*domain.ConnectorQuote, len(connectors))
	var wg sync.WaitGroup
	for i, ref := range connectors {
		wg.Add(1)
		go func(i int, connector string) {
			defer wg.Done()
			quote, err := f.quoter.RequestQuote(ctx, connector, req)
			if err != nil {
				slog.Warn("connector returned no quote", "connector", connector, "error", err)
				return
			}
			quotes[i] = quote
		}(i, ref.Connector)
	}
	wg.Wait()

	var best *domain.ConnectorQuote
	for _, quote := range quotes {
		if quote == nil {
			continue
		}
		if best == nil || f.cheaper(req.Amount.Side(), quote, best) {
			best = quote
		}
	}
	if best == nil {
		slog.Info("no payment path found", "source", req.SourceAccount, "destination", req.DestinationAccount)
		return nil, nil
	}
	return best, nil
}
