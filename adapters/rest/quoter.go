package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MatthewPhinney/five-bells-sender/clients/rest"
	"github.com/MatthewPhinney/five-bells-sender/domain"
	"github.com/MatthewPhinney/five-bells-sender/payment"
)

// Quoter implements payment.QuoteRequester against connector quote
// endpoints. Errors are plain: the PathFinder treats any failure as "no
// quote from this connector".
type Quoter struct {
	client *rest.Client
}

// NewQuoter creates a connector quote requester.
func NewQuoter(client *rest.Client) *Quoter {
	return &Quoter{client: client}
}

// quoteDTO is the connector quote wire shape. Expiry durations come over
// the wire in seconds.
type quoteDTO struct {
	SourceConnectorAccount    string          `json:"source_connector_account"`
	SourceLedger              string          `json:"source_ledger"`
	DestinationLedger         string          `json:"destination_ledger"`
	SourceAmount              decimal.Decimal `json:"source_amount"`
	DestinationAmount         decimal.Decimal `json:"destination_amount"`
	SourceExpiryDuration      json.Number     `json:"source_expiry_duration"`
	DestinationExpiryDuration json.Number     `json:"destination_expiry_duration"`
}

// RequestQuote asks a single connector for a quote.
func (q *Quoter) RequestQuote(ctx context.Context, connectorAccount string, req payment.QuoteRequest) (*domain.ConnectorQuote, error) {
	query := url.Values{}
	query.Set("source_account", req.SourceAccount)
	query.Set("destination_account", req.DestinationAccount)
	switch req.Amount.Side() {
	case payment.SourceFixed:
		query.Set("source_amount", req.Amount.Value().String())
	case payment.DestinationFixed:
		query.Set("destination_amount", req.Amount.Value().String())
	}

	quoteURL := strings.TrimSuffix(connectorAccount, "/") + "/quote?" + query.Encode()
	resp, err := q.client.Get(ctx, quoteURL)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	if resp.Status != 200 {
		return nil, fmt.Errorf("connector returned status %d", resp.Status)
	}

	var dto quoteDTO
	if err := resp.Decode(&dto); err != nil {
		return nil, fmt.Errorf("invalid quote body: %w", err)
	}
	if dto.SourceConnectorAccount == "" {
		dto.SourceConnectorAccount = connectorAccount
	}
	return &domain.ConnectorQuote{
		ConnectorAccount:          dto.SourceConnectorAccount,
		SourceLedger:              dto.SourceLedger,
		DestinationLedger:         dto.DestinationLedger,
		SourceAmount:              dto.SourceAmount,
		DestinationAmount:         dto.DestinationAmount,
		SourceExpiryDuration:      secondsToDuration(dto.SourceExpiryDuration),
		DestinationExpiryDuration: secondsToDuration(dto.DestinationExpiryDuration),
	}, nil
}

func secondsToDuration(n json.Number) time.Duration {
	if n == "" {
		return 0
	}
	secs, err := n.Float64()
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
