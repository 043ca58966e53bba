package rest

import (
	"context"
	"fmt"
	"strings"

	"github.com/MatthewPhinney/five-bells-sender/clients/rest"
	"github.com/MatthewPhinney/five-bells-sender/domain"
	"github.com/MatthewPhinney/five-bells-sender/payment"
)

// NotaryClient implements payment.Notary against a notary's case REST
// interface.
type NotaryClient struct {
	client *rest.Client
}

// NewNotaryClient creates a notary case client.
func NewNotaryClient(client *rest.Client) *NotaryClient {
	return &NotaryClient{client: client}
}

// CreateCase registers the case by POSTing it to <notary>/cases.
func (n *NotaryClient) CreateCase(ctx context.Context, c domain.Case) (string, error) {
	const op = "createCase"

	caseURL := strings.TrimSuffix(c.Notary, "/") + "/cases"
	resp, err := n.client.Post(ctx, caseURL, c, nil)
	if err != nil {
		return "", payment.WrapError(payment.KindTransport, op, "failed to reach notary", err)
	}
	if !resp.OK() {
		return "", &payment.Error{
			Kind:    payment.KindNotarization,
			Op:      op,
			Message: fmt.Sprintf("notary rejected case with status %d", resp.Status),
			Status:  resp.Status,
			Body:    string(resp.Body),
		}
	}
	return c.ID, nil
}
