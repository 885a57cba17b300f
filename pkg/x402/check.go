package x402

import (
	"context"
	"net/http"

	"github.com/rozo-ai/bananary-go/pkg/network"
	"github.com/rozo-ai/bananary-go/pkg/types"
)

// PaymentInfo summarizes whether an endpoint demands payment.
type PaymentInfo struct {
	Required    bool
	Price       string // human-readable, e.g. "USDC 0.50"
	Network     types.Network
	Description string
}

// CheckPaymentRequired probes an endpoint with an empty request and
// reports its payment demands without ever paying. A 2xx answer means
// the endpoint is free (or the bypass token is active).
func (c *Client) CheckPaymentRequired(ctx context.Context, url string) (*PaymentInfo, error) {
	headers := map[string]string{}
	if c.paymentMode() == modeBypass {
		token, _ := c.resolver.Resolve()
		headers[BypassHeader] = string(token)
	}

	status, body, err := c.attempt(ctx, http.MethodPost, url, []byte(`{"test":true}`), headers)
	if err != nil {
		return nil, c.transportError(ctx, KindRequestFailed, "payment check", err)
	}

	if status != http.StatusPaymentRequired {
		return &PaymentInfo{Required: false}, nil
	}

	challenge, err := types.ParsePaymentRequired(body)
	if err != nil {
		return nil, wrapError(KindMalformedChallenge, "unparseable 402 challenge", err)
	}
	selected, err := SelectRequirement(challenge.Accepts, c.preferred)
	if err != nil {
		return nil, err
	}

	return &PaymentInfo{
		Required:    true,
		Price:       network.HumanAmount(selected),
		Network:     selected.Network,
		Description: selected.Description,
	}, nil
}
