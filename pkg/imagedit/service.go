package imagedit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/rozo-ai/bananary-go/pkg/x402"
)

// Service performs paid image edits against a model endpoint.
type Service struct {
	endpoint string
	model    string
	referer  string
	title    string
	client   *x402.Client
	log      logrus.FieldLogger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithModel overrides the model name.
func WithModel(model string) ServiceOption {
	return func(s *Service) { s.model = model }
}

// WithAttribution sets the HTTP-Referer and X-Title headers sent to
// the endpoint.
func WithAttribution(referer, title string) ServiceOption {
	return func(s *Service) { s.referer = referer; s.title = title }
}

// WithLogger replaces the default logger.
func WithLogger(log logrus.FieldLogger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates an image edit service over a payment-gated client.
func NewService(endpoint string, client *x402.Client, opts ...ServiceOption) *Service {
	s := &Service{
		endpoint: endpoint,
		model:    DefaultModel,
		client:   client,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Edit transforms the primary image per the instruction. mask and
// secondary are optional; a mask scopes the edit to the masked region.
// Payment, if the endpoint demands it, is handled by the underlying
// client; its typed errors pass through unwrapped.
func (s *Service) Edit(ctx context.Context, primary Image, instruction string, mask []byte, secondary *Image) (*Result, error) {
	request := BuildRequest(s.model, primary, instruction, mask, secondary)

	body, err := json.Marshal(&request)
	if err != nil {
		return nil, fmt.Errorf("encode edit request: %w", err)
	}

	headers := map[string]string{}
	if s.referer != "" {
		headers["HTTP-Referer"] = s.referer
	}
	if s.title != "" {
		headers["X-Title"] = s.title
	}

	s.log.WithFields(logrus.Fields{
		"model":     s.model,
		"has_mask":  mask != nil,
		"two_image": secondary != nil,
	}).Debug("sending image edit request")

	respBody, err := s.client.Do(ctx, http.MethodPost, s.endpoint, body, headers)
	if err != nil {
		return nil, err
	}

	result, err := ParseResult(respBody)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckPayment probes the endpoint's payment demands.
func (s *Service) CheckPayment(ctx context.Context) (*x402.PaymentInfo, error) {
	return s.client.CheckPaymentRequired(ctx, s.endpoint)
}
