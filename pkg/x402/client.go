// Package x402 implements the client side of the HTTP 402 payment
// challenge protocol: a single logical "call this paid API" intent is
// turned into at most two HTTP exchanges, either under a pre-shared
// bypass token or under the challenge/sign/retry flow.
package x402

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rozo-ai/bananary-go/pkg/credential"
	"github.com/rozo-ai/bananary-go/pkg/network"
	"github.com/rozo-ai/bananary-go/pkg/types"
)

const (
	// PaymentHeader carries the signed payment credential on the retried
	// request.
	PaymentHeader = "X-Payment"

	// BypassHeader carries the pre-shared bypass token. A server seeing
	// it responds with ordinary status codes, never 402.
	BypassHeader = "X-Stellar-Token"
)

// AuthorizationProvider produces a signed payment credential for a
// selected requirement. It is the external signing capability (e.g. a
// connected wallet); the client consumes it only through this
// interface and performs no cryptography itself.
type AuthorizationProvider interface {
	// Authorize signs the requirement and returns the payment header
	// value. May fail on network errors, a user-rejected signature, or
	// an unsupported requirement.
	Authorize(ctx context.Context, version int, req *types.PaymentRequirements) (string, error)
}

// mode is the payment mode selected once per call. Bypass and the
// payment protocol are mutually exclusive: a call never falls back
// from one to the other.
type mode int

const (
	modePayment mode = iota
	modeBypass
)

// Client drives paid requests. Zero value is not usable; construct
// with NewClient.
type Client struct {
	httpClient *http.Client
	provider   AuthorizationProvider
	resolver   *credential.Resolver
	preferred  []types.Network
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthorizationProvider supplies the signing capability. Without
// one, a 402 challenge fails with KindPaymentRequiredNoSigner.
func WithAuthorizationProvider(p AuthorizationProvider) Option {
	return func(c *Client) { c.provider = p }
}

// WithCredentialResolver supplies the bypass-token resolver. When the
// resolver reports an active token, the payment protocol is skipped
// entirely.
func WithCredentialResolver(r *credential.Resolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithPreferredNetworks sets the negotiator's network preference order.
func WithPreferredNetworks(networks ...types.Network) Option {
	return func(c *Client) { c.preferred = networks }
}

// WithLogger replaces the default logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a payment-gated request client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // Prevent indefinite hangs
		},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasSigner reports whether an authorization provider is configured.
// Callers use it to special-case "connect a wallet" flows up front.
func (c *Client) HasSigner() bool {
	return c.provider != nil
}

// Do sends body to url, handling the 402 challenge protocol. At most
// two HTTP attempts ever happen for one call: either a single
// bypass-token request, or a probe plus at most one paid retry. On
// success the response body is returned.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, extraHeaders map[string]string) ([]byte, error) {
	log := c.log.WithField("request_id", uuid.NewString())

	if c.paymentMode() == modeBypass {
		return c.doBypass(ctx, log, method, url, body, extraHeaders)
	}
	return c.doPayment(ctx, log, method, url, body, extraHeaders)
}

func (c *Client) paymentMode() mode {
	if c.resolver != nil && c.resolver.Active() {
		return modeBypass
	}
	return modePayment
}

// doBypass performs exactly one request with the bypass token
// attached. Any non-success status is fatal; there is no fallback to
// the payment protocol.
func (c *Client) doBypass(ctx context.Context, log logrus.FieldLogger, method, url string, body []byte, extraHeaders map[string]string) ([]byte, error) {
	token, _ := c.resolver.Resolve()

	headers := cloneHeaders(extraHeaders)
	headers[BypassHeader] = string(token)

	log.WithField("mode", "bypass").Debug("sending bypass request")
	status, respBody, err := c.attempt(ctx, method, url, body, headers)
	if err != nil {
		return nil, c.transportError(ctx, KindBypassRequestFailed, "bypass request", err)
	}
	if status < 200 || status > 299 {
		log.WithField("status", status).Warn("bypass request rejected")
		return nil, newStatusError(KindBypassRequestFailed, status, "bypass request rejected")
	}
	return respBody, nil
}

// doPayment performs the probe and, on a 402 challenge, exactly one
// signed retry.
func (c *Client) doPayment(ctx context.Context, log logrus.FieldLogger, method, url string, body []byte, extraHeaders map[string]string) ([]byte, error) {
	log = log.WithField("mode", "payment")

	log.Debug("sending probe request")
	status, respBody, err := c.attempt(ctx, method, url, body, extraHeaders)
	if err != nil {
		return nil, c.transportError(ctx, KindRequestFailed, "request", err)
	}

	switch {
	case status >= 200 && status <= 299:
		return respBody, nil
	case status == http.StatusPaymentRequired:
		return c.payAndRetry(ctx, log, method, url, body, extraHeaders, respBody)
	default:
		log.WithField("status", status).Warn("request failed")
		return nil, newStatusError(KindRequestFailed, status, "request failed")
	}
}

// payAndRetry interprets the 402 challenge, obtains a signed payment
// credential, and retries exactly once with it attached.
func (c *Client) payAndRetry(ctx context.Context, log logrus.FieldLogger, method, url string, body []byte, extraHeaders map[string]string, challengeBody []byte) ([]byte, error) {
	challenge, err := types.ParsePaymentRequired(challengeBody)
	if err != nil {
		return nil, wrapError(KindMalformedChallenge, "unparseable 402 challenge", err)
	}

	selected, err := SelectRequirement(challenge.Accepts, c.preferred)
	if err != nil {
		return nil, err
	}

	if c.provider == nil {
		price := network.HumanAmount(selected)
		log.WithField("price", price).Info("payment required and no signer configured")
		return nil, &Error{
			Kind:        KindPaymentRequiredNoSigner,
			Message:     fmt.Sprintf("payment required: %s; connect a wallet to pay", price),
			Requirement: selected,
		}
	}

	log.WithFields(logrus.Fields{
		"network": selected.Network,
		"amount":  selected.MaxAmountRequired,
	}).Debug("authorizing payment")
	header, err := c.provider.Authorize(ctx, challenge.X402Version, selected)
	if err != nil {
		return nil, &Error{
			Kind:        KindPaymentAuthorizationFailed,
			Message:     "payment authorization failed",
			Requirement: selected,
			cause:       err,
		}
	}

	headers := cloneHeaders(extraHeaders)
	headers[PaymentHeader] = header

	log.Debug("retrying with payment attached")
	status, respBody, err := c.attempt(ctx, method, url, body, headers)
	if err != nil {
		return nil, c.transportError(ctx, KindPaymentRetryFailed, "paid retry", err)
	}
	if status < 200 || status > 299 {
		// Terminal: a second signed attempt could double-charge.
		log.WithField("status", status).Warn("paid retry rejected")
		return nil, &Error{
			Kind:        KindPaymentRetryFailed,
			Status:      status,
			Message:     "payment request failed",
			Requirement: selected,
		}
	}
	return respBody, nil
}

// attempt performs a single HTTP exchange and drains the body.
func (c *Client) attempt(ctx context.Context, method, url string, body []byte, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// transportError maps a failed exchange into the taxonomy, keeping
// caller-imposed deadline cancellation distinct from server-reported
// failure.
func (c *Client) transportError(ctx context.Context, kind Kind, what string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return wrapError(KindRequestTimedOut, what+" timed out", err)
	}
	return wrapError(kind, what+" transport error", err)
}

func cloneHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for key, value := range headers {
		out[key] = value
	}
	return out
}
