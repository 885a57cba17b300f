package x402

import (
	"errors"
	"fmt"

	"github.com/rozo-ai/bananary-go/pkg/types"
)

// Kind discriminates the failure modes of a paid request. Every error
// the client returns carries exactly one kind, so callers can branch
// without string matching.
type Kind string

const (
	// KindNoRequirementsOffered: the 402 challenge listed no payment options.
	KindNoRequirementsOffered Kind = "NoRequirementsOffered"

	// KindMalformedChallenge: the 402 body did not decode as a challenge.
	KindMalformedChallenge Kind = "MalformedChallenge"

	// KindPaymentRequiredNoSigner: payment is required but no authorization
	// provider was configured. Recoverable: re-invoke after supplying one.
	KindPaymentRequiredNoSigner Kind = "PaymentRequiredNoSigner"

	// KindPaymentAuthorizationFailed: signing the payment failed; no paid
	// request was sent.
	KindPaymentAuthorizationFailed Kind = "PaymentAuthorizationFailed"

	// KindPaymentRetryFailed: the paid retry came back non-2xx. Terminal;
	// retrying again would risk a duplicate charge.
	KindPaymentRetryFailed Kind = "PaymentRetryFailed"

	// KindBypassRequestFailed: the bypass-token request came back non-2xx.
	// There is no fallback to the payment protocol.
	KindBypassRequestFailed Kind = "BypassRequestFailed"

	// KindRequestFailed: the probe came back neither 2xx nor 402.
	KindRequestFailed Kind = "RequestFailed"

	// KindRequestTimedOut: a caller-imposed deadline cancelled the attempt.
	KindRequestTimedOut Kind = "RequestTimedOut"
)

// Error is the typed failure returned by the client. Network and
// signing errors are always wrapped into one of these, never rethrown
// raw.
type Error struct {
	Kind        Kind
	Status      int // HTTP status when the server answered, 0 otherwise
	Message     string
	Requirement *types.PaymentRequirements // selected or summarized requirement, when known
	cause       error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a client error of the given kind.
func IsKind(err error, kind Kind) bool {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind == kind
	}
	return false
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func newStatusError(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}
