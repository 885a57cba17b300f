package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// X402Version is the protocol version this client speaks.
const X402Version = 1

// Scheme represents the payment scheme
type Scheme string

const (
	SchemeExact Scheme = "exact"
)

// Network represents supported blockchain networks
type Network string

const (
	NetworkBaseSepolia   Network = "base-sepolia"
	NetworkBase          Network = "base"
	NetworkAvalancheFuji Network = "avalanche-fuji"
	NetworkAvalanche     Network = "avalanche"
	NetworkPolygonAmoy   Network = "polygon-amoy"
	NetworkPolygon       Network = "polygon"
	NetworkSei           Network = "sei"
	NetworkSeiTestnet    Network = "sei-testnet"
	NetworkXDC           Network = "xdc"
	NetworkSolana        Network = "solana"
	NetworkSolanaDevnet  Network = "solana-devnet"
)

// IsEVM returns true if the network is EVM-compatible
func (n Network) IsEVM() bool {
	switch n {
	case NetworkBaseSepolia, NetworkBase, NetworkAvalancheFuji, NetworkAvalanche,
		NetworkPolygonAmoy, NetworkPolygon, NetworkSei, NetworkSeiTestnet, NetworkXDC:
		return true
	default:
		return false
	}
}

// IsSolana returns true if the network is Solana-based
func (n Network) IsSolana() bool {
	return n == NetworkSolana || n == NetworkSolanaDevnet
}

// Known reports whether this client understands the network at all.
func (n Network) Known() bool {
	return n.IsEVM() || n.IsSolana()
}

// PaymentRequirements is one way a server will accept payment for a
// resource. Server-supplied inside a 402 challenge; lives only for the
// duration of one challenge/retry cycle.
type PaymentRequirements struct {
	Scheme            Scheme          `json:"scheme"`
	Network           Network         `json:"network"`
	MaxAmountRequired string          `json:"maxAmountRequired"`
	Resource          string          `json:"resource,omitempty"`
	Description       string          `json:"description,omitempty"`
	MimeType          string          `json:"mimeType,omitempty"`
	PayTo             string          `json:"payTo"`
	MaxTimeoutSeconds int             `json:"maxTimeoutSeconds,omitempty"`
	Asset             string          `json:"asset"`
	OutputSchema      json.RawMessage `json:"outputSchema,omitempty"`
	Extra             json.RawMessage `json:"extra,omitempty"`
}

// AssetAddress parses the asset field as an EVM token contract address.
func (r *PaymentRequirements) AssetAddress() (common.Address, error) {
	if !common.IsHexAddress(r.Asset) {
		return common.Address{}, fmt.Errorf("asset %q is not a valid EVM address", r.Asset)
	}
	return common.HexToAddress(r.Asset), nil
}

// ValidPayTo reports whether the payTo address is well formed for the
// requirement's chain family.
func (r *PaymentRequirements) ValidPayTo() bool {
	switch {
	case r.Network.IsEVM():
		return common.IsHexAddress(r.PayTo)
	case r.Network.IsSolana():
		_, err := solana.PublicKeyFromBase58(r.PayTo)
		return err == nil
	default:
		return false
	}
}

// PaymentRequired is the body of an HTTP 402 response: the server's
// challenge listing every payment option it accepts.
type PaymentRequired struct {
	X402Version int                   `json:"x402Version"`
	Error       string                `json:"error,omitempty"`
	Accepts     []PaymentRequirements `json:"accepts"`
}

// ParsePaymentRequired decodes and validates a 402 challenge body.
// A body that does not decode, or that carries no protocol version,
// is a malformed challenge rather than a usable one.
func ParsePaymentRequired(body []byte) (*PaymentRequired, error) {
	var challenge PaymentRequired
	if err := json.Unmarshal(body, &challenge); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	if challenge.X402Version == 0 {
		return nil, fmt.Errorf("challenge missing x402Version")
	}
	return &challenge, nil
}

// ExactEvmPayloadAuthorization represents EIP-712 transfer authorization data
type ExactEvmPayloadAuthorization struct {
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	Value       string         `json:"value"`
	ValidAfter  string         `json:"validAfter"`
	ValidBefore string         `json:"validBefore"`
	Nonce       string         `json:"nonce"` // hex-encoded
}

// ExactEvmPayload contains the EVM payment payload
type ExactEvmPayload struct {
	Signature     string                       `json:"signature"` // hex-encoded
	Authorization ExactEvmPayloadAuthorization `json:"authorization"`
}

// PaymentPayload is the signed payment attached to the retried request,
// serialized and base64-encoded into the payment header. Single-use.
type PaymentPayload struct {
	X402Version int             `json:"x402Version"`
	Scheme      Scheme          `json:"scheme"`
	Network     Network         `json:"network"`
	Payload     ExactEvmPayload `json:"payload"`
}
