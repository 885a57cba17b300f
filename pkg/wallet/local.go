// Package wallet provides payment authorization backed by a local EVM
// private key. It implements the signing capability the request client
// consumes; the client itself never touches key material.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/rozo-ai/bananary-go/pkg/network"
	"github.com/rozo-ai/bananary-go/pkg/types"
)

// authorizationValidity is the window during which a signed transfer
// authorization may be settled.
const authorizationValidity = time.Hour

// LocalSigner signs x402 payment authorizations with an in-process
// ECDSA key using EIP-712 TransferWithAuthorization typed data.
type LocalSigner struct {
	signer     *ecdsa.PrivateKey
	signerAddr common.Address
}

// NewLocalSigner creates a signer from a hex-encoded private key.
func NewLocalSigner(privateKeyHex string) (*LocalSigner, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("error casting public key to ECDSA")
	}

	return &LocalSigner{
		signer:     privateKey,
		signerAddr: crypto.PubkeyToAddress(*publicKey),
	}, nil
}

// Address returns the signer's account address.
func (s *LocalSigner) Address() common.Address {
	return s.signerAddr
}

// Authorize produces the payment header value for a selected
// requirement: a base64-encoded JSON payment payload carrying the
// signed transfer authorization.
func (s *LocalSigner) Authorize(ctx context.Context, version int, req *types.PaymentRequirements) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !req.Network.IsEVM() {
		return "", fmt.Errorf("unsupported network: %s", req.Network)
	}
	if req.Scheme != "" && req.Scheme != types.SchemeExact {
		return "", fmt.Errorf("unsupported scheme: %s", req.Scheme)
	}

	asset, err := req.AssetAddress()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := time.Now()
	auth := types.ExactEvmPayloadAuthorization{
		From:        s.signerAddr,
		To:          common.HexToAddress(req.PayTo),
		Value:       req.MaxAmountRequired,
		ValidAfter:  fmt.Sprintf("%d", now.Unix()),
		ValidBefore: fmt.Sprintf("%d", now.Add(authorizationValidity).Unix()),
		Nonce:       "0x" + hex.EncodeToString(nonce),
	}

	signature, err := s.signEIP712(&auth, asset, req.Network)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	payload := types.PaymentPayload{
		X402Version: version,
		Scheme:      types.SchemeExact,
		Network:     req.Network,
		Payload: types.ExactEvmPayload{
			Signature:     "0x" + hex.EncodeToString(signature),
			Authorization: auth,
		},
	}

	encoded, err := json.Marshal(&payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// signEIP712 signs the authorization with EIP-712
func (s *LocalSigner) signEIP712(auth *types.ExactEvmPayloadAuthorization, tokenAddress common.Address, net types.Network) ([]byte, error) {
	info, err := network.GetInfo(net)
	if err != nil {
		return nil, err
	}
	chainID := new(big.Int).SetUint64(uint64(info.ChainID))

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"TransferWithAuthorization": []apitypes.Type{
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "validAfter", Type: "uint256"},
				{Name: "validBefore", Type: "uint256"},
				{Name: "nonce", Type: "bytes32"},
			},
		},
		PrimaryType: "TransferWithAuthorization",
		Domain: apitypes.TypedDataDomain{
			Name:              "USD Coin",
			Version:           "2",
			ChainId:           (*math.HexOrDecimal256)(chainID),
			VerifyingContract: tokenAddress.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"from":        auth.From.Hex(),
			"to":          auth.To.Hex(),
			"value":       auth.Value,
			"validAfter":  auth.ValidAfter,
			"validBefore": auth.ValidBefore,
			"nonce":       auth.Nonce,
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash message: %w", err)
	}

	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	hash := crypto.Keccak256Hash(rawData)

	signature, err := crypto.Sign(hash.Bytes(), s.signer)
	if err != nil {
		return nil, err
	}

	// Adjust V value
	if signature[64] < 27 {
		signature[64] += 27
	}

	return signature, nil
}
