package network

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/rozo-ai/bananary-go/pkg/types"
)

// ChainID represents an EVM chain ID
type ChainID uint64

const (
	ChainIDBaseSepolia   ChainID = 84532
	ChainIDBase          ChainID = 8453
	ChainIDAvalancheFuji ChainID = 43113
	ChainIDAvalanche     ChainID = 43114
	ChainIDPolygonAmoy   ChainID = 80002
	ChainIDPolygon       ChainID = 137
	ChainIDSei           ChainID = 1329
	ChainIDSeiTestnet    ChainID = 1328
	ChainIDXDC           ChainID = 50
)

// Info contains metadata about a network
type Info struct {
	Network types.Network
	ChainID ChainID
	Name    string
	IsEVM   bool
}

// USDCDeployment represents a USDC token deployment on a network
type USDCDeployment struct {
	Network      types.Network
	TokenAddress common.Address
	TokenSymbol  string
	Decimals     uint8
}

var (
	// InfoMap maps network names to their information
	InfoMap = map[types.Network]Info{
		types.NetworkBaseSepolia: {
			Network: types.NetworkBaseSepolia,
			ChainID: ChainIDBaseSepolia,
			Name:    "Base Sepolia",
			IsEVM:   true,
		},
		types.NetworkBase: {
			Network: types.NetworkBase,
			ChainID: ChainIDBase,
			Name:    "Base",
			IsEVM:   true,
		},
		types.NetworkAvalancheFuji: {
			Network: types.NetworkAvalancheFuji,
			ChainID: ChainIDAvalancheFuji,
			Name:    "Avalanche Fuji",
			IsEVM:   true,
		},
		types.NetworkAvalanche: {
			Network: types.NetworkAvalanche,
			ChainID: ChainIDAvalanche,
			Name:    "Avalanche C-Chain",
			IsEVM:   true,
		},
		types.NetworkPolygonAmoy: {
			Network: types.NetworkPolygonAmoy,
			ChainID: ChainIDPolygonAmoy,
			Name:    "Polygon Amoy",
			IsEVM:   true,
		},
		types.NetworkPolygon: {
			Network: types.NetworkPolygon,
			ChainID: ChainIDPolygon,
			Name:    "Polygon",
			IsEVM:   true,
		},
		types.NetworkSei: {
			Network: types.NetworkSei,
			ChainID: ChainIDSei,
			Name:    "Sei",
			IsEVM:   true,
		},
		types.NetworkSeiTestnet: {
			Network: types.NetworkSeiTestnet,
			ChainID: ChainIDSeiTestnet,
			Name:    "Sei Testnet",
			IsEVM:   true,
		},
		types.NetworkXDC: {
			Network: types.NetworkXDC,
			ChainID: ChainIDXDC,
			Name:    "XDC",
			IsEVM:   true,
		},
		types.NetworkSolana: {
			Network: types.NetworkSolana,
			Name:    "Solana",
			IsEVM:   false,
		},
		types.NetworkSolanaDevnet: {
			Network: types.NetworkSolanaDevnet,
			Name:    "Solana Devnet",
			IsEVM:   false,
		},
	}

	// USDCDeployments maps networks to their USDC token deployments
	USDCDeployments = map[types.Network]USDCDeployment{
		types.NetworkBaseSepolia: {
			Network:      types.NetworkBaseSepolia,
			TokenAddress: common.HexToAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7e"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
		types.NetworkBase: {
			Network:      types.NetworkBase,
			TokenAddress: common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
		types.NetworkAvalancheFuji: {
			Network:      types.NetworkAvalancheFuji,
			TokenAddress: common.HexToAddress("0x5425890298aed601595a70AB815c96711a31Bc65"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
		types.NetworkAvalanche: {
			Network:      types.NetworkAvalanche,
			TokenAddress: common.HexToAddress("0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
		types.NetworkPolygonAmoy: {
			Network:      types.NetworkPolygonAmoy,
			TokenAddress: common.HexToAddress("0x41e94eb019c0762f9bfcf9fb1e58725bfb0e7582"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
		types.NetworkPolygon: {
			Network:      types.NetworkPolygon,
			TokenAddress: common.HexToAddress("0x3c499c542cef5e3811e1192ce70d8cc03d5c3359"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
		types.NetworkXDC: {
			Network:      types.NetworkXDC,
			TokenAddress: common.HexToAddress("0xD4B5f10D61916Bd6E0860144a91Ac658dE8a1437"),
			TokenSymbol:  "USDC",
			Decimals:     6,
		},
	}
)

// GetInfo returns information about a network
func GetInfo(network types.Network) (Info, error) {
	info, ok := InfoMap[network]
	if !ok {
		return Info{}, fmt.Errorf("unknown network: %s", network)
	}
	return info, nil
}

// GetUSDCDeployment returns the USDC deployment for a network
func GetUSDCDeployment(network types.Network) (USDCDeployment, error) {
	deployment, ok := USDCDeployments[network]
	if !ok {
		return USDCDeployment{}, fmt.Errorf("no USDC deployment for network: %s", network)
	}
	return deployment, nil
}

// FormatAmount converts an amount in the token's smallest unit into a
// human-readable decimal string, e.g. "500000" with 6 decimals -> "0.50".
func FormatAmount(smallestUnit string, decimals uint8) (string, error) {
	value, err := decimal.NewFromString(smallestUnit)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", smallestUnit, err)
	}
	return value.Shift(-int32(decimals)).StringFixed(2), nil
}

// HumanAmount renders a payment requirement as a user-facing price,
// e.g. "USDC 0.50 on base". Falls back to the raw smallest-unit amount
// when the token deployment for the network is unknown.
func HumanAmount(req *types.PaymentRequirements) string {
	deployment, err := GetUSDCDeployment(req.Network)
	if err != nil {
		return fmt.Sprintf("%s (smallest unit) on %s", req.MaxAmountRequired, req.Network)
	}
	amount, err := FormatAmount(req.MaxAmountRequired, deployment.Decimals)
	if err != nil {
		return fmt.Sprintf("%s (smallest unit) on %s", req.MaxAmountRequired, req.Network)
	}
	return fmt.Sprintf("%s %s on %s", deployment.TokenSymbol, amount, req.Network)
}
