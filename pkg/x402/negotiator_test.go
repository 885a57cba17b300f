package x402

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rozo-ai/bananary-go/pkg/types"
)

const (
	evmPayTo    = "0x209693Bc6afc0C5328bA36FaF03C514EF312287C"
	solanaPayTo = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
)

func evmRequirement(network types.Network, amount string) types.PaymentRequirements {
	return types.PaymentRequirements{
		Scheme:            types.SchemeExact,
		Network:           network,
		MaxAmountRequired: amount,
		PayTo:             evmPayTo,
		Asset:             "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	}
}

func TestSelectRequirementEmpty(t *testing.T) {
	_, err := SelectRequirement(nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNoRequirementsOffered))

	_, err = SelectRequirement([]types.PaymentRequirements{}, nil)
	assert.True(t, IsKind(err, KindNoRequirementsOffered))
}

func TestSelectRequirementFirstInList(t *testing.T) {
	accepts := []types.PaymentRequirements{
		evmRequirement(types.NetworkBase, "500000"),
		evmRequirement(types.NetworkPolygon, "400000"),
	}

	selected, err := SelectRequirement(accepts, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NetworkBase, selected.Network)
}

func TestSelectRequirementDeterministic(t *testing.T) {
	accepts := []types.PaymentRequirements{
		evmRequirement(types.NetworkAvalanche, "100"),
		evmRequirement(types.NetworkBase, "200"),
		evmRequirement(types.NetworkPolygon, "300"),
	}

	first, err := SelectRequirement(accepts, nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := SelectRequirement(accepts, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSelectRequirementPreferenceOrder(t *testing.T) {
	accepts := []types.PaymentRequirements{
		evmRequirement(types.NetworkBase, "500000"),
		evmRequirement(types.NetworkPolygon, "400000"),
	}

	selected, err := SelectRequirement(accepts, []types.Network{types.NetworkPolygon})
	require.NoError(t, err)
	assert.Equal(t, types.NetworkPolygon, selected.Network)

	// Earlier preferences win even when listed later by the server.
	selected, err = SelectRequirement(accepts, []types.Network{types.NetworkSolana, types.NetworkPolygon, types.NetworkBase})
	require.NoError(t, err)
	assert.Equal(t, types.NetworkPolygon, selected.Network)
}

func TestSelectRequirementSkipsInvalidPayTo(t *testing.T) {
	broken := evmRequirement(types.NetworkBase, "500000")
	broken.PayTo = "not-an-address"
	accepts := []types.PaymentRequirements{
		broken,
		evmRequirement(types.NetworkPolygon, "400000"),
	}

	selected, err := SelectRequirement(accepts, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NetworkPolygon, selected.Network)
}

func TestSelectRequirementSolanaPayTo(t *testing.T) {
	accepts := []types.PaymentRequirements{
		{
			Scheme:            types.SchemeExact,
			Network:           types.NetworkSolana,
			MaxAmountRequired: "500000",
			PayTo:             solanaPayTo,
			Asset:             "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		},
	}

	selected, err := SelectRequirement(accepts, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NetworkSolana, selected.Network)
}

func TestSelectRequirementFallsBackToFirst(t *testing.T) {
	// Nothing validates; the server's first offer is still returned.
	broken := evmRequirement(types.NetworkBase, "500000")
	broken.PayTo = "garbage"
	accepts := []types.PaymentRequirements{broken}

	selected, err := SelectRequirement(accepts, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NetworkBase, selected.Network)
}
