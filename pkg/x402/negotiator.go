package x402

import (
	"github.com/rozo-ai/bananary-go/pkg/types"
)

// SelectRequirement picks one payment requirement from a 402 challenge.
//
// The choice is a pure function of the accepts list and the preference
// order, so repeated calls over the same challenge always agree:
//
//  1. With a preference order configured, the first requirement whose
//     network matches the earliest preference wins.
//  2. Otherwise the first requirement on a known network with a well
//     formed payTo address wins.
//  3. If nothing validates, the first requirement is returned anyway:
//     the server knows what it accepts better than we do, and the
//     authorization provider gets the final say.
//
// An empty accepts list fails with KindNoRequirementsOffered.
func SelectRequirement(accepts []types.PaymentRequirements, preferred []types.Network) (*types.PaymentRequirements, error) {
	if len(accepts) == 0 {
		return nil, newError(KindNoRequirementsOffered, "server offered no payment requirements")
	}

	for _, want := range preferred {
		for i := range accepts {
			if accepts[i].Network == want {
				return &accepts[i], nil
			}
		}
	}

	for i := range accepts {
		if accepts[i].Network.Known() && accepts[i].ValidPayTo() {
			return &accepts[i], nil
		}
	}

	return &accepts[0], nil
}
