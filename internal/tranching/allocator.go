// Package tranching implements the tranche allocation and loss-absorption
// arithmetic. Both algorithms are single-pass and deterministic; outputs
// always reconcile exactly against the input amount.
package tranching

import (
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
)

// overConcentrationBp: a tranche already above 110% of its target share
// gets its new allocation cut by 20%.
const (
	overConcentrationBp int64 = 11_000
	dampingCutBp        int64 = 2_000
)

// Allocation is the amount assigned to tranches[Index].
type Allocation struct {
	Index  int
	Amount int64
}

// Allocate splits amount across the eligible tranches by target allocation,
// applies the anti-over-concentration damping in a single redistribution
// pass, and reconciles rounding so the returned amounts sum to amount
// exactly. The rounding remainder goes to the first eligible tranche by
// index order.
func Allocate(amount int64, riskScore int, tranches []tranche.Tranche) ([]Allocation, error) {
	if amount < 0 {
		return nil, tranche.ErrNoEligibleTranche
	}

	eligible := make([]int, 0, len(tranches))
	for i := range tranches {
		if tranches[i].Eligible(riskScore) {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return nil, tranche.ErrNoEligibleTranche
	}

	// Base shares by target allocation.
	shares := make([]int64, len(eligible))
	for k, i := range eligible {
		shares[k] = bpmath.ApplyBp(amount, tranches[i].TargetAllocationBp)
	}

	// Damping: tranches already past 110% of their absolute target give up
	// 20% of their share into a redistribution pot.
	var totalCurrent int64
	for i := range tranches {
		totalCurrent += tranches[i].CurrentAllocation
	}
	var pot, sumShares int64
	for k, i := range eligible {
		targetAbs := bpmath.ApplyBp(totalCurrent+amount, tranches[i].TargetAllocationBp)
		if tranches[i].CurrentAllocation > bpmath.ApplyBp(targetAbs, overConcentrationBp) {
			cut := bpmath.ApplyBp(shares[k], dampingCutBp)
			shares[k] -= cut
			pot += cut
		}
	}
	for _, s := range shares {
		sumShares += s
	}

	// Single redistribution pass, proportional to post-cut nonzero shares.
	// Not iterated to a fixed point: damped tranches can receive back part
	// of the pot, and truncation can leave a residual.
	if pot > 0 && sumShares > 0 {
		for k := range shares {
			if shares[k] > 0 {
				shares[k] += bpmath.MulDiv(pot, shares[k], sumShares)
			}
		}
	}

	// Reconcile: any remainder (rounding, unallocated target, undistributed
	// pot) lands on the first eligible tranche.
	var total int64
	for _, s := range shares {
		total += s
	}
	shares[0] += amount - total

	out := make([]Allocation, len(eligible))
	for k, i := range eligible {
		out[k] = Allocation{Index: i, Amount: shares[k]}
	}
	return out, nil
}
