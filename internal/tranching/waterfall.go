package tranching

import (
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
)

// Absorb runs the loss waterfall over tranches ordered Junior→Senior,
// decrementing each tranche's CurrentAllocation in place by what it takes.
// sum(absorbed) + residual == totalLoss holds exactly.
func Absorb(totalLoss int64, tranches []*tranche.Tranche) (absorbed []int64, residual int64) {
	absorbed = make([]int64, len(tranches))
	remaining := totalLoss

	for i, t := range tranches {
		if remaining == 0 {
			break
		}
		capacity := bpmath.ApplyBp(t.CurrentAllocation, t.LossAbsorptionBp)
		take := bpmath.Min(remaining, capacity)
		if take <= 0 {
			continue
		}
		t.CurrentAllocation -= take
		absorbed[i] = take
		remaining -= take
	}

	return absorbed, remaining
}
