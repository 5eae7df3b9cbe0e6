package tranching

import (
	"testing"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
)

func juniorFirst() []*tranche.Tranche {
	return []*tranche.Tranche{
		{Type: tranche.TypeJunior, Seniority: 2, CurrentAllocation: 50, LossAbsorptionBp: 6_000},
		{Type: tranche.TypeMezzanine, Seniority: 1, CurrentAllocation: 200, LossAbsorptionBp: 3_000},
		{Type: tranche.TypeSenior, Seniority: 0, CurrentAllocation: 500, LossAbsorptionBp: 1_000},
	}
}

func TestAbsorb_OrderedCascade(t *testing.T) {
	ts := juniorFirst()

	absorbed, residual := Absorb(100, ts)

	want := []int64{30, 60, 10}
	for i := range want {
		if absorbed[i] != want[i] {
			t.Errorf("absorbed[%d]=%d want %d", i, absorbed[i], want[i])
		}
	}
	if residual != 0 {
		t.Errorf("residual=%d want 0", residual)
	}
	// Allocations decremented in place.
	if ts[0].CurrentAllocation != 20 || ts[1].CurrentAllocation != 140 || ts[2].CurrentAllocation != 490 {
		t.Errorf("allocations not decremented: %d %d %d",
			ts[0].CurrentAllocation, ts[1].CurrentAllocation, ts[2].CurrentAllocation)
	}
}

func TestAbsorb_ZeroLoss(t *testing.T) {
	ts := juniorFirst()
	absorbed, residual := Absorb(0, ts)
	for i, a := range absorbed {
		if a != 0 {
			t.Errorf("absorbed[%d]=%d want 0", i, a)
		}
	}
	if residual != 0 {
		t.Errorf("residual=%d want 0", residual)
	}
}

func TestAbsorb_LossExceedsCapacity(t *testing.T) {
	ts := juniorFirst()
	// Total capacity = 30+60+50 = 140.
	absorbed, residual := Absorb(1_000, ts)
	var sum int64
	for _, a := range absorbed {
		sum += a
	}
	if sum != 140 {
		t.Errorf("sum(absorbed)=%d want 140", sum)
	}
	if residual != 860 {
		t.Errorf("residual=%d want 860", residual)
	}
}

func TestAbsorb_Completeness(t *testing.T) {
	// sum(absorbed) + residual == totalLoss for a spread of magnitudes.
	for _, loss := range []int64{0, 1, 29, 30, 31, 90, 139, 140, 141, 10_000} {
		ts := juniorFirst()
		absorbed, residual := Absorb(loss, ts)
		var sum int64
		for _, a := range absorbed {
			sum += a
		}
		if sum+residual != loss {
			t.Errorf("loss=%d: sum(absorbed)+residual=%d, not conserved", loss, sum+residual)
		}
		for i, tr := range ts {
			if tr.CurrentAllocation < 0 {
				t.Errorf("loss=%d: tranche %d allocation went negative", loss, i)
			}
		}
	}
}

func TestAbsorb_StopsEarly(t *testing.T) {
	ts := juniorFirst()
	absorbed, _ := Absorb(10, ts)
	if absorbed[0] != 10 || absorbed[1] != 0 || absorbed[2] != 0 {
		t.Errorf("junior alone should absorb a small loss: %v", absorbed)
	}
}
