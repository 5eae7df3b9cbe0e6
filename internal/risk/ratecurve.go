package risk

import (
	"time"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
)

// RateCurve computes a pool's current dynamic rate. It is pure: the engine
// owns the rate-limit bookkeeping and the oracle round-trip; the curve only
// does the arithmetic and the clamping.
type RateCurve struct {
	// UpdateInterval throttles recomputation; calls inside the window are
	// a documented no-op, not an error.
	UpdateInterval time.Duration
}

func NewRateCurve(interval time.Duration) RateCurve {
	if interval <= 0 {
		interval = time.Hour
	}
	return RateCurve{UpdateInterval: interval}
}

// Due reports whether enough time has passed since the last recomputation.
func (rc RateCurve) Due(lastUpdate, now time.Time) bool {
	return now.Sub(lastUpdate) >= rc.UpdateInterval
}

type RateInput struct {
	BaseRateBp  int64
	SoldTokens  int64
	TotalTokens int64
	BonusBp     int64 // active promotional bonus, 0 when none

	WindowStart time.Time // pool creation
	Deadline    time.Time // funding deadline
	Now         time.Time
}

// Compute applies the fill-ratio, time-decay and promotional steps to the
// base rate. The result still needs the external market adjustment and a
// final ClampBounds before it is stored.
func (rc RateCurve) Compute(in RateInput) int64 {
	rate := in.BaseRateBp

	if in.TotalTokens > 0 {
		fillBp := bpmath.Ratio(in.SoldTokens, in.TotalTokens)
		switch {
		case fillBp > 8_000:
			rate = bpmath.ApplyBp(rate, 8_000)
		case fillBp < 3_000:
			rate = bpmath.ApplyBp(rate, 13_000)
		}
	}

	// Past the halfway point of the funding window the rate widens 10%.
	window := in.Deadline.Sub(in.WindowStart)
	if window > 0 && in.Now.Sub(in.WindowStart) > window/2 {
		rate = bpmath.ApplyBp(rate, 11_000)
	}

	rate += in.BonusBp

	return rate
}

// ClampBounds keeps any computed rate inside [base×0.5, base×2.0].
func (rc RateCurve) ClampBounds(baseRateBp, rateBp int64) int64 {
	lo := bpmath.ApplyBp(baseRateBp, 5_000)
	hi := bpmath.ApplyBp(baseRateBp, 20_000)
	return bpmath.Clamp(rateBp, lo, hi)
}
