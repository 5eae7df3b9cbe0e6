// Package risk holds the pure rate and scoring engines. Everything here is
// deterministic integer basis-point arithmetic with truncation toward zero;
// no state beyond the configuration tables below.
package risk

import (
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
)

var ErrInvalidInput = fault.Validation("amount and duration must be positive")

const (
	// Rate bounds and starting point, basis points.
	startRateBp   int64 = 500
	MinBaseRateBp int64 = 300
	MaxBaseRateBp int64 = 1500

	ecologicalBonusBp int64 = 50
)

// MarketSignal is the aggregate demand signal fed by the oracle layer.
type MarketSignal int

const (
	MarketNeutral MarketSignal = iota
	MarketHot                  // strong demand, rates compress 10%
	MarketCold                 // weak demand, rates widen 15%
)

func (s MarketSignal) multiplierBp() int64 {
	switch s {
	case MarketHot:
		return 9_000
	case MarketCold:
		return 11_500
	default:
		return bpmath.Scale
	}
}

type BorrowerProfile struct {
	CreditScore int64
}

type Input struct {
	Profile      BorrowerProfile
	Amount       int64
	DurationDays int64
	Ecological   bool
	Domain       string
	Region       string
	Market       MarketSignal
}

// domainRiskBp is additive to the project-risk factor, basis points.
var domainRiskBp = map[string]int64{
	"agriculture":    1_500,
	"energy":         1_000,
	"manufacturing":  800,
	"technology":     500,
	"infrastructure": 300,
}

func domainRisk(domain string) int64 {
	if v, ok := domainRiskBp[domain]; ok {
		return v
	}
	return 1_000 // unknown domains priced conservatively
}

// amountRiskBp brackets larger loans as riskier, basis points.
func amountRiskBp(amount int64) int64 {
	switch {
	case amount >= 10_000_000_00:
		return 2_000
	case amount >= 1_000_000_00:
		return 1_000
	case amount >= 100_000_00:
		return 500
	default:
		return 0
	}
}

func durationRiskBp(days int64) int64 {
	switch {
	case days > 720:
		return 1_500
	case days > 360:
		return 1_000
	case days > 180:
		return 500
	default:
		return 0
	}
}

// CalculateBaseRate returns the base interest rate in basis points for the
// given borrower and terms. Deterministic, no side effects.
func CalculateBaseRate(in Input) (int64, error) {
	if in.Amount <= 0 || in.DurationDays <= 0 {
		return 0, ErrInvalidInput
	}

	// Project risk factor ≥ 1.0, expressed in bp of 10000.
	projectRisk := bpmath.Scale + amountRiskBp(in.Amount) + durationRiskBp(in.DurationDays) + domainRisk(in.Domain)
	if in.Ecological {
		projectRisk = bpmath.ApplyBp(projectRisk, 9_000)
	}

	rate := bpmath.ApplyBp(startRateBp, projectRisk)

	// Borrower credit bands.
	switch {
	case in.Profile.CreditScore > 700:
		rate = bpmath.ApplyBp(rate, 8_000)
	case in.Profile.CreditScore < 400:
		rate = bpmath.ApplyBp(rate, 13_000)
	}

	if in.Ecological {
		rate -= ecologicalBonusBp
		if rate < MinBaseRateBp {
			rate = MinBaseRateBp
		}
	}

	rate = bpmath.ApplyBp(rate, in.Market.multiplierBp())

	return bpmath.Clamp(rate, MinBaseRateBp, MaxBaseRateBp), nil
}

// Risk-score weights in basis points of the factor adjustments.
const (
	weightRegionBp   int64 = 3_000
	weightDomainBp   int64 = 2_500
	weightAmountBp   int64 = 2_000
	weightDurationBp int64 = 1_500
	weightEcoBp      int64 = 1_000
	weightCreditBp   int64 = 1_000
)

// Factor adjustments in centipoints (1 score point = 100).
var regionAdjCp = map[string]int64{
	"stable":   -100,
	"emerging": 100,
	"frontier": 200,
}

var domainAdjCp = map[string]int64{
	"agriculture":    150,
	"energy":         100,
	"manufacturing":  50,
	"technology":     50,
	"infrastructure": -50,
}

func amountAdjCp(amount int64) int64 {
	switch {
	case amount >= 10_000_000_00:
		return 200
	case amount >= 1_000_000_00:
		return 100
	default:
		return 0
	}
}

func durationAdjCp(days int64) int64 {
	switch {
	case days > 720:
		return 200
	case days > 360:
		return 100
	case days > 180:
		return 50
	default:
		return 0
	}
}

func creditAdjCp(score int64) int64 {
	switch {
	case score > 700:
		return -200
	case score < 400:
		return 300
	default:
		return 0
	}
}

// CalculateRiskScore blends weighted factor adjustments onto a starting
// score of 5 and clamps to [1,10]. Arithmetic is centipoint × bp with
// truncation toward zero so the result is reproducible bit-for-bit.
func CalculateRiskScore(in Input) (int, error) {
	if in.Amount <= 0 || in.DurationDays <= 0 {
		return 0, ErrInvalidInput
	}

	scoreCp := int64(500)
	scoreCp += bpmath.ApplyBp(regionAdjCp[in.Region], weightRegionBp)
	scoreCp += bpmath.ApplyBp(domainAdjCp[in.Domain], weightDomainBp)
	scoreCp += bpmath.ApplyBp(amountAdjCp(in.Amount), weightAmountBp)
	scoreCp += bpmath.ApplyBp(durationAdjCp(in.DurationDays), weightDurationBp)
	if in.Ecological {
		scoreCp += bpmath.ApplyBp(-100, weightEcoBp)
	}
	scoreCp += bpmath.ApplyBp(creditAdjCp(in.Profile.CreditScore), weightCreditBp)

	score := scoreCp / 100
	return int(bpmath.Clamp(score, 1, 10)), nil
}
