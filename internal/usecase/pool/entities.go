package pool

import (
	"time"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
)

type PoolDTO struct {
	PoolID     string `json:"pool_id"`
	Borrower   string `json:"borrower"`
	Name       string `json:"name"`
	Region     string `json:"region"`
	Domain     string `json:"domain"`
	Ecological bool   `json:"ecological"`

	TargetAmount    int64 `json:"target_amount"`
	CollectedAmount int64 `json:"collected_amount"`
	BaseRateBp      int64 `json:"base_rate_bp"`
	DynamicRateBp   int64 `json:"dynamic_rate_bp"`
	RepaymentAmount int64 `json:"repayment_amount"`
	AmountRepaid    int64 `json:"amount_repaid"`
	TokenPrice      int64 `json:"token_price"`
	TotalTokens     int64 `json:"total_tokens"`
	SoldTokens      int64 `json:"sold_tokens"`
	UncoveredLoss   int64 `json:"uncovered_loss,omitempty"`

	FundingDeadline time.Time  `json:"funding_deadline"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DurationDays    int64      `json:"duration_days"`

	RiskScore         int    `json:"risk_score"`
	InsuranceCoverage int64  `json:"insurance_coverage,omitempty"`
	InsurancePolicyID string `json:"insurance_policy_id,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func poolDTO(p *domain.Pool) *PoolDTO {
	return &PoolDTO{
		PoolID:            p.PoolID,
		Borrower:          p.Borrower,
		Name:              p.Name,
		Region:            p.Region,
		Domain:            p.Domain,
		Ecological:        p.Ecological,
		TargetAmount:      p.TargetAmount,
		CollectedAmount:   p.CollectedAmount,
		BaseRateBp:        p.BaseRateBp,
		DynamicRateBp:     p.DynamicRateBp,
		RepaymentAmount:   p.RepaymentAmount,
		AmountRepaid:      p.AmountRepaid,
		TokenPrice:        p.TokenPrice,
		TotalTokens:       p.TotalTokens,
		SoldTokens:        p.SoldTokens,
		UncoveredLoss:     p.UncoveredLoss,
		FundingDeadline:   p.FundingDeadline,
		StartDate:         p.StartDate,
		DurationDays:      p.DurationDays,
		RiskScore:         p.RiskScore,
		InsuranceCoverage: p.InsuranceCoverage,
		InsurancePolicyID: p.InsurancePolicyID,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
	}
}

type PositionDTO struct {
	Investor         string    `json:"investor"`
	TokenAmount      int64     `json:"token_amount"`
	InvestmentAmount int64     `json:"investment_amount"`
	ClaimedReturns   int64     `json:"claimed_returns"`
	InvestmentTime   time.Time `json:"investment_time"`
}
