package pool

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusCreation   Status = "creation"
	StatusActive     Status = "active"
	StatusFunded     Status = "funded"
	StatusOngoing    Status = "ongoing"
	StatusCompleted  Status = "completed"
	StatusDefaulted  Status = "defaulted"
	StatusLiquidated Status = "liquidated"
	StatusCancelled  Status = "cancelled"
)

// All monetary fields are int64 minor units; all rates are basis points.
// Divisions across the engine truncate toward zero.
type Pool struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	PoolID string `gorm:"size:32;uniqueIndex:ux_pools_pool_id_active" json:"pool_id"`

	Borrower   string `gorm:"size:32;index:idx_pools_borrower_active" json:"borrower"`
	Name       string `gorm:"size:128" json:"name"`
	Region     string `gorm:"size:64" json:"region"`
	Domain     string `gorm:"size:64" json:"domain"`
	Ecological bool   `json:"ecological"`

	TargetAmount    int64 `gorm:"not null" json:"target_amount"`
	CollectedAmount int64 `gorm:"not null;default:0" json:"collected_amount"`
	BaseRateBp      int64 `gorm:"not null" json:"base_rate_bp"`
	DynamicRateBp   int64 `gorm:"not null" json:"dynamic_rate_bp"`
	// RepaymentAmount = target + target×baseRate, fixed at creation.
	RepaymentAmount int64 `gorm:"not null" json:"repayment_amount"`
	AmountRepaid    int64 `gorm:"not null;default:0" json:"amount_repaid"`
	TokenPrice      int64 `gorm:"not null" json:"token_price"`
	TotalTokens     int64 `gorm:"not null" json:"total_tokens"`
	SoldTokens      int64 `gorm:"not null;default:0" json:"sold_tokens"`

	FundingDeadline time.Time  `gorm:"not null" json:"funding_deadline"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DurationDays    int64      `gorm:"not null" json:"duration_days"`
	LastRateUpdate  time.Time  `json:"last_rate_update"`

	// UncoveredLoss records any default loss the insurance, waterfall and
	// guarantee fund together could not absorb.
	UncoveredLoss int64 `gorm:"not null;default:0" json:"uncovered_loss"`

	RiskScore         int    `gorm:"not null" json:"risk_score"`
	InsuranceCoverage int64  `gorm:"not null;default:0" json:"insurance_coverage"`
	InsurancePolicyID string `gorm:"size:32" json:"insurance_policy_id,omitempty"`

	Status          Status         `gorm:"type:enum('creation','active','funded','ongoing','completed','defaulted','liquidated','cancelled');default:'creation'" json:"status"`
	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Pool) TableName() string { return "pools" }

// RemainingObligation is what the borrower still owes.
func (p *Pool) RemainingObligation() int64 { return p.RepaymentAmount - p.AmountRepaid }

// InvestorPosition is created on first investment and mutated afterwards;
// it is never deleted, only zeroed on full refund.
type InvestorPosition struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	PoolID   uint64 `gorm:"not null;index;uniqueIndex:ux_positions_pool_investor" json:"-"`
	Investor string `gorm:"size:32;not null;uniqueIndex:ux_positions_pool_investor" json:"investor"`

	TokenAmount      int64 `gorm:"not null;default:0" json:"token_amount"`
	InvestmentAmount int64 `gorm:"not null;default:0" json:"investment_amount"`
	ClaimedReturns   int64 `gorm:"not null;default:0" json:"claimed_returns"`

	InvestmentTime time.Time `gorm:"not null" json:"investment_time"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (InvestorPosition) TableName() string { return "investor_positions" }
