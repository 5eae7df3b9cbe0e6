package guarantee

import (
	"time"

	"gorm.io/gorm"
)

// Tier is one risk/yield bucket of the guarantee fund.
type Tier struct {
	ID   uint64 `gorm:"primaryKey;column:id" json:"-"`
	Name string `gorm:"size:64;uniqueIndex" json:"name"`

	MinDeposit int64 `gorm:"not null" json:"min_deposit"`
	MaxDeposit int64 `gorm:"not null" json:"max_deposit"`

	TargetAPYBp int64 `gorm:"not null" json:"target_apy_bp"`
	// RiskLevel feeds the share bonus: shares = deposit×(1000+riskLevel)/1000.
	RiskLevel              int64 `gorm:"not null" json:"risk_level"`
	AllocationPercentageBp int64 `gorm:"not null" json:"allocation_percentage_bp"`

	TotalDeposited int64 `gorm:"not null;default:0" json:"total_deposited"`

	LockupDays int64          `gorm:"not null;default:0" json:"lockup_days"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tier) TableName() string { return "guarantee_tiers" }

// Position is an investor's stake in one tier. Shares only decrease on
// withdrawal or loss-coverage deduction.
type Position struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	TierID   uint64 `gorm:"not null;index;uniqueIndex:ux_fund_positions_tier_investor" json:"-"`
	Investor string `gorm:"size:32;not null;uniqueIndex:ux_fund_positions_tier_investor" json:"investor"`

	DepositedAmount int64     `gorm:"not null;default:0" json:"deposited_amount"`
	Shares          int64     `gorm:"not null;default:0" json:"shares"`
	LockedUntil     time.Time `json:"locked_until"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Position) TableName() string { return "guarantee_positions" }
