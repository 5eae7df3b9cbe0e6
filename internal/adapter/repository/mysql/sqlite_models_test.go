package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite-safe shadows of the production models: same table and column names,
// but without the mysql enum column types AutoMigrate would choke on.

type poolSQLite struct {
	ID     uint64 `gorm:"primaryKey;column:id"`
	PoolID string `gorm:"size:32;uniqueIndex"`

	Borrower   string `gorm:"size:32;index"`
	Name       string `gorm:"size:128"`
	Region     string `gorm:"size:64"`
	Domain     string `gorm:"size:64"`
	Ecological bool

	TargetAmount    int64
	CollectedAmount int64
	BaseRateBp      int64
	DynamicRateBp   int64
	RepaymentAmount int64
	AmountRepaid    int64
	TokenPrice      int64
	TotalTokens     int64
	SoldTokens      int64

	FundingDeadline time.Time
	StartDate       *time.Time
	DurationDays    int64
	LastRateUpdate  time.Time

	UncoveredLoss int64

	RiskScore         int
	InsuranceCoverage int64
	InsurancePolicyID string `gorm:"size:32"`

	Status          string `gorm:"size:16;default:'creation'"`
	StatusUpdatedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (poolSQLite) TableName() string { return "pools" }

type positionSQLite struct {
	ID       uint64 `gorm:"primaryKey;column:id"`
	PoolID   uint64 `gorm:"index;uniqueIndex:ux_positions_pool_investor"`
	Investor string `gorm:"size:32;uniqueIndex:ux_positions_pool_investor"`

	TokenAmount      int64
	InvestmentAmount int64
	ClaimedReturns   int64

	InvestmentTime time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (positionSQLite) TableName() string { return "investor_positions" }

type trancheSQLite struct {
	ID        uint64 `gorm:"primaryKey;column:id"`
	TrancheID string `gorm:"size:32;uniqueIndex"`
	Type      string `gorm:"size:16"`
	Seniority int    `gorm:"uniqueIndex"`

	TargetAllocationBp int64
	CurrentAllocation  int64

	MinRiskScore int
	MaxRiskScore int

	YieldMultiplierBp int64
	LossAbsorptionBp  int64

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (trancheSQLite) TableName() string { return "tranches" }

type insurerSQLite struct {
	ID        uint64 `gorm:"primaryKey;column:id"`
	InsurerID string `gorm:"size:32;uniqueIndex"`

	TotalCapital     int64
	AllocatedCapital int64
	AvailableCapital int64

	TotalPremiums    int64
	TotalClaims      int64
	PerformanceScore int64
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (insurerSQLite) TableName() string { return "insurers" }

type policySQLite struct {
	ID       uint64 `gorm:"primaryKey;column:id"`
	PolicyID string `gorm:"size:32;uniqueIndex"`

	PoolID    uint64 `gorm:"uniqueIndex"`
	InsurerID uint64 `gorm:"index"`

	Coverage int64
	Premium  int64

	StartAt  time.Time
	ExpireAt time.Time
	Status   string `gorm:"size:16;default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (policySQLite) TableName() string { return "insurance_policies" }

type tierSQLite struct {
	ID   uint64 `gorm:"primaryKey;column:id"`
	Name string `gorm:"size:64;uniqueIndex"`

	MinDeposit int64
	MaxDeposit int64

	TargetAPYBp            int64
	RiskLevel              int64
	AllocationPercentageBp int64

	TotalDeposited int64

	LockupDays int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (tierSQLite) TableName() string { return "guarantee_tiers" }

type fundPositionSQLite struct {
	ID       uint64 `gorm:"primaryKey;column:id"`
	TierID   uint64 `gorm:"index;uniqueIndex:ux_fund_positions_tier_investor"`
	Investor string `gorm:"size:32;uniqueIndex:ux_fund_positions_tier_investor"`

	DepositedAmount int64
	Shares          int64
	LockedUntil     time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (fundPositionSQLite) TableName() string { return "guarantee_positions" }

// openTestDB migrates the full shadow schema on an in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&poolSQLite{}, &positionSQLite{}, &trancheSQLite{},
		&insurerSQLite{}, &policySQLite{},
		&tierSQLite{}, &fundPositionSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
