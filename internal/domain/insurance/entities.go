package insurance

import (
	"time"

	"gorm.io/gorm"
)

// Performance scoring baseline: a fresh insurer starts at 1000 and is
// deactivated when the score drops below DeactivationThreshold.
const (
	BaselineScore         int64 = 1000
	DeactivationThreshold int64 = 500
)

type Insurer struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	InsurerID string `gorm:"size:32;uniqueIndex" json:"insurer_id"`

	// AllocatedCapital + AvailableCapital == TotalCapital at all times.
	TotalCapital     int64 `gorm:"not null;default:0" json:"total_capital"`
	AllocatedCapital int64 `gorm:"not null;default:0" json:"allocated_capital"`
	AvailableCapital int64 `gorm:"not null;default:0" json:"available_capital"`

	TotalPremiums    int64 `gorm:"not null;default:0" json:"total_premiums"`
	TotalClaims      int64 `gorm:"not null;default:0" json:"total_claims"`
	PerformanceScore int64 `gorm:"not null;default:1000" json:"performance_score"`
	IsActive         bool  `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Insurer) TableName() string { return "insurers" }

type PolicyStatus string

const (
	PolicyActive  PolicyStatus = "active"
	PolicyClaimed PolicyStatus = "claimed"
	PolicyExpired PolicyStatus = "expired"
)

// Policy underwrites one pool. PoolID is uniquely indexed so the engine
// resolves "policy for pool" with a lookup instead of a scan.
type Policy struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	PolicyID string `gorm:"size:32;uniqueIndex" json:"policy_id"`

	PoolID    uint64 `gorm:"not null;uniqueIndex:ux_policies_pool" json:"-"`
	InsurerID uint64 `gorm:"not null;index" json:"-"`

	Coverage int64 `gorm:"not null" json:"coverage"`
	Premium  int64 `gorm:"not null" json:"premium"`

	StartAt  time.Time    `gorm:"not null" json:"start_at"`
	ExpireAt time.Time    `gorm:"not null" json:"expire_at"`
	Status   PolicyStatus `gorm:"type:enum('active','claimed','expired');default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Policy) TableName() string { return "insurance_policies" }
