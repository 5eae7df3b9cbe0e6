package tranche

import (
	"time"

	"gorm.io/gorm"
)

type Type string

const (
	TypeSenior    Type = "senior"
	TypeMezzanine Type = "mezzanine"
	TypeJunior    Type = "junior"
)

// Tranche is one risk-ordered slice of pooled capital. Seniority 0 is the
// most senior; losses are absorbed starting from the highest seniority
// index (Junior first).
type Tranche struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	TrancheID string `gorm:"size:32;uniqueIndex" json:"tranche_id"`
	Type      Type   `gorm:"type:enum('senior','mezzanine','junior');not null" json:"type"`
	Seniority int    `gorm:"not null;uniqueIndex:ux_tranches_seniority" json:"seniority"`

	// Sum of TargetAllocationBp across active tranches must stay ≤ 10000.
	TargetAllocationBp int64 `gorm:"not null" json:"target_allocation_bp"`
	CurrentAllocation  int64 `gorm:"not null;default:0" json:"current_allocation"`

	MinRiskScore int `gorm:"not null" json:"min_risk_score"`
	MaxRiskScore int `gorm:"not null" json:"max_risk_score"`

	YieldMultiplierBp int64 `gorm:"not null" json:"yield_multiplier_bp"`
	LossAbsorptionBp  int64 `gorm:"not null" json:"loss_absorption_bp"`

	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tranche) TableName() string { return "tranches" }

// Eligible reports whether a pool's risk score falls in this tranche's band.
func (t *Tranche) Eligible(riskScore int) bool {
	return t.IsActive && riskScore >= t.MinRiskScore && riskScore <= t.MaxRiskScore
}
