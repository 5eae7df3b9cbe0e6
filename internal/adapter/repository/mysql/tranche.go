package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	trancheDomain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
)

type TrancheRepository struct{ db *gorm.DB }

func NewTrancheRepository(db *gorm.DB) *TrancheRepository { return &TrancheRepository{db: db} }

func (r *TrancheRepository) Create(ctx context.Context, t *trancheDomain.Tranche) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TrancheRepository) Save(ctx context.Context, t *trancheDomain.Tranche) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// ListActive returns tranches Senior first; the waterfall reverses the
// order itself.
func (r *TrancheRepository) ListActive(ctx context.Context) ([]trancheDomain.Tranche, error) {
	var out []trancheDomain.Tranche
	res := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("seniority ASC").
		Find(&out)
	return out, res.Error
}

// ListActiveForUpdate locks the tranche rows for the transaction. Tranches
// are shared across pools, so allocation updates from parallel pool
// transactions must serialize on these locks.
func (r *TrancheRepository) ListActiveForUpdate(ctx context.Context) ([]trancheDomain.Tranche, error) {
	var out []trancheDomain.Tranche
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = ?", true).
		Order("seniority ASC").
		Find(&out)
	return out, res.Error
}
