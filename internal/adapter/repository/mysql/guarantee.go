package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	gfDomain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/guarantee"
)

type GuaranteeRepository struct{ db *gorm.DB }

func NewGuaranteeRepository(db *gorm.DB) *GuaranteeRepository { return &GuaranteeRepository{db: db} }

func (r *GuaranteeRepository) CreateTier(ctx context.Context, t *gfDomain.Tier) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *GuaranteeRepository) SaveTier(ctx context.Context, t *gfDomain.Tier) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *GuaranteeRepository) GetTier(ctx context.Context, id uint64) (*gfDomain.Tier, error) {
	var out gfDomain.Tier
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *GuaranteeRepository) GetTierForUpdate(ctx context.Context, id uint64) (*gfDomain.Tier, error) {
	var out gfDomain.Tier
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *GuaranteeRepository) ListTiers(ctx context.Context) ([]gfDomain.Tier, error) {
	var out []gfDomain.Tier
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

// ListTiersForUpdate locks every tier row; loss coverage spans the whole
// fund and must not race deposits or withdrawals.
func (r *GuaranteeRepository) ListTiersForUpdate(ctx context.Context) ([]gfDomain.Tier, error) {
	var out []gfDomain.Tier
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *GuaranteeRepository) CreatePosition(ctx context.Context, p *gfDomain.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GuaranteeRepository) SavePosition(ctx context.Context, p *gfDomain.Position) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *GuaranteeRepository) GetPosition(ctx context.Context, tierID uint64, investor string) (*gfDomain.Position, error) {
	var out gfDomain.Position
	res := r.db.WithContext(ctx).
		Where("tier_id = ? AND investor = ?", tierID, investor).
		First(&out)
	return &out, res.Error
}

func (r *GuaranteeRepository) ListPositionsByTier(ctx context.Context, tierID uint64) ([]gfDomain.Position, error) {
	var out []gfDomain.Position
	res := r.db.WithContext(ctx).
		Where("tier_id = ?", tierID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *GuaranteeRepository) ListPositionsByTierForUpdate(ctx context.Context, tierID uint64) ([]gfDomain.Position, error) {
	var out []gfDomain.Position
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tier_id = ?", tierID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
