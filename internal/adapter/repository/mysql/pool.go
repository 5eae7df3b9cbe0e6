package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	poolDomain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
)

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

func (r *PoolRepository) Create(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PoolRepository) Save(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PoolRepository) GetByPoolID(ctx context.Context, poolID string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).Where("pool_id = ?", poolID).First(&out)
	return &out, res.Error
}

func (r *PoolRepository) GetByPoolIDForUpdate(ctx context.Context, poolID string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pool_id = ?", poolID).
		First(&out)
	return &out, res.Error
}

func (r *PoolRepository) GetPendingPoolByBorrower(ctx context.Context, borrower string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).
		Where("borrower = ? AND status IN ?", borrower, []poolDomain.Status{poolDomain.StatusCreation, poolDomain.StatusActive}).
		Order("status_updated_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

type PositionRepository struct{ db *gorm.DB }

func NewPositionRepository(db *gorm.DB) *PositionRepository { return &PositionRepository{db: db} }

func (r *PositionRepository) Create(ctx context.Context, ip *poolDomain.InvestorPosition) error {
	return r.db.WithContext(ctx).Create(ip).Error
}

func (r *PositionRepository) Save(ctx context.Context, ip *poolDomain.InvestorPosition) error {
	return r.db.WithContext(ctx).Save(ip).Error
}

func (r *PositionRepository) Get(ctx context.Context, poolID uint64, investor string) (*poolDomain.InvestorPosition, error) {
	var out poolDomain.InvestorPosition
	res := r.db.WithContext(ctx).
		Where("pool_id = ? AND investor = ?", poolID, investor).
		First(&out)
	return &out, res.Error
}

func (r *PositionRepository) ListByPool(ctx context.Context, poolID uint64) ([]poolDomain.InvestorPosition, error) {
	var out []poolDomain.InvestorPosition
	res := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
