package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	insDomain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/insurance"
)

type InsuranceRepository struct{ db *gorm.DB }

func NewInsuranceRepository(db *gorm.DB) *InsuranceRepository { return &InsuranceRepository{db: db} }

func (r *InsuranceRepository) CreateInsurer(ctx context.Context, i *insDomain.Insurer) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InsuranceRepository) SaveInsurer(ctx context.Context, i *insDomain.Insurer) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *InsuranceRepository) GetInsurerByID(ctx context.Context, insurerID string) (*insDomain.Insurer, error) {
	var out insDomain.Insurer
	res := r.db.WithContext(ctx).Where("insurer_id = ?", insurerID).First(&out)
	return &out, res.Error
}

func (r *InsuranceRepository) GetInsurerForUpdate(ctx context.Context, id uint64) (*insDomain.Insurer, error) {
	var out insDomain.Insurer
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *InsuranceRepository) CreatePolicy(ctx context.Context, p *insDomain.Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *InsuranceRepository) SavePolicy(ctx context.Context, p *insDomain.Policy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *InsuranceRepository) GetPolicyByPool(ctx context.Context, poolID uint64) (*insDomain.Policy, error) {
	var out insDomain.Policy
	res := r.db.WithContext(ctx).Where("pool_id = ?", poolID).First(&out)
	return &out, res.Error
}
