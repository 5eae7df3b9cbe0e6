package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Pools:     &PoolRepository{db: tx},
		Positions: &PositionRepository{db: tx},
		Tranches:  &TrancheRepository{db: tx},
		Insurance: &InsuranceRepository{db: tx},
		Guarantee: &GuaranteeRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinPoolTx(ctx context.Context, poolID string, fn func(r uow.Repos, p *pool.Pool) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the pool row up-front to prevent races
		p, err := r.Pools.GetByPoolIDForUpdate(ctx, poolID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
