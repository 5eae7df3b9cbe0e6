package uow

import (
	"context"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/guarantee"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/insurance"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
)

type Repos struct {
	Pools     pool.Repository
	Positions pool.PositionRepository
	Tranches  tranche.Repository
	Insurance insurance.Repository
	Guarantee guarantee.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the pool row first, then pass it in
	WithinPoolTx(ctx context.Context, poolID string, fn func(r Repos, p *pool.Pool) error) error
}
