package poolmock

import (
	"context"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
)

// Repo is a function-backed mock that satisfies pool.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                   func(ctx context.Context, p *domain.Pool) error
	GetByPoolIDFn              func(ctx context.Context, poolID string) (*domain.Pool, error)
	GetByPoolIDForUpdateFn     func(ctx context.Context, poolID string) (*domain.Pool, error)
	GetPendingPoolByBorrowerFn func(ctx context.Context, borrower string) (*domain.Pool, error)
	SaveFn                     func(ctx context.Context, p *domain.Pool) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Pool) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPoolID(ctx context.Context, poolID string) (*domain.Pool, error) {
	if m.GetByPoolIDFn != nil {
		return m.GetByPoolIDFn(ctx, poolID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPoolIDForUpdate(ctx context.Context, poolID string) (*domain.Pool, error) {
	if m.GetByPoolIDForUpdateFn != nil {
		return m.GetByPoolIDForUpdateFn(ctx, poolID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingPoolByBorrower(ctx context.Context, borrower string) (*domain.Pool, error) {
	if m.GetPendingPoolByBorrowerFn != nil {
		return m.GetPendingPoolByBorrowerFn(ctx, borrower)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, p *domain.Pool) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

// PositionRepo mocks pool.PositionRepository.
type PositionRepo struct {
	CreateFn     func(ctx context.Context, ip *domain.InvestorPosition) error
	GetFn        func(ctx context.Context, poolID uint64, investor string) (*domain.InvestorPosition, error)
	ListByPoolFn func(ctx context.Context, poolID uint64) ([]domain.InvestorPosition, error)
	SaveFn       func(ctx context.Context, ip *domain.InvestorPosition) error
}

func (m *PositionRepo) Create(ctx context.Context, ip *domain.InvestorPosition) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ip)
	}
	return nil
}

func (m *PositionRepo) Get(ctx context.Context, poolID uint64, investor string) (*domain.InvestorPosition, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, poolID, investor)
	}
	return nil, context.Canceled
}

func (m *PositionRepo) ListByPool(ctx context.Context, poolID uint64) ([]domain.InvestorPosition, error) {
	if m.ListByPoolFn != nil {
		return m.ListByPoolFn(ctx, poolID)
	}
	return nil, nil
}

func (m *PositionRepo) Save(ctx context.Context, ip *domain.InvestorPosition) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, ip)
	}
	return nil
}
