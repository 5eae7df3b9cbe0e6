package guaranteemock

import (
	"context"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/guarantee"
)

// Repo is a function-backed mock that satisfies guarantee.Repository.
// ForUpdate variants fall back to their unlocked Fn when unset, so
// in-memory harnesses need to wire the store only once.
type Repo struct {
	CreateTierFn         func(ctx context.Context, t *domain.Tier) error
	GetTierFn            func(ctx context.Context, id uint64) (*domain.Tier, error)
	GetTierForUpdateFn   func(ctx context.Context, id uint64) (*domain.Tier, error)
	ListTiersFn          func(ctx context.Context) ([]domain.Tier, error)
	ListTiersForUpdateFn func(ctx context.Context) ([]domain.Tier, error)
	SaveTierFn           func(ctx context.Context, t *domain.Tier) error

	CreatePositionFn               func(ctx context.Context, p *domain.Position) error
	GetPositionFn                  func(ctx context.Context, tierID uint64, investor string) (*domain.Position, error)
	ListPositionsByTierFn          func(ctx context.Context, tierID uint64) ([]domain.Position, error)
	ListPositionsByTierForUpdateFn func(ctx context.Context, tierID uint64) ([]domain.Position, error)
	SavePositionFn                 func(ctx context.Context, p *domain.Position) error
}

func (m *Repo) CreateTier(ctx context.Context, t *domain.Tier) error {
	if m.CreateTierFn != nil {
		return m.CreateTierFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetTier(ctx context.Context, id uint64) (*domain.Tier, error) {
	if m.GetTierFn != nil {
		return m.GetTierFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetTierForUpdate(ctx context.Context, id uint64) (*domain.Tier, error) {
	if m.GetTierForUpdateFn != nil {
		return m.GetTierForUpdateFn(ctx, id)
	}
	return m.GetTier(ctx, id)
}

func (m *Repo) ListTiers(ctx context.Context) ([]domain.Tier, error) {
	if m.ListTiersFn != nil {
		return m.ListTiersFn(ctx)
	}
	return nil, nil
}

func (m *Repo) ListTiersForUpdate(ctx context.Context) ([]domain.Tier, error) {
	if m.ListTiersForUpdateFn != nil {
		return m.ListTiersForUpdateFn(ctx)
	}
	return m.ListTiers(ctx)
}

func (m *Repo) SaveTier(ctx context.Context, t *domain.Tier) error {
	if m.SaveTierFn != nil {
		return m.SaveTierFn(ctx, t)
	}
	return nil
}

func (m *Repo) CreatePosition(ctx context.Context, p *domain.Position) error {
	if m.CreatePositionFn != nil {
		return m.CreatePositionFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetPosition(ctx context.Context, tierID uint64, investor string) (*domain.Position, error) {
	if m.GetPositionFn != nil {
		return m.GetPositionFn(ctx, tierID, investor)
	}
	return nil, context.Canceled
}

func (m *Repo) ListPositionsByTier(ctx context.Context, tierID uint64) ([]domain.Position, error) {
	if m.ListPositionsByTierFn != nil {
		return m.ListPositionsByTierFn(ctx, tierID)
	}
	return nil, nil
}

func (m *Repo) ListPositionsByTierForUpdate(ctx context.Context, tierID uint64) ([]domain.Position, error) {
	if m.ListPositionsByTierForUpdateFn != nil {
		return m.ListPositionsByTierForUpdateFn(ctx, tierID)
	}
	return m.ListPositionsByTier(ctx, tierID)
}

func (m *Repo) SavePosition(ctx context.Context, p *domain.Position) error {
	if m.SavePositionFn != nil {
		return m.SavePositionFn(ctx, p)
	}
	return nil
}
