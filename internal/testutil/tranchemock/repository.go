package tranchemock

import (
	"context"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
)

// Repo is a function-backed mock that satisfies tranche.Repository.
// ListActiveForUpdate falls back to ListActiveFn when its own Fn is unset,
// so in-memory harnesses need to wire the store only once.
type Repo struct {
	CreateFn              func(ctx context.Context, t *domain.Tranche) error
	ListActiveFn          func(ctx context.Context) ([]domain.Tranche, error)
	ListActiveForUpdateFn func(ctx context.Context) ([]domain.Tranche, error)
	SaveFn                func(ctx context.Context, t *domain.Tranche) error
}

func (m *Repo) Create(ctx context.Context, t *domain.Tranche) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListActive(ctx context.Context) ([]domain.Tranche, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}

func (m *Repo) ListActiveForUpdate(ctx context.Context) ([]domain.Tranche, error) {
	if m.ListActiveForUpdateFn != nil {
		return m.ListActiveForUpdateFn(ctx)
	}
	return m.ListActive(ctx)
}

func (m *Repo) Save(ctx context.Context, t *domain.Tranche) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
