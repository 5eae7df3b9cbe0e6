package insurancemock

import (
	"context"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/insurance"
)

// Repo is a function-backed mock that satisfies insurance.Repository.
type Repo struct {
	CreateInsurerFn       func(ctx context.Context, i *domain.Insurer) error
	GetInsurerByIDFn      func(ctx context.Context, insurerID string) (*domain.Insurer, error)
	GetInsurerForUpdateFn func(ctx context.Context, id uint64) (*domain.Insurer, error)
	SaveInsurerFn         func(ctx context.Context, i *domain.Insurer) error

	CreatePolicyFn    func(ctx context.Context, p *domain.Policy) error
	GetPolicyByPoolFn func(ctx context.Context, poolID uint64) (*domain.Policy, error)
	SavePolicyFn      func(ctx context.Context, p *domain.Policy) error
}

func (m *Repo) CreateInsurer(ctx context.Context, i *domain.Insurer) error {
	if m.CreateInsurerFn != nil {
		return m.CreateInsurerFn(ctx, i)
	}
	return nil
}

func (m *Repo) GetInsurerByID(ctx context.Context, insurerID string) (*domain.Insurer, error) {
	if m.GetInsurerByIDFn != nil {
		return m.GetInsurerByIDFn(ctx, insurerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetInsurerForUpdate(ctx context.Context, id uint64) (*domain.Insurer, error) {
	if m.GetInsurerForUpdateFn != nil {
		return m.GetInsurerForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveInsurer(ctx context.Context, i *domain.Insurer) error {
	if m.SaveInsurerFn != nil {
		return m.SaveInsurerFn(ctx, i)
	}
	return nil
}

func (m *Repo) CreatePolicy(ctx context.Context, p *domain.Policy) error {
	if m.CreatePolicyFn != nil {
		return m.CreatePolicyFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetPolicyByPool(ctx context.Context, poolID uint64) (*domain.Policy, error) {
	if m.GetPolicyByPoolFn != nil {
		return m.GetPolicyByPoolFn(ctx, poolID)
	}
	return nil, context.Canceled
}

func (m *Repo) SavePolicy(ctx context.Context, p *domain.Policy) error {
	if m.SavePolicyFn != nil {
		return m.SavePolicyFn(ctx, p)
	}
	return nil
}
