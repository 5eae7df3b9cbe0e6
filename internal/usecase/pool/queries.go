package pool

import (
	"context"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/uow"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
)

// Pure read surface. None of these mutate state.

func (e *Engine) GetPoolDetails(ctx context.Context, poolID string) (*PoolDTO, error) {
	var dto *PoolDTO
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Pools.GetByPoolID(ctx, poolID)
		if err != nil {
			return domain.ErrNotFound
		}
		dto = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// GetDynamicRate returns the stored dynamic rate; recomputation only
// happens on investment, under the throttle.
func (e *Engine) GetDynamicRate(ctx context.Context, poolID string) (int64, error) {
	dto, err := e.GetPoolDetails(ctx, poolID)
	if err != nil {
		return 0, err
	}
	return dto.DynamicRateBp, nil
}

func (e *Engine) GetPoolInvestors(ctx context.Context, poolID string) ([]PositionDTO, error) {
	var out []PositionDTO
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Pools.GetByPoolID(ctx, poolID)
		if err != nil {
			return domain.ErrNotFound
		}
		positions, err := r.Positions.ListByPool(ctx, p.ID)
		if err != nil {
			return err
		}
		out = make([]PositionDTO, 0, len(positions))
		for _, pos := range positions {
			out = append(out, PositionDTO{
				Investor:         pos.Investor,
				TokenAmount:      pos.TokenAmount,
				InvestmentAmount: pos.InvestmentAmount,
				ClaimedReturns:   pos.ClaimedReturns,
				InvestmentTime:   pos.InvestmentTime,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CalculatePotentialReturns projects principal plus interest at the current
// dynamic rate for a hypothetical investment.
func (e *Engine) CalculatePotentialReturns(ctx context.Context, poolID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrAmountOutOfRange
	}
	dto, err := e.GetPoolDetails(ctx, poolID)
	if err != nil {
		return 0, err
	}
	return amount + bpmath.ApplyBp(amount, dto.DynamicRateBp), nil
}
