package insurance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/insurance"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/uow"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/id"
)

type Config struct {
	// PremiumRateBp of coverage, charged up front at underwriting.
	PremiumRateBp int64
	// PolicyGrace extends a policy past loan maturity so defaults declared
	// inside the grace period are still claimable.
	PolicyGrace time.Duration
}

type Usecase struct {
	uow uow.UnitOfWork
	cfg Config
	log zerolog.Logger
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, cfg Config, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, cfg: cfg, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type InsurerDTO struct {
	InsurerID        string `json:"insurer_id"`
	TotalCapital     int64  `json:"total_capital"`
	AllocatedCapital int64  `json:"allocated_capital"`
	AvailableCapital int64  `json:"available_capital"`
	TotalPremiums    int64  `json:"total_premiums"`
	TotalClaims      int64  `json:"total_claims"`
	PerformanceScore int64  `json:"performance_score"`
	IsActive         bool   `json:"is_active"`
}

func insurerDTO(i *domain.Insurer) *InsurerDTO {
	return &InsurerDTO{
		InsurerID:        i.InsurerID,
		TotalCapital:     i.TotalCapital,
		AllocatedCapital: i.AllocatedCapital,
		AvailableCapital: i.AvailableCapital,
		TotalPremiums:    i.TotalPremiums,
		TotalClaims:      i.TotalClaims,
		PerformanceScore: i.PerformanceScore,
		IsActive:         i.IsActive,
	}
}

// Register creates an insurer account at the baseline performance score.
func (u *Usecase) Register(ctx context.Context) (*InsurerDTO, error) {
	ins := &domain.Insurer{
		InsurerID:        id.NewID32(),
		PerformanceScore: domain.BaselineScore,
		IsActive:         true,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Insurance.CreateInsurer(ctx, ins)
	})
	if err != nil {
		return nil, err
	}
	return insurerDTO(ins), nil
}

// DepositCapital adds free capital to an insurer account.
func (u *Usecase) DepositCapital(ctx context.Context, insurerID string, amount int64) (*InsurerDTO, error) {
	if amount <= 0 {
		return nil, fault.Validation("deposit must be positive")
	}
	var dto *InsurerDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ins, err := r.Insurance.GetInsurerByID(ctx, insurerID)
		if err != nil {
			return domain.ErrInsurerNotFound
		}
		ins.TotalCapital += amount
		ins.AvailableCapital += amount
		if err := r.Insurance.SaveInsurer(ctx, ins); err != nil {
			return err
		}
		dto = insurerDTO(ins)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

type PolicyDTO struct {
	PolicyID string    `json:"policy_id"`
	PoolID   string    `json:"pool_id"`
	Coverage int64     `json:"coverage"`
	Premium  int64     `json:"premium"`
	ExpireAt time.Time `json:"expire_at"`
}

// Underwrite binds coverage for a pool, moving the coverage amount from the
// insurer's available to allocated capital and booking the premium.
func (u *Usecase) Underwrite(ctx context.Context, insurerID, poolID string, coverage int64) (*PolicyDTO, error) {
	if coverage <= 0 {
		return nil, fault.Validation("coverage must be positive")
	}
	var dto *PolicyDTO
	err := u.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *pool.Pool) error {
		if p.Status != pool.StatusCreation && p.Status != pool.StatusActive {
			return pool.ErrInvalidTransition
		}
		if p.InsurancePolicyID != "" {
			return fault.State("pool already insured")
		}

		ins, err := r.Insurance.GetInsurerByID(ctx, insurerID)
		if err != nil {
			return domain.ErrInsurerNotFound
		}
		if !ins.IsActive {
			return domain.ErrInsurerInactive
		}
		if ins.AvailableCapital < coverage {
			return domain.ErrInsufficientInsurerCapital
		}

		premium := bpmath.ApplyBp(coverage, u.cfg.PremiumRateBp)
		now := u.now()
		pol := &domain.Policy{
			PolicyID:  id.NewID32(),
			PoolID:    p.ID,
			InsurerID: ins.ID,
			Coverage:  coverage,
			Premium:   premium,
			StartAt:   now,
			ExpireAt:  now.Add(time.Duration(p.DurationDays)*24*time.Hour + u.cfg.PolicyGrace),
			Status:    domain.PolicyActive,
		}
		if err := r.Insurance.CreatePolicy(ctx, pol); err != nil {
			return err
		}

		ins.AvailableCapital -= coverage
		ins.AllocatedCapital += coverage
		ins.TotalPremiums += premium
		if err := r.Insurance.SaveInsurer(ctx, ins); err != nil {
			return err
		}

		p.InsuranceCoverage = coverage
		p.InsurancePolicyID = pol.PolicyID
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}

		dto = &PolicyDTO{
			PolicyID: pol.PolicyID,
			PoolID:   p.PoolID,
			Coverage: coverage,
			Premium:  premium,
			ExpireAt: pol.ExpireAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("pool", poolID).Str("insurer", insurerID).
		Int64("coverage", coverage).Msg("pool underwritten")
	return dto, nil
}

// Loss-ratio thresholds for performance rescoring, basis points.
const (
	lowLossRatioBp  int64 = 3_000
	highLossRatioBp int64 = 8_000
)

// FileClaim pays out a claim against the pool's policy inside the caller's
// transaction. An ErrInsufficientInsurerCapital return means "insurance did
// not cover"; the engine falls through to the waterfall and guarantee fund.
func (u *Usecase) FileClaim(ctx context.Context, r uow.Repos, poolNumericID uint64, claimAmount int64) (int64, error) {
	pol, err := r.Insurance.GetPolicyByPool(ctx, poolNumericID)
	if err != nil {
		return 0, domain.ErrPolicyNotFound
	}
	if pol.Status != domain.PolicyActive {
		return 0, domain.ErrPolicyNotActive
	}
	now := u.now()
	if now.After(pol.ExpireAt) {
		return 0, domain.ErrPolicyExpired
	}

	ins, err := r.Insurance.GetInsurerForUpdate(ctx, pol.InsurerID)
	if err != nil {
		return 0, domain.ErrInsurerNotFound
	}
	claim := bpmath.Min(claimAmount, pol.Coverage)
	if ins.AvailableCapital < claim {
		return 0, domain.ErrInsufficientInsurerCapital
	}

	// Pay the claim, then release the remaining allocation back to
	// available. AllocatedCapital + AvailableCapital == TotalCapital holds
	// throughout.
	ins.AvailableCapital -= claim
	ins.TotalCapital -= claim
	ins.AllocatedCapital -= pol.Coverage
	ins.AvailableCapital += pol.Coverage
	ins.TotalClaims += claim

	if ins.TotalPremiums > 0 {
		lossRatioBp := bpmath.Ratio(ins.TotalClaims, ins.TotalPremiums)
		switch {
		case lossRatioBp < lowLossRatioBp:
			ins.PerformanceScore = bpmath.ApplyBp(ins.PerformanceScore, 10_500)
		case lossRatioBp > highLossRatioBp:
			ins.PerformanceScore = bpmath.ApplyBp(ins.PerformanceScore, 9_500)
		}
	}
	if ins.PerformanceScore < domain.DeactivationThreshold {
		ins.IsActive = false
	}
	if err := r.Insurance.SaveInsurer(ctx, ins); err != nil {
		return 0, err
	}

	pol.Status = domain.PolicyClaimed
	if err := r.Insurance.SavePolicy(ctx, pol); err != nil {
		return 0, err
	}

	u.log.Warn().Uint64("pool", poolNumericID).Int64("claim", claim).
		Int64("score", ins.PerformanceScore).Msg("insurance claim paid")
	return claim, nil
}
