package guarantee

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/guarantee"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/uow"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
)

type Config struct {
	// ReserveRatioBp caps how much of the fund a single loss event may
	// consume.
	ReserveRatioBp int64
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

// WithClock overrides the time source, for tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type DepositInput struct {
	Investor string
	TierID   uint64
	Amount   int64
}

type PositionDTO struct {
	Investor        string    `json:"investor"`
	TierName        string    `json:"tier_name"`
	DepositedAmount int64     `json:"deposited_amount"`
	Shares          int64     `json:"shares"`
	LockedUntil     time.Time `json:"locked_until"`
}

// Deposit places capital into a tier. Shares carry the tier's risk bonus:
// shares = amount × (1000 + riskLevel) / 1000, truncated.
func (u *Usecase) Deposit(ctx context.Context, in DepositInput) (*PositionDTO, error) {
	if in.Amount <= 0 || in.Investor == "" {
		return nil, domain.ErrDepositOutOfRange
	}

	var dto *PositionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// The tier row lock serializes deposits against withdrawals and
		// loss coverage, including the position reads below.
		tier, err := r.Guarantee.GetTierForUpdate(ctx, in.TierID)
		if err != nil {
			return domain.ErrTierNotFound
		}
		if in.Amount < tier.MinDeposit || (tier.MaxDeposit > 0 && in.Amount > tier.MaxDeposit) {
			return domain.ErrDepositOutOfRange
		}

		shares := bpmath.MulDiv(in.Amount, 1_000+tier.RiskLevel, 1_000)
		lockedUntil := u.now().Add(time.Duration(tier.LockupDays) * 24 * time.Hour)

		pos, err := r.Guarantee.GetPosition(ctx, tier.ID, in.Investor)
		switch {
		case err == nil:
			pos.DepositedAmount += in.Amount
			pos.Shares += shares
			pos.LockedUntil = lockedUntil
			if err := r.Guarantee.SavePosition(ctx, pos); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			pos = &domain.Position{
				TierID:          tier.ID,
				Investor:        in.Investor,
				DepositedAmount: in.Amount,
				Shares:          shares,
				LockedUntil:     lockedUntil,
			}
			if err := r.Guarantee.CreatePosition(ctx, pos); err != nil {
				return err
			}
		default:
			return err
		}

		tier.TotalDeposited += in.Amount
		if err := r.Guarantee.SaveTier(ctx, tier); err != nil {
			return err
		}

		dto = &PositionDTO{
			Investor:        pos.Investor,
			TierName:        tier.Name,
			DepositedAmount: pos.DepositedAmount,
			Shares:          pos.Shares,
			LockedUntil:     pos.LockedUntil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("investor", in.Investor).Uint64("tier", in.TierID).
		Int64("amount", in.Amount).Msg("guarantee deposit")
	return dto, nil
}

// Withdraw returns the full remaining deposit once the lock has expired.
// The position row stays behind, zeroed.
func (u *Usecase) Withdraw(ctx context.Context, investor string, tierID uint64) (int64, error) {
	var refunded int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		tier, err := r.Guarantee.GetTierForUpdate(ctx, tierID)
		if err != nil {
			return domain.ErrTierNotFound
		}
		pos, err := r.Guarantee.GetPosition(ctx, tier.ID, investor)
		if err != nil {
			return domain.ErrNothingToWithdraw
		}
		if pos.DepositedAmount == 0 {
			return domain.ErrNothingToWithdraw
		}
		if u.now().Before(pos.LockedUntil) {
			return domain.ErrPositionLocked
		}

		refunded = pos.DepositedAmount
		pos.DepositedAmount = 0
		pos.Shares = 0
		if err := r.Guarantee.SavePosition(ctx, pos); err != nil {
			return err
		}

		tier.TotalDeposited -= refunded
		return r.Guarantee.SaveTier(ctx, tier)
	})
	if err != nil {
		return 0, err
	}
	return refunded, nil
}

// CoverLoss deducts up to lossAmount×reserveRatio from the fund, spread
// across tiers by allocation percentage and across investors pro-rata to
// their current deposit share. Runs inside the caller's transaction. The
// returned amount is the sum of actual deductions, so fund balances stay
// conserved under truncation.
func (u *Usecase) CoverLoss(ctx context.Context, r uow.Repos, lossAmount int64) (int64, error) {
	if lossAmount <= 0 {
		return 0, nil
	}

	tiers, err := r.Guarantee.ListTiersForUpdate(ctx)
	if err != nil {
		return 0, err
	}

	var totalAssets, sumAllocBp int64
	for i := range tiers {
		totalAssets += tiers[i].TotalDeposited
		sumAllocBp += tiers[i].AllocationPercentageBp
	}
	if totalAssets == 0 || sumAllocBp == 0 {
		return 0, nil
	}

	target := bpmath.ApplyBp(lossAmount, u.cfg.ReserveRatioBp)
	coverable := bpmath.ApplyBp(totalAssets, u.cfg.ReserveRatioBp)
	target = bpmath.Min(target, coverable)

	var covered int64
	for i := range tiers {
		tier := &tiers[i]
		tierShare := bpmath.MulDiv(target, tier.AllocationPercentageBp, sumAllocBp)
		tierShare = bpmath.Min(tierShare, tier.TotalDeposited)
		if tierShare == 0 {
			continue
		}

		positions, err := r.Guarantee.ListPositionsByTierForUpdate(ctx, tier.ID)
		if err != nil {
			return 0, err
		}

		var tierDeducted int64
		for j := range positions {
			pos := &positions[j]
			if pos.DepositedAmount == 0 {
				continue
			}
			deduct := bpmath.MulDiv(tierShare, pos.DepositedAmount, tier.TotalDeposited)
			deduct = bpmath.Min(deduct, pos.DepositedAmount)
			if deduct == 0 {
				continue
			}
			shareCut := bpmath.MulDiv(pos.Shares, deduct, pos.DepositedAmount)
			pos.DepositedAmount -= deduct
			pos.Shares -= shareCut
			if err := r.Guarantee.SavePosition(ctx, pos); err != nil {
				return 0, err
			}
			tierDeducted += deduct
		}

		tier.TotalDeposited -= tierDeducted
		if err := r.Guarantee.SaveTier(ctx, tier); err != nil {
			return 0, err
		}
		covered += tierDeducted
	}

	u.log.Warn().Int64("loss", lossAmount).Int64("covered", covered).
		Msg("guarantee fund loss coverage")
	return covered, nil
}
