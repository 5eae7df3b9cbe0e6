package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/auth"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/collab"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/uow"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/risk"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/tranching"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/bpmath"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/pkg/id"
)

type Config struct {
	MinInvestment int64
	MaxInvestment int64
	ProtocolFeeBp int64

	FundingWindow    time.Duration // deadline = creation + window
	ActivationWindow time.Duration // borrower must activate within this
	GracePeriod      time.Duration // after maturity, before default

	RateUpdateInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinInvestment:      1_00,
		MaxInvestment:      1_000_000_000_00,
		ProtocolFeeBp:      100,
		FundingWindow:      30 * 24 * time.Hour,
		ActivationWindow:   7 * 24 * time.Hour,
		GracePeriod:        30 * 24 * time.Hour,
		RateUpdateInterval: time.Hour,
	}
}

// InsuranceClaimer and GuaranteeCoverer run inside the engine's transaction
// on a default; both are business-condition fallible (capacity faults fall
// through, they never abort the default).
type InsuranceClaimer interface {
	FileClaim(ctx context.Context, r uow.Repos, poolNumericID uint64, claimAmount int64) (int64, error)
}

type GuaranteeCoverer interface {
	CoverLoss(ctx context.Context, r uow.Repos, lossAmount int64) (int64, error)
}

// Engine is the pool state machine. All state lives behind the injected
// unit of work; a keyed mutex serializes operations per pool on top of the
// row locks, so invariants are only ever observed between atomic operations.
type Engine struct {
	uow   uow.UnitOfWork
	cfg   Config
	curve risk.RateCurve

	validator collab.RiskValidation
	oracle    collab.MarketOracle
	kyc       collab.KYC // optional; nil skips the gate
	promos    collab.PromotionSource
	notifier  collab.NotificationSink
	minter    collab.IdentityTokenMinter

	insurance InsuranceClaimer
	guarantee GuaranteeCoverer

	locks sync.Map // poolID → *sync.Mutex
	log   zerolog.Logger
	now   func() time.Time
}

type Collaborators struct {
	Validator collab.RiskValidation
	Oracle    collab.MarketOracle
	KYC       collab.KYC
	Promos    collab.PromotionSource
	Notifier  collab.NotificationSink
	Minter    collab.IdentityTokenMinter
}

func NewEngine(tx uow.UnitOfWork, cfg Config, c Collaborators, ins InsuranceClaimer, gf GuaranteeCoverer, log zerolog.Logger) *Engine {
	return &Engine{
		uow:       tx,
		cfg:       cfg,
		curve:     risk.NewRateCurve(cfg.RateUpdateInterval),
		validator: c.Validator,
		oracle:    c.Oracle,
		kyc:       c.KYC,
		promos:    c.Promos,
		notifier:  c.Notifier,
		minter:    c.Minter,
		insurance: ins,
		guarantee: gf,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// lockPool serializes operations on one pool. Operations on different pools
// proceed in parallel.
func (e *Engine) lockPool(poolID string) func() {
	v, _ := e.locks.LoadOrStore(poolID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (e *Engine) emit(poolID, eventType string, amount int64) {
	ev := collab.Event{PoolID: poolID, Type: eventType, Amount: amount, At: e.now()}
	if e.notifier != nil {
		e.notifier.Notify(ev)
	}
	if e.minter != nil {
		e.minter.OnPoolEvent(ev)
	}
}

func (e *Engine) checkKYC(ctx context.Context, actor string, amount int64, action string) error {
	if e.kyc == nil {
		return nil
	}
	ok, reason, err := e.kyc.CheckEligibility(ctx, actor, amount, action)
	if err != nil {
		return fault.External("kyc check failed", err)
	}
	if !ok {
		return fault.Newf(fault.KindAuthorization, "kyc rejected: %s", reason)
	}
	return nil
}

type CreatePoolInput struct {
	Name         string
	Region       string
	Domain       string
	Ecological   bool
	TargetAmount int64
	TokenPrice   int64
	DurationDays int64
	CreditScore  int64
	Market       risk.MarketSignal
}

// CreatePool scores the borrower once, derives the repayment obligation and
// token supply, and opens the pool in CREATION.
func (e *Engine) CreatePool(ctx context.Context, cap auth.Capability, in CreatePoolInput) (*PoolDTO, error) {
	if !cap.Has(auth.RoleBorrower) {
		return nil, domain.ErrUnauthorized
	}
	if in.TargetAmount <= 0 || in.DurationDays <= 0 || in.TokenPrice <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.TargetAmount%in.TokenPrice != 0 {
		return nil, fault.Wrap(domain.ErrInvalidInput, errors.New("target must be a multiple of token price"))
	}

	scoreIn := risk.Input{
		Profile:      risk.BorrowerProfile{CreditScore: in.CreditScore},
		Amount:       in.TargetAmount,
		DurationDays: in.DurationDays,
		Ecological:   in.Ecological,
		Domain:       in.Domain,
		Region:       in.Region,
		Market:       in.Market,
	}
	baseRate, err := risk.CalculateBaseRate(scoreIn)
	if err != nil {
		return nil, err
	}
	score, err := risk.CalculateRiskScore(scoreIn)
	if err != nil {
		return nil, err
	}

	now := e.now()
	p := &domain.Pool{
		PoolID:          id.NewID32(),
		Borrower:        cap.Actor,
		Name:            in.Name,
		Region:          in.Region,
		Domain:          in.Domain,
		Ecological:      in.Ecological,
		TargetAmount:    in.TargetAmount,
		BaseRateBp:      baseRate,
		DynamicRateBp:   baseRate,
		RepaymentAmount: in.TargetAmount + bpmath.ApplyBp(in.TargetAmount, baseRate),
		TokenPrice:      in.TokenPrice,
		TotalTokens:     in.TargetAmount / in.TokenPrice,
		FundingDeadline: now.Add(e.cfg.FundingWindow),
		DurationDays:    in.DurationDays,
		LastRateUpdate:  now,
		RiskScore:       score,
		Status:          domain.StatusCreation,
		StatusUpdatedAt: now,
	}

	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		// One open raise per borrower at a time.
		pending, err := r.Pools.GetPendingPoolByBorrower(ctx, cap.Actor)
		switch {
		case err == nil:
			return fault.Newf(fault.KindState, "borrower already has an open pool: %s", pending.PoolID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return r.Pools.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("pool", p.PoolID).Int64("target", p.TargetAmount).
		Int64("base_rate_bp", baseRate).Int("risk_score", score).Msg("pool created")
	e.emit(p.PoolID, "pool.created", p.TargetAmount)
	return poolDTO(p), nil
}

// ActivatePool opens the pool for investment. Borrower-only, inside the
// activation window, and gated on the external validation collaborator.
func (e *Engine) ActivatePool(ctx context.Context, cap auth.Capability, poolID string) (*PoolDTO, error) {
	unlock := e.lockPool(poolID)
	defer unlock()

	var dto *PoolDTO
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		if p.Status != domain.StatusCreation {
			return domain.ErrInvalidTransition
		}
		if cap.Actor != p.Borrower || !cap.Has(auth.RoleBorrower) {
			return domain.ErrUnauthorized
		}
		now := e.now()
		if now.After(p.CreatedAt.Add(e.cfg.ActivationWindow)) {
			return domain.ErrActivationWindowClosed
		}

		if e.validator != nil {
			ok, err := e.validator.ValidatePool(ctx, poolID)
			if err != nil {
				return fault.External("pool validation unavailable", err)
			}
			if !ok {
				return fault.Validation("pool validation rejected")
			}
		}

		p.Status = domain.StatusActive
		p.StatusUpdatedAt = now
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(poolID, "pool.activated", 0)
	return dto, nil
}

type InvestResult struct {
	Pool             *PoolDTO `json:"pool"`
	TokensMinted     int64    `json:"tokens_minted"`
	BorrowerProceeds int64    `json:"borrower_proceeds,omitempty"`
}

// Invest takes lender capital into an ACTIVE pool: refreshes the dynamic
// rate (throttled), allocates the amount across tranches, mints tokens and
// records the position. Hitting the target finalizes funding in the same
// transaction: the pool flips ACTIVE→FUNDED→ONGOING and the borrower
// proceeds (net of protocol fee) are reported.
func (e *Engine) Invest(ctx context.Context, cap auth.Capability, poolID string, amount int64) (*InvestResult, error) {
	if !cap.Has(auth.RoleInvestor) {
		return nil, domain.ErrUnauthorized
	}
	if err := e.checkKYC(ctx, cap.Actor, amount, "invest"); err != nil {
		return nil, err
	}

	unlock := e.lockPool(poolID)
	defer unlock()

	var out InvestResult
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		now := e.now()
		if p.Status != domain.StatusActive {
			return domain.ErrPoolNotActive
		}
		if now.After(p.FundingDeadline) {
			return domain.ErrDeadlineExceeded
		}
		if amount < e.cfg.MinInvestment || amount > e.cfg.MaxInvestment {
			return domain.ErrAmountOutOfRange
		}
		if p.CollectedAmount+amount > p.TargetAmount {
			return domain.ErrAmountOutOfRange
		}
		tokens := amount / p.TokenPrice
		if tokens == 0 {
			return domain.ErrAmountOutOfRange
		}

		if err := e.refreshRate(ctx, p, now); err != nil {
			return err
		}

		// Split the investment across tranches and apply the deltas. The
		// locked read serializes allocation updates across pools; the
		// pool row lock alone does not cover these shared rows.
		tranches, err := r.Tranches.ListActiveForUpdate(ctx)
		if err != nil {
			return err
		}
		allocs, err := tranching.Allocate(amount, p.RiskScore, tranches)
		if err != nil {
			return err
		}
		for _, a := range allocs {
			tranches[a.Index].CurrentAllocation += a.Amount
			if err := r.Tranches.Save(ctx, &tranches[a.Index]); err != nil {
				return err
			}
		}

		pos, err := r.Positions.Get(ctx, p.ID, cap.Actor)
		switch {
		case err == nil:
			pos.TokenAmount += tokens
			pos.InvestmentAmount += amount
			if err := r.Positions.Save(ctx, pos); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			pos = &domain.InvestorPosition{
				PoolID:           p.ID,
				Investor:         cap.Actor,
				TokenAmount:      tokens,
				InvestmentAmount: amount,
				InvestmentTime:   now,
			}
			if err := r.Positions.Create(ctx, pos); err != nil {
				return err
			}
		default:
			return err
		}

		p.CollectedAmount += amount
		p.SoldTokens += tokens
		out.TokensMinted = tokens

		if p.CollectedAmount == p.TargetAmount {
			// Funding finalization, synchronously in the same operation.
			fee := bpmath.ApplyBp(p.CollectedAmount, e.cfg.ProtocolFeeBp)
			out.BorrowerProceeds = p.CollectedAmount - fee
			// FUNDED is transient: the auto transition lands the pool
			// in ONGOING within the same operation.
			start := now
			p.Status = domain.StatusOngoing
			p.StartDate = &start
			p.StatusUpdatedAt = now
		}

		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		out.Pool = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("pool", poolID).Str("investor", cap.Actor).
		Int64("amount", amount).Int64("tokens", out.TokensMinted).Msg("investment")
	e.emit(poolID, "pool.invested", amount)
	if out.Pool.Status == string(domain.StatusOngoing) {
		e.emit(poolID, "pool.funded", out.BorrowerProceeds)
	}
	return &out, nil
}

// refreshRate recomputes the dynamic rate if the throttle window elapsed.
// Inside the window it is a documented no-op, never an error.
func (e *Engine) refreshRate(ctx context.Context, p *domain.Pool, now time.Time) error {
	if !e.curve.Due(p.LastRateUpdate, now) {
		return nil
	}

	var bonusBp int64
	if e.promos != nil {
		offer, err := e.promos.ActiveOfferFor(ctx, p.PoolID)
		if err != nil {
			return fault.External("promotion source failed", err)
		}
		if offer != nil && now.Before(offer.EndTime) {
			bonusBp = offer.BonusBp
		}
	}

	rate := e.curve.Compute(risk.RateInput{
		BaseRateBp:  p.BaseRateBp,
		SoldTokens:  p.SoldTokens,
		TotalTokens: p.TotalTokens,
		BonusBp:     bonusBp,
		WindowStart: p.CreatedAt,
		Deadline:    p.FundingDeadline,
		Now:         now,
	})

	if e.oracle != nil {
		adjusted, err := e.oracle.AdjustRateForConditions(ctx, p.PoolID, rate)
		if err != nil {
			return fault.External("market oracle failed", err)
		}
		rate = adjusted
	}

	p.DynamicRateBp = e.curve.ClampBounds(p.BaseRateBp, rate)
	p.LastRateUpdate = now
	return nil
}

type RepayResult struct {
	Pool                *PoolDTO `json:"pool"`
	PrincipalPortion    int64    `json:"principal_portion"`
	InterestPortion     int64    `json:"interest_portion"`
	InterestDistributed int64    `json:"interest_distributed"`
}

// Repay books a borrower repayment, splits it principal/interest pro-rata
// to the repayment obligation, and distributes the interest portion across
// positions by token share. Full repayment completes the pool.
func (e *Engine) Repay(ctx context.Context, cap auth.Capability, poolID string, amount int64) (*RepayResult, error) {
	if amount <= 0 {
		return nil, domain.ErrAmountOutOfRange
	}
	if err := e.checkKYC(ctx, cap.Actor, amount, "repay"); err != nil {
		return nil, err
	}

	unlock := e.lockPool(poolID)
	defer unlock()

	var out RepayResult
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		if p.Status != domain.StatusOngoing {
			return domain.ErrPoolNotOngoing
		}
		if cap.Actor != p.Borrower || !cap.Has(auth.RoleBorrower) {
			return domain.ErrUnauthorized
		}
		if amount > p.RemainingObligation() {
			return domain.ErrAmountOutOfRange
		}

		// Principal share mirrors target/repayment; the rest is interest.
		out.PrincipalPortion = bpmath.MulDiv(amount, p.TargetAmount, p.RepaymentAmount)
		out.InterestPortion = amount - out.PrincipalPortion

		if out.InterestPortion > 0 && p.SoldTokens > 0 {
			positions, err := r.Positions.ListByPool(ctx, p.ID)
			if err != nil {
				return err
			}
			for i := range positions {
				pos := &positions[i]
				share := bpmath.MulDiv(out.InterestPortion, pos.TokenAmount, p.SoldTokens)
				if share == 0 {
					continue
				}
				pos.ClaimedReturns += share
				if err := r.Positions.Save(ctx, pos); err != nil {
					return err
				}
				out.InterestDistributed += share
			}
		}

		p.AmountRepaid += amount
		if p.AmountRepaid == p.RepaymentAmount {
			p.Status = domain.StatusCompleted
			p.StatusUpdatedAt = e.now()
		}
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		out.Pool = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("pool", poolID).Int64("amount", amount).
		Int64("interest", out.InterestPortion).Msg("repayment")
	e.emit(poolID, "pool.repaid", amount)
	if out.Pool.Status == string(domain.StatusCompleted) {
		e.emit(poolID, "pool.completed", 0)
	}
	return &out, nil
}

type DefaultResult struct {
	Pool             *PoolDTO `json:"pool"`
	Shortfall        int64    `json:"shortfall"`
	InsuranceCovered int64    `json:"insurance_covered"`
	TrancheAbsorbed  int64    `json:"tranche_absorbed"`
	GuaranteeCovered int64    `json:"guarantee_covered"`
	UncoveredLoss    int64    `json:"uncovered_loss"`
}

// TriggerDefault is callable by anyone once the grace period after maturity
// has expired. The shortfall routes through insurance, then the tranche
// waterfall, then the guarantee fund; whatever remains is recorded on the
// pool as uncovered loss.
func (e *Engine) TriggerDefault(ctx context.Context, cap auth.Capability, poolID string) (*DefaultResult, error) {
	unlock := e.lockPool(poolID)
	defer unlock()

	var out DefaultResult
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		if p.Status != domain.StatusOngoing {
			return domain.ErrPoolNotOngoing
		}
		if p.StartDate == nil {
			return domain.ErrInvalidTransition
		}
		now := e.now()
		maturity := p.StartDate.Add(time.Duration(p.DurationDays) * 24 * time.Hour)
		if !now.After(maturity.Add(e.cfg.GracePeriod)) {
			return domain.ErrDefaultNotDue
		}
		if p.AmountRepaid >= p.RepaymentAmount {
			return domain.ErrAlreadyFinalized
		}

		out.Shortfall = p.RepaymentAmount - p.AmountRepaid

		// Insurance first. Capacity/state faults mean "not covered", they
		// never abort the default.
		if p.InsurancePolicyID != "" && e.insurance != nil {
			claim := bpmath.Min(out.Shortfall, p.InsuranceCoverage)
			covered, err := e.insurance.FileClaim(ctx, r, p.ID, claim)
			switch fault.KindOf(err) {
			case fault.KindUnknown:
				if err != nil {
					return err
				}
				out.InsuranceCovered = covered
			case fault.KindCapacity, fault.KindState, fault.KindNotFound:
				e.log.Warn().Str("pool", poolID).Err(err).Msg("insurance did not cover")
			default:
				return err
			}
		}

		uncovered := out.Shortfall - out.InsuranceCovered

		// Tranche waterfall, Junior first. Locked read: absorption mutates
		// the shared tranche rows just like invest does.
		if uncovered > 0 {
			tranches, err := r.Tranches.ListActiveForUpdate(ctx)
			if err != nil {
				return err
			}
			ordered := make([]*tranche.Tranche, len(tranches))
			for i := range tranches {
				ordered[len(tranches)-1-i] = &tranches[i]
			}
			absorbed, residual := tranching.Absorb(uncovered, ordered)
			for i, t := range ordered {
				if absorbed[i] > 0 {
					if err := r.Tranches.Save(ctx, t); err != nil {
						return err
					}
				}
			}
			out.TrancheAbsorbed = uncovered - residual
			uncovered = residual
		}

		// Guarantee fund takes the residual.
		if uncovered > 0 && e.guarantee != nil {
			covered, err := e.guarantee.CoverLoss(ctx, r, uncovered)
			if err != nil {
				return err
			}
			out.GuaranteeCovered = covered
			uncovered -= covered
		}

		out.UncoveredLoss = uncovered
		p.Status = domain.StatusDefaulted
		p.StatusUpdatedAt = now
		p.UncoveredLoss = uncovered
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		out.Pool = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Warn().Str("pool", poolID).Int64("shortfall", out.Shortfall).
		Int64("uncovered", out.UncoveredLoss).Msg("pool defaulted")
	e.emit(poolID, "pool.defaulted", out.Shortfall)
	return &out, nil
}

// Liquidate moves a defaulted pool to its terminal LIQUIDATED state.
// Operator-only.
func (e *Engine) Liquidate(ctx context.Context, cap auth.Capability, poolID string) (*PoolDTO, error) {
	if !cap.Has(auth.RoleOperator) {
		return nil, domain.ErrUnauthorized
	}

	unlock := e.lockPool(poolID)
	defer unlock()

	var dto *PoolDTO
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		if p.Status != domain.StatusDefaulted {
			return domain.ErrPoolNotDefaulted
		}
		p.Status = domain.StatusLiquidated
		p.StatusUpdatedAt = e.now()
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(poolID, "pool.liquidated", 0)
	return dto, nil
}

// CancelExpired cancels an ACTIVE pool whose funding deadline passed short
// of target. Callable by anyone; the transition is a fact of time.
func (e *Engine) CancelExpired(ctx context.Context, poolID string) (*PoolDTO, error) {
	unlock := e.lockPool(poolID)
	defer unlock()

	var dto *PoolDTO
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		if p.Status != domain.StatusActive {
			return domain.ErrPoolNotActive
		}
		now := e.now()
		if !now.After(p.FundingDeadline) {
			return fault.State("funding deadline has not passed")
		}
		if p.CollectedAmount >= p.TargetAmount {
			return domain.ErrAlreadyFinalized
		}
		p.Status = domain.StatusCancelled
		p.StatusUpdatedAt = now
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = poolDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(poolID, "pool.cancelled", 0)
	return dto, nil
}

// WithdrawIfCancelled refunds an investor's principal 1:1 from a cancelled
// pool and burns the tokens. The position row stays behind, zeroed.
func (e *Engine) WithdrawIfCancelled(ctx context.Context, cap auth.Capability, poolID string) (int64, error) {
	unlock := e.lockPool(poolID)
	defer unlock()

	var refund int64
	err := e.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *domain.Pool) error {
		if p.Status != domain.StatusCancelled {
			return domain.ErrNotCancelled
		}
		pos, err := r.Positions.Get(ctx, p.ID, cap.Actor)
		if err != nil {
			return domain.ErrPositionNotFound
		}
		if pos.InvestmentAmount == 0 {
			return domain.ErrPositionNotFound
		}

		refund = pos.InvestmentAmount
		p.CollectedAmount -= pos.InvestmentAmount
		p.SoldTokens -= pos.TokenAmount
		pos.InvestmentAmount = 0
		pos.TokenAmount = 0

		if err := r.Positions.Save(ctx, pos); err != nil {
			return err
		}
		return r.Pools.Save(ctx, p)
	})
	if err != nil {
		return 0, err
	}

	e.emit(poolID, "pool.refunded", refund)
	return refund, nil
}
