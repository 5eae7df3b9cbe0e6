package collabmock

import (
	"context"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/collab"
)

// Function-backed collaborator mocks. Unset functions behave benignly
// (validation passes, oracle returns the input rate, no offers, no-ops).

type Validator struct {
	ValidatePoolFn func(ctx context.Context, poolID string) (bool, error)
}

func (m *Validator) ValidatePool(ctx context.Context, poolID string) (bool, error) {
	if m.ValidatePoolFn != nil {
		return m.ValidatePoolFn(ctx, poolID)
	}
	return true, nil
}

type Oracle struct {
	AdjustFn func(ctx context.Context, poolID string, currentRateBp int64) (int64, error)
}

func (m *Oracle) AdjustRateForConditions(ctx context.Context, poolID string, currentRateBp int64) (int64, error) {
	if m.AdjustFn != nil {
		return m.AdjustFn(ctx, poolID, currentRateBp)
	}
	return currentRateBp, nil
}

type KYC struct {
	CheckFn func(ctx context.Context, actor string, amount int64, actionType string) (bool, string, error)
}

func (m *KYC) CheckEligibility(ctx context.Context, actor string, amount int64, actionType string) (bool, string, error) {
	if m.CheckFn != nil {
		return m.CheckFn(ctx, actor, amount, actionType)
	}
	return true, "", nil
}

type Promos struct {
	ActiveOfferForFn func(ctx context.Context, poolID string) (*collab.Offer, error)
}

func (m *Promos) ActiveOfferFor(ctx context.Context, poolID string) (*collab.Offer, error) {
	if m.ActiveOfferForFn != nil {
		return m.ActiveOfferForFn(ctx, poolID)
	}
	return nil, nil
}

// Sink records every event it sees; useful for asserting emissions.
type Sink struct {
	Events []collab.Event
}

func (m *Sink) Notify(ev collab.Event)      { m.Events = append(m.Events, ev) }
func (m *Sink) OnPoolEvent(ev collab.Event) { m.Events = append(m.Events, ev) }
