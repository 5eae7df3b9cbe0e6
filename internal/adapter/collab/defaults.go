// Package collab provides the default collaborator implementations wired at
// startup. Each one is deliberately boring: external risk, market and
// promotion services plug in by replacing these with real clients.
package collab

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/collab"
)

// ApproveAllValidator passes every pool through activation.
type ApproveAllValidator struct{}

func (ApproveAllValidator) ValidatePool(ctx context.Context, poolID string) (bool, error) {
	return true, nil
}

// PassthroughOracle applies no market adjustment.
type PassthroughOracle struct{}

func (PassthroughOracle) AdjustRateForConditions(ctx context.Context, poolID string, currentRateBp int64) (int64, error) {
	return currentRateBp, nil
}

// NoPromotions never has a live offer.
type NoPromotions struct{}

func (NoPromotions) ActiveOfferFor(ctx context.Context, poolID string) (*domain.Offer, error) {
	return nil, nil
}

// LogSink writes lifecycle events to the structured log. It serves both the
// notification and token-mint hooks until real consumers exist.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Notify(ev domain.Event) {
	s.Log.Info().Str("pool", ev.PoolID).Str("event", ev.Type).
		Int64("amount", ev.Amount).Time("at", ev.At).Msg("pool event")
}

func (s LogSink) OnPoolEvent(ev domain.Event) {
	s.Log.Debug().Str("pool", ev.PoolID).Str("event", ev.Type).Msg("token hook")
}
