// Package collab declares the narrow interfaces the engine consumes from
// external systems. Implementations live outside the core; tests inject
// function-backed mocks.
package collab

import (
	"context"
	"time"
)

// RiskValidation is consulted once at pool activation.
type RiskValidation interface {
	ValidatePool(ctx context.Context, poolID string) (bool, error)
}

// MarketOracle adjusts a rate for current market conditions.
type MarketOracle interface {
	AdjustRateForConditions(ctx context.Context, poolID string, currentRateBp int64) (int64, error)
}

// KYC gates investments/repayments when configured. A nil checker on the
// engine skips the gate entirely.
type KYC interface {
	CheckEligibility(ctx context.Context, actor string, amount int64, actionType string) (bool, string, error)
}

// Offer is an active promotional rate bonus.
type Offer struct {
	BonusBp int64
	EndTime time.Time
}

type PromotionSource interface {
	// ActiveOfferFor returns nil when no offer is live for the pool.
	ActiveOfferFor(ctx context.Context, poolID string) (*Offer, error)
}

// Event describes a pool lifecycle transition for outside consumers.
type Event struct {
	PoolID string
	Type   string
	Amount int64
	At     time.Time
}

// NotificationSink is fire-and-forget; the engine never awaits or retries.
type NotificationSink interface {
	Notify(event Event)
}

// IdentityTokenMinter is informed of lifecycle events for external
// tokenization. The engine does not depend on the mint succeeding.
type IdentityTokenMinter interface {
	OnPoolEvent(event Event)
}
