package guarantee

import (
	"context"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
)

var (
	ErrTierNotFound      = fault.NotFound("guarantee tier not found")
	ErrDepositOutOfRange = fault.Validation("deposit outside tier bounds")
	ErrPositionLocked    = fault.State("position is locked")
	ErrNothingToWithdraw = fault.State("no deposit to withdraw")
)

// Tier rows are shared state across every pool and depositor. Mutating
// paths (deposit, withdraw, loss coverage) must read the tier through a
// ForUpdate variant; holding the tier row lock also serializes access to
// that tier's positions, which have no locked read of their own beyond
// ListPositionsByTierForUpdate.
type Repository interface {
	CreateTier(ctx context.Context, t *Tier) error
	GetTier(ctx context.Context, id uint64) (*Tier, error)
	GetTierForUpdate(ctx context.Context, id uint64) (*Tier, error)
	ListTiers(ctx context.Context) ([]Tier, error)
	ListTiersForUpdate(ctx context.Context) ([]Tier, error)
	SaveTier(ctx context.Context, t *Tier) error

	CreatePosition(ctx context.Context, p *Position) error
	GetPosition(ctx context.Context, tierID uint64, investor string) (*Position, error)
	ListPositionsByTier(ctx context.Context, tierID uint64) ([]Position, error)
	ListPositionsByTierForUpdate(ctx context.Context, tierID uint64) ([]Position, error)
	SavePosition(ctx context.Context, p *Position) error
}
