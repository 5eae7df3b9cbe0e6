package tranche

import (
	"context"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
)

var (
	ErrNotFound          = fault.NotFound("tranche not found")
	ErrNoEligibleTranche = fault.Capacity("no tranche risk band matches")
)

type Repository interface {
	Create(ctx context.Context, t *Tranche) error
	// ListActive returns active tranches ordered by seniority ascending
	// (Senior first).
	ListActive(ctx context.Context) ([]Tranche, error)
	// ListActiveForUpdate is ListActive with row locks held for the rest
	// of the transaction. Tranches are shared across pools, so every path
	// that mutates CurrentAllocation must read through this.
	ListActiveForUpdate(ctx context.Context) ([]Tranche, error)
	Save(ctx context.Context, t *Tranche) error
}
