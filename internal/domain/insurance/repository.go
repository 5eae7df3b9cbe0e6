package insurance

import (
	"context"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/fault"
)

var (
	ErrInsurerNotFound = fault.NotFound("insurer not found")
	ErrPolicyNotFound  = fault.NotFound("policy not found")
	ErrInsurerInactive = fault.State("insurer is not active")
	ErrPolicyNotActive = fault.State("policy is not active")
	ErrPolicyExpired   = fault.State("policy has expired")

	ErrInsufficientInsurerCapital = fault.Capacity("insufficient insurer capital")
)

type Repository interface {
	CreateInsurer(ctx context.Context, i *Insurer) error
	GetInsurerByID(ctx context.Context, insurerID string) (*Insurer, error)
	GetInsurerForUpdate(ctx context.Context, id uint64) (*Insurer, error)
	SaveInsurer(ctx context.Context, i *Insurer) error

	CreatePolicy(ctx context.Context, p *Policy) error
	GetPolicyByPool(ctx context.Context, poolID uint64) (*Policy, error)
	SavePolicy(ctx context.Context, p *Policy) error
}
