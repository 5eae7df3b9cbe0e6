package pool

import "context"

type Repository interface {
	Create(ctx context.Context, p *Pool) error
	GetByPoolID(ctx context.Context, poolID string) (*Pool, error)
	// GetByPoolIDForUpdate locks the row for the duration of the enclosing tx.
	GetByPoolIDForUpdate(ctx context.Context, poolID string) (*Pool, error)
	GetPendingPoolByBorrower(ctx context.Context, borrower string) (*Pool, error)
	Save(ctx context.Context, p *Pool) error
}

type PositionRepository interface {
	Create(ctx context.Context, ip *InvestorPosition) error
	Get(ctx context.Context, poolID uint64, investor string) (*InvestorPosition, error)
	ListByPool(ctx context.Context, poolID uint64) ([]InvestorPosition, error)
	Save(ctx context.Context, ip *InvestorPosition) error
}
