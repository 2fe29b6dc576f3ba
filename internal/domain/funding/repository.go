package funding

import "context"

type Repository interface {
	// Create a new funding (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, f *Funding) error
	GetByLoanID(ctx context.Context, loanID uint64) (*Funding, error)
	ListByLender(ctx context.Context, lenderUID string) ([]Funding, error)
}
