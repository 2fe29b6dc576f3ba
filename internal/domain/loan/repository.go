package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate row-locks the loan; only meaningful inside a transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	List(ctx context.Context, f ListFilter) ([]Loan, error)
	ListByBorrower(ctx context.Context, borrowerUID string) ([]Loan, error)
	// Update writes rate/status/version only when the stored version equals expectedVersion.
	Update(ctx context.Context, l *Loan, expectedVersion uint64) error
	AppendBid(ctx context.Context, b *Bid) error
	ListBidsByLender(ctx context.Context, lenderUID string) ([]Bid, error)
}
