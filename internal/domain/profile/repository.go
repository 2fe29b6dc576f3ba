package profile

import "context"

type Repository interface {
	CreateBorrower(ctx context.Context, b *Borrower) error
	GetBorrowerByUID(ctx context.Context, uid string) (*Borrower, error)
	GetBorrowerByEmail(ctx context.Context, email string) (*Borrower, error)
	// UpdateBorrower applies fn to the row under a lock and persists the name
	// and loan summary. KycCompleted changes are ignored.
	UpdateBorrower(ctx context.Context, uid string, fn func(b *Borrower) error) error
	AddPayment(ctx context.Context, p *Payment) error

	CreateLender(ctx context.Context, l *Lender) error
	GetLenderByUID(ctx context.Context, uid string) (*Lender, error)
	GetLenderByEmail(ctx context.Context, email string) (*Lender, error)
	UpdateLender(ctx context.Context, uid string, fn func(l *Lender) error) error
	AddPayout(ctx context.Context, p *Payout) error

	MarkBorrowerKyc(ctx context.Context, email string) error
	MarkLenderKyc(ctx context.Context, email string) error
}
