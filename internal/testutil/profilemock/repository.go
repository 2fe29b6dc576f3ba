package profilemock

import (
	"context"

	domain "credify-backend/internal/domain/profile"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies profile.Repository.
// Unset getters and updaters return domain.ErrNotFound, other writers succeed.
type Repo struct {
	CreateBorrowerFn     func(ctx context.Context, b *domain.Borrower) error
	GetBorrowerByUIDFn   func(ctx context.Context, uid string) (*domain.Borrower, error)
	GetBorrowerByEmailFn func(ctx context.Context, email string) (*domain.Borrower, error)
	UpdateBorrowerFn     func(ctx context.Context, uid string, fn func(*domain.Borrower) error) error
	AddPaymentFn         func(ctx context.Context, p *domain.Payment) error
	CreateLenderFn       func(ctx context.Context, l *domain.Lender) error
	GetLenderByUIDFn     func(ctx context.Context, uid string) (*domain.Lender, error)
	GetLenderByEmailFn   func(ctx context.Context, email string) (*domain.Lender, error)
	UpdateLenderFn       func(ctx context.Context, uid string, fn func(*domain.Lender) error) error
	AddPayoutFn          func(ctx context.Context, p *domain.Payout) error
	MarkBorrowerKycFn    func(ctx context.Context, email string) error
	MarkLenderKycFn      func(ctx context.Context, email string) error
}

func (m *Repo) CreateBorrower(ctx context.Context, b *domain.Borrower) error {
	if m.CreateBorrowerFn != nil {
		return m.CreateBorrowerFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetBorrowerByUID(ctx context.Context, uid string) (*domain.Borrower, error) {
	if m.GetBorrowerByUIDFn != nil {
		return m.GetBorrowerByUIDFn(ctx, uid)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetBorrowerByEmail(ctx context.Context, email string) (*domain.Borrower, error) {
	if m.GetBorrowerByEmailFn != nil {
		return m.GetBorrowerByEmailFn(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpdateBorrower(ctx context.Context, uid string, fn func(*domain.Borrower) error) error {
	if m.UpdateBorrowerFn != nil {
		return m.UpdateBorrowerFn(ctx, uid, fn)
	}
	return domain.ErrNotFound
}

func (m *Repo) AddPayment(ctx context.Context, p *domain.Payment) error {
	if m.AddPaymentFn != nil {
		return m.AddPaymentFn(ctx, p)
	}
	return nil
}

func (m *Repo) CreateLender(ctx context.Context, l *domain.Lender) error {
	if m.CreateLenderFn != nil {
		return m.CreateLenderFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetLenderByUID(ctx context.Context, uid string) (*domain.Lender, error) {
	if m.GetLenderByUIDFn != nil {
		return m.GetLenderByUIDFn(ctx, uid)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetLenderByEmail(ctx context.Context, email string) (*domain.Lender, error) {
	if m.GetLenderByEmailFn != nil {
		return m.GetLenderByEmailFn(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpdateLender(ctx context.Context, uid string, fn func(*domain.Lender) error) error {
	if m.UpdateLenderFn != nil {
		return m.UpdateLenderFn(ctx, uid, fn)
	}
	return domain.ErrNotFound
}

func (m *Repo) AddPayout(ctx context.Context, p *domain.Payout) error {
	if m.AddPayoutFn != nil {
		return m.AddPayoutFn(ctx, p)
	}
	return nil
}

func (m *Repo) MarkBorrowerKyc(ctx context.Context, email string) error {
	if m.MarkBorrowerKycFn != nil {
		return m.MarkBorrowerKycFn(ctx, email)
	}
	return nil
}

func (m *Repo) MarkLenderKyc(ctx context.Context, email string) error {
	if m.MarkLenderKycFn != nil {
		return m.MarkLenderKycFn(ctx, email)
	}
	return nil
}
