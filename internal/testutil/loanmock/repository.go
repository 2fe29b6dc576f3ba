package loanmock

import (
	"context"

	domain "credify-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset functions fall back to a no-op or context.Canceled.
type Repo struct {
	CreateFn           func(ctx context.Context, l *domain.Loan) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Loan, error)
	ListFn             func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error)
	ListByBorrowerFn   func(ctx context.Context, borrowerUID string) ([]domain.Loan, error)
	UpdateFn           func(ctx context.Context, l *domain.Loan, expectedVersion uint64) error
	AppendBidFn        func(ctx context.Context, b *domain.Bid) error
	ListBidsByLenderFn func(ctx context.Context, lenderUID string) ([]domain.Bid, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListByBorrower(ctx context.Context, borrowerUID string) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerUID)
	}
	return nil, nil
}

func (m *Repo) Update(ctx context.Context, l *domain.Loan, expectedVersion uint64) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, l, expectedVersion)
	}
	l.Version = expectedVersion + 1
	return nil
}

func (m *Repo) AppendBid(ctx context.Context, b *domain.Bid) error {
	if m.AppendBidFn != nil {
		return m.AppendBidFn(ctx, b)
	}
	return nil
}

func (m *Repo) ListBidsByLender(ctx context.Context, lenderUID string) ([]domain.Bid, error) {
	if m.ListBidsByLenderFn != nil {
		return m.ListBidsByLenderFn(ctx, lenderUID)
	}
	return nil, nil
}
