package fundingmock

import (
	"context"

	domain "credify-backend/internal/domain/funding"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies funding.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, f *domain.Funding) error
	GetByLoanIDFn  func(ctx context.Context, loanID uint64) (*domain.Funding, error)
	ListByLenderFn func(ctx context.Context, lenderUID string) ([]domain.Funding, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.Funding) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID uint64) (*domain.Funding, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByLender(ctx context.Context, lenderUID string) ([]domain.Funding, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, lenderUID)
	}
	return nil, nil
}
