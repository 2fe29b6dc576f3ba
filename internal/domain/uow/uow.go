package uow

import (
	"context"

	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/loan"
)

type Repos struct {
	Loans    loan.Repository
	Fundings funding.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
