package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "credify-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func orderedBids(db *gorm.DB) *gorm.DB { return db.Order("bids.id ASC") }

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	if l.Version == 0 {
		l.Version = 1
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Preload("Bids", orderedBids).First(&out, id)
	if res.Error != nil {
		return nil, notFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Bids", orderedBids).
		First(&out, id)
	if res.Error != nil {
		return nil, notFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Preload("Bids", orderedBids)
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.MinAmount > 0 {
		q = q.Where("amount >= ?", f.MinAmount)
	}
	if f.MaxAmount > 0 {
		q = q.Where("amount <= ?", f.MaxAmount)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	out := []loanDomain.Loan{}
	return out, q.Order("id ASC").Find(&out).Error
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerUID string) ([]loanDomain.Loan, error) {
	out := []loanDomain.Loan{}
	res := r.db.WithContext(ctx).
		Preload("Bids", orderedBids).
		Where("borrower_uid = ?", borrowerUID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

// Update writes the mutable columns only when the stored version still equals expectedVersion.
func (r *LoanRepository) Update(ctx context.Context, l *loanDomain.Loan, expectedVersion uint64) error {
	next := expectedVersion + 1
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("id = ? AND version = ?", l.ID, expectedVersion).
		Updates(map[string]any{
			"rate":       l.Rate,
			"status":     l.Status,
			"version":    next,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrVersionConflict
	}
	l.Version = next
	l.UpdatedAt = now
	return nil
}

func (r *LoanRepository) AppendBid(ctx context.Context, b *loanDomain.Bid) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *LoanRepository) ListBidsByLender(ctx context.Context, lenderUID string) ([]loanDomain.Bid, error) {
	out := []loanDomain.Bid{}
	res := r.db.WithContext(ctx).Where("lender_uid = ?", lenderUID).Order("id ASC").Find(&out)
	return out, res.Error
}
