package mysql

import (
	"context"

	profileDomain "credify-backend/internal/domain/profile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func newestFirst(db *gorm.DB) *gorm.DB { return db.Order("date DESC, id DESC") }

func (r *ProfileRepository) CreateBorrower(ctx context.Context, b *profileDomain.Borrower) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *ProfileRepository) getBorrower(ctx context.Context, col, val string) (*profileDomain.Borrower, error) {
	var out profileDomain.Borrower
	res := r.db.WithContext(ctx).Preload("Payments", newestFirst).Where(col+" = ?", val).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, profileDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *ProfileRepository) GetBorrowerByUID(ctx context.Context, uid string) (*profileDomain.Borrower, error) {
	return r.getBorrower(ctx, "uid", uid)
}

func (r *ProfileRepository) GetBorrowerByEmail(ctx context.Context, email string) (*profileDomain.Borrower, error) {
	return r.getBorrower(ctx, "email", email)
}

// Columns the update callbacks may write; kyc_completed belongs to markKyc only.
var (
	borrowerMutable = []string{
		"display_name", "loan_loan_id", "loan_principal", "loan_interest_rate",
		"loan_duration", "loan_purpose", "loan_start_date", "loan_total_amount",
		"loan_monthly_emi", "loan_paid_months", "loan_remaining_amount",
		"loan_next_emi_date", "updated_at",
	}
	lenderMutable = []string{
		"display_name", "portfolio_total_investment", "portfolio_active_loans",
		"portfolio_avg_interest_rate", "portfolio_total_returns", "updated_at",
	}
)

// lockedUpdate loads the row FOR UPDATE, applies fn and writes back cols.
func lockedUpdate[T any](ctx context.Context, db *gorm.DB, uid string, cols []string, fn func(*T) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("uid = ?", uid).First(&row)
		if res.Error != nil {
			return notFound(res.Error, profileDomain.ErrNotFound)
		}
		if err := fn(&row); err != nil {
			return err
		}
		return tx.Model(&row).Select(cols).Updates(&row).Error
	})
}

func (r *ProfileRepository) UpdateBorrower(ctx context.Context, uid string, fn func(*profileDomain.Borrower) error) error {
	return lockedUpdate(ctx, r.db, uid, borrowerMutable, fn)
}

func (r *ProfileRepository) AddPayment(ctx context.Context, p *profileDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) CreateLender(ctx context.Context, l *profileDomain.Lender) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *ProfileRepository) getLender(ctx context.Context, col, val string) (*profileDomain.Lender, error) {
	var out profileDomain.Lender
	res := r.db.WithContext(ctx).Preload("Payouts", newestFirst).Where(col+" = ?", val).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, profileDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *ProfileRepository) GetLenderByUID(ctx context.Context, uid string) (*profileDomain.Lender, error) {
	return r.getLender(ctx, "uid", uid)
}

func (r *ProfileRepository) GetLenderByEmail(ctx context.Context, email string) (*profileDomain.Lender, error) {
	return r.getLender(ctx, "email", email)
}

func (r *ProfileRepository) UpdateLender(ctx context.Context, uid string, fn func(*profileDomain.Lender) error) error {
	return lockedUpdate(ctx, r.db, uid, lenderMutable, fn)
}

func (r *ProfileRepository) AddPayout(ctx context.Context, p *profileDomain.Payout) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) markKyc(ctx context.Context, model any, email string) error {
	res := r.db.WithContext(ctx).Model(model).Where("email = ?", email).Update("kyc_completed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return profileDomain.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) MarkBorrowerKyc(ctx context.Context, email string) error {
	return r.markKyc(ctx, &profileDomain.Borrower{}, email)
}

func (r *ProfileRepository) MarkLenderKyc(ctx context.Context, email string) error {
	return r.markKyc(ctx, &profileDomain.Lender{}, email)
}
