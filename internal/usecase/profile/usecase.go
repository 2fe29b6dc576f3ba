package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/profile"
	"credify-backend/internal/domain/user"
	"credify-backend/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid profile input")

type Usecase struct {
	profiles profile.Repository
	loans    loan.Repository
	fundings funding.Repository
	now      func() time.Time
}

func NewUsecase(p profile.Repository, l loan.Repository, f funding.Repository) *Usecase {
	return &Usecase{profiles: p, loans: l, fundings: f, now: func() time.Time { return time.Now().UTC() }}
}

func defaultName(email, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// EnsureBorrower returns the borrower for email, creating an empty one when missing.
func (u *Usecase) EnsureBorrower(ctx context.Context, uid, email, name string) (*profile.Borrower, error) {
	b, err := u.profiles.GetBorrowerByEmail(ctx, email)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	b = &profile.Borrower{UID: uid, Email: email, DisplayName: defaultName(email, name), Payments: []profile.Payment{}}
	if err := u.profiles.CreateBorrower(ctx, b); err != nil {
		return nil, err
	}
	logger.Info(ctx, "borrower profile created", zap.String("uid", uid))
	return b, nil
}

// EnsureLender returns the lender for email, creating one with a zeroed portfolio when missing.
func (u *Usecase) EnsureLender(ctx context.Context, uid, email, name string) (*profile.Lender, error) {
	l, err := u.profiles.GetLenderByEmail(ctx, email)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	l = &profile.Lender{UID: uid, Email: email, DisplayName: defaultName(email, name), Payouts: []profile.Payout{}}
	if err := u.profiles.CreateLender(ctx, l); err != nil {
		return nil, err
	}
	logger.Info(ctx, "lender profile created", zap.String("uid", uid))
	return l, nil
}

// Ensure creates the profile matching role.
func (u *Usecase) Ensure(ctx context.Context, role user.Role, uid, email, name string) error {
	var err error
	if role == user.RoleLender {
		_, err = u.EnsureLender(ctx, uid, email, name)
	} else {
		_, err = u.EnsureBorrower(ctx, uid, email, name)
	}
	return err
}

func (u *Usecase) GetBorrower(ctx context.Context, uid string) (*profile.Borrower, error) {
	return u.profiles.GetBorrowerByUID(ctx, uid)
}

func (u *Usecase) GetLender(ctx context.Context, uid string) (*profile.Lender, error) {
	return u.profiles.GetLenderByUID(ctx, uid)
}

func (u *Usecase) UpdateDisplayName(ctx context.Context, role user.Role, uid, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	if role == user.RoleLender {
		return u.profiles.UpdateLender(ctx, uid, func(l *profile.Lender) error {
			l.DisplayName = name
			return nil
		})
	}
	return u.profiles.UpdateBorrower(ctx, uid, func(b *profile.Borrower) error {
		b.DisplayName = name
		return nil
	})
}

// AddPayment appends to the borrower's history; a successful installment
// against the active loan advances its repayment summary.
func (u *Usecase) AddPayment(ctx context.Context, uid string, in PaymentInput) (*profile.Payment, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = profile.PaymentPending
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, in.Status)
	}
	if _, err := u.profiles.GetBorrowerByUID(ctx, uid); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = u.now()
	}

	p := &profile.Payment{
		BorrowerUID: uid,
		LoanID:      in.LoanID,
		Date:        in.Date,
		Amount:      in.Amount,
		Status:      in.Status,
	}
	if in.PaymentID != "" {
		p.PaymentID = null.StringFrom(in.PaymentID)
	}
	if in.FailureReason != "" {
		p.FailureReason = null.StringFrom(in.FailureReason)
	}
	if err := u.profiles.AddPayment(ctx, p); err != nil {
		return nil, err
	}

	if p.Status != profile.PaymentSuccessful || p.LoanID == 0 {
		return p, nil
	}
	err := u.profiles.UpdateBorrower(ctx, uid, func(b *profile.Borrower) error {
		d := &b.LoanDetails
		if d.LoanID != p.LoanID {
			return nil
		}
		remaining := decimal.NewFromFloat(d.RemainingAmount).Sub(decimal.NewFromFloat(p.Amount))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		d.RemainingAmount = remaining.InexactFloat64()
		d.PaidMonths++
		if d.NextEMIDate.Valid {
			d.NextEMIDate = null.TimeFrom(d.NextEMIDate.Time.AddDate(0, 1, 0))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (u *Usecase) AddPayout(ctx context.Context, uid string, in PayoutInput) (*profile.Payout, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = profile.PayoutPending
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown payout status %q", ErrInvalidInput, in.Status)
	}
	if _, err := u.profiles.GetLenderByUID(ctx, uid); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = u.now()
	}
	p := &profile.Payout{LenderUID: uid, Date: in.Date, Amount: in.Amount, Status: in.Status}
	if err := u.profiles.AddPayout(ctx, p); err != nil {
		return nil, err
	}
	if p.Status == profile.PayoutSettled {
		err := u.profiles.UpdateLender(ctx, uid, func(l *profile.Lender) error {
			l.Portfolio.TotalReturns = decimal.NewFromFloat(l.Portfolio.TotalReturns).
				Add(decimal.NewFromFloat(p.Amount)).Round(2).InexactFloat64()
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (u *Usecase) MarkKycCompleted(ctx context.Context, role, email string) error {
	if role == string(user.RoleLender) {
		return u.profiles.MarkLenderKyc(ctx, email)
	}
	return u.profiles.MarkBorrowerKyc(ctx, email)
}

// RecordFunding folds a committed funding into the lender portfolio and the
// borrower's active loan summary.
func (u *Usecase) RecordFunding(ctx context.Context, l *loan.Loan, f *funding.Funding) error {
	err := u.profiles.UpdateLender(ctx, f.LenderUID, func(lender *profile.Lender) error {
		pf := &lender.Portfolio
		invested := decimal.NewFromFloat(pf.TotalInvestment)
		amount := decimal.NewFromFloat(f.Amount)
		total := invested.Add(amount)
		weighted := decimal.NewFromFloat(pf.AvgInterestRate).Mul(invested).
			Add(decimal.NewFromFloat(f.Rate).Mul(amount))
		pf.TotalInvestment = total.Round(2).InexactFloat64()
		pf.ActiveLoans++
		if total.IsPositive() {
			pf.AvgInterestRate = weighted.Div(total).Round(2).InexactFloat64()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("lender portfolio: %w", err)
	}

	if l.BorrowerUID == "" {
		return nil
	}
	emi := loan.EMI(l.Amount, f.Rate, l.Duration)
	totalDue := loan.TotalRepayable(l.Amount, f.Rate, l.Duration)
	err = u.profiles.UpdateBorrower(ctx, l.BorrowerUID, func(b *profile.Borrower) error {
		b.LoanDetails = profile.LoanDetails{
			LoanID:          l.ID,
			Principal:       l.Amount,
			InterestRate:    f.Rate,
			Duration:        l.Duration,
			Purpose:         l.Purpose,
			StartDate:       null.TimeFrom(f.FundedAt),
			TotalAmount:     totalDue.InexactFloat64(),
			MonthlyEMI:      emi.InexactFloat64(),
			RemainingAmount: totalDue.InexactFloat64(),
			NextEMIDate:     null.TimeFrom(f.FundedAt.AddDate(0, 1, 0)),
		}
		return nil
	})
	if errors.Is(err, profile.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("borrower loan details: %w", err)
	}
	return nil
}

func (u *Usecase) BorrowerDashboard(ctx context.Context, uid string) (*BorrowerDashboard, error) {
	b, err := u.profiles.GetBorrowerByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	loans, err := u.loans.ListByBorrower(ctx, uid)
	if err != nil {
		return nil, err
	}

	var st BorrowerStats
	borrowed, repayable, emi, paid := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range loans {
		switch {
		case l.Status.Biddable():
			st.OpenApplications++
		case l.Status == loan.StatusFunded:
			st.ActiveLoans++
			borrowed = borrowed.Add(decimal.NewFromFloat(l.Amount))
			repayable = repayable.Add(loan.TotalRepayable(l.Amount, l.Rate, l.Duration))
			emi = emi.Add(loan.EMI(l.Amount, l.Rate, l.Duration))
		}
	}
	for _, p := range b.Payments {
		if p.Status == profile.PaymentSuccessful {
			paid = paid.Add(decimal.NewFromFloat(p.Amount))
		}
	}
	st.TotalBorrowed = borrowed.Round(2).InexactFloat64()
	st.TotalRepayable = repayable.Round(2).InexactFloat64()
	st.TotalPaid = paid.Round(2).InexactFloat64()
	st.PaidPercent = loan.Percent(paid, repayable).InexactFloat64()
	st.NextEMI = emi.Round(2).InexactFloat64()
	st.NextEMIDate = b.LoanDetails.NextEMIDate

	payments := b.Payments
	if payments == nil {
		payments = []profile.Payment{}
	}
	return &BorrowerDashboard{Profile: b, Loans: loans, Payments: payments, Stats: st}, nil
}

func (u *Usecase) LenderDashboard(ctx context.Context, uid string) (*LenderDashboard, error) {
	l, err := u.profiles.GetLenderByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	bids, err := u.loans.ListBidsByLender(ctx, uid)
	if err != nil {
		return nil, err
	}
	fundings, err := u.fundings.ListByLender(ctx, uid)
	if err != nil {
		return nil, err
	}
	payouts := l.Payouts
	if payouts == nil {
		payouts = []profile.Payout{}
	}
	return &LenderDashboard{Profile: l, Portfolio: l.Portfolio, Payouts: payouts, Bids: bids, Fundings: fundings}, nil
}
