package loan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"credify-backend/internal/domain/funding"
	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/uow"
	"credify-backend/internal/metrics"
	"credify-backend/pkg/logger"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// DefaultAssistantCategory is stored for assistant business loans that name no category.
const DefaultAssistantCategory = "Business"

// FundingRecorder is told about every committed funding.
type FundingRecorder interface {
	RecordFunding(ctx context.Context, l *loan.Loan, f *funding.Funding) error
}

type Usecase struct {
	repo     loan.Repository
	uow      uow.UnitOfWork
	recorder FundingRecorder
	now      func() time.Time
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithFundingRecorder(r FundingRecorder) *Usecase {
	u.recorder = r
	return u
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func invalid(msg string) error { return fmt.Errorf("%w: %s", loan.ErrInvalidInput, msg) }

func (in ApplyInput) build() (*loan.Loan, error) {
	if !finitePositive(in.Amount) {
		return nil, invalid("amount must be a positive number")
	}
	purpose := strings.TrimSpace(in.Purpose)
	if purpose == "" {
		return nil, invalid("purpose is required")
	}
	if !loan.ValidDuration(in.Duration) {
		return nil, invalid("duration must be one of 6, 12, 18 or 24 months")
	}
	if !finitePositive(in.Rate) || in.Rate > 100 {
		return nil, invalid("rate must be a percentage between 0 and 100")
	}

	source := in.Source
	if source == "" {
		source = loan.SourceForm
	}
	status := loan.StatusOpen
	if source == loan.SourceAssistant {
		status = loan.StatusPending
	}

	var category null.String
	if in.IsBusinessLoan {
		c := strings.TrimSpace(in.Category)
		switch {
		case source == loan.SourceAssistant && c == "":
			c = DefaultAssistantCategory
		case source == loan.SourceForm:
			c = strings.ToLower(c)
			if c == "" {
				return nil, invalid("category is required for business loans")
			}
			if !loan.ValidCategory(c) {
				return nil, invalid("unknown business category")
			}
		}
		category = null.StringFrom(c)
	}

	return &loan.Loan{
		BorrowerUID:    in.BorrowerUID,
		Amount:         in.Amount,
		Purpose:        purpose,
		Duration:       in.Duration,
		MaxRate:        in.Rate,
		Rate:           in.Rate,
		IsBusinessLoan: in.IsBusinessLoan,
		Category:       category,
		Status:         status,
		Source:         source,
		Version:        1,
		Bids:           []loan.Bid{},
	}, nil
}

// Apply validates an application and stores it with no bids.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*loan.Loan, error) {
	l, err := in.build()
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	if l.Bids == nil {
		l.Bids = []loan.Bid{}
	}
	metrics.LoansCreated.WithLabelValues(string(l.Source)).Inc()
	logger.Info(ctx, "loan application stored",
		zap.Uint64("loan_id", l.ID), zap.String("source", string(l.Source)), zap.Float64("amount", l.Amount))
	return l, nil
}

func (u *Usecase) List(ctx context.Context, f loan.ListFilter) ([]loan.Loan, error) {
	return u.repo.List(ctx, f)
}

// Marketplace lists the loans lenders can still bid on.
func (u *Usecase) Marketplace(ctx context.Context, f loan.ListFilter) ([]loan.Loan, error) {
	f.Statuses = []loan.Status{loan.StatusOpen, loan.StatusPending}
	return u.repo.List(ctx, f)
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*loan.Loan, error) {
	return u.repo.GetByID(ctx, id)
}

func bidOutcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, loan.ErrBidNotLower):
		return "not_lower"
	case errors.Is(err, loan.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, loan.ErrInvalidBid):
		return "invalid"
	default:
		return "rejected"
	}
}

// PlaceBid lowers the loan's current rate when the bid undercuts it.
// A bid that does not undercut leaves the loan and its bid history untouched.
func (u *Usecase) PlaceBid(ctx context.Context, in PlaceBidInput) (out *loan.Loan, err error) {
	defer func() { metrics.Bids.WithLabelValues(bidOutcome(err)).Inc() }()

	if !finitePositive(in.Rate) {
		return nil, loan.ErrInvalidBid
	}

	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ExpectedVersion != 0 && in.ExpectedVersion != l.Version {
			return loan.ErrVersionConflict
		}
		if !l.Status.Biddable() {
			return loan.ErrNotBiddable
		}
		if in.Rate >= l.Rate {
			return loan.ErrBidNotLower
		}

		b := &loan.Bid{
			LoanID:    l.ID,
			LenderUID: in.LenderUID,
			Rate:      in.Rate,
			Time:      u.now().Format(loan.BidTimeLayout),
		}
		if err := r.Loans.AppendBid(ctx, b); err != nil {
			return err
		}
		l.Rate = in.Rate
		if err := r.Loans.Update(ctx, l, l.Version); err != nil {
			return err
		}
		l.Bids = append(l.Bids, *b)
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "bid accepted",
		zap.Uint64("loan_id", out.ID), zap.Float64("rate", out.Rate), zap.Uint64("version", out.Version))
	return out, nil
}

// Fund records a lender's funding and closes the loan to further bids.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*FundResult, error) {
	var res FundResult

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status == loan.StatusFunded {
			return loan.ErrAlreadyFunded
		}
		if _, err := r.Fundings.GetByLoanID(ctx, l.ID); err == nil {
			return loan.ErrAlreadyFunded
		} else if !errors.Is(err, funding.ErrNotFound) {
			return err
		}

		f := &funding.Funding{
			LoanID:    l.ID,
			LenderUID: in.LenderUID,
			Amount:    l.Amount,
			Rate:      l.Rate,
			FundedAt:  u.now(),
		}
		if in.PaymentID != "" {
			f.PaymentID = null.StringFrom(in.PaymentID)
		}
		if err := r.Fundings.Create(ctx, f); err != nil {
			return err
		}

		l.Status = loan.StatusFunded
		if err := r.Loans.Update(ctx, l, l.Version); err != nil {
			return err
		}
		res = FundResult{Loan: l, Funding: f}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.recorder != nil {
		if err := u.recorder.RecordFunding(ctx, res.Loan, res.Funding); err != nil {
			// funding is already committed
			logger.Warn(ctx, "profile update after funding failed", zap.String("lender_uid", in.LenderUID), zap.Error(err))
		}
	}
	logger.Info(ctx, "loan funded", zap.Uint64("loan_id", res.Loan.ID), zap.String("lender_uid", in.LenderUID))
	return &res, nil
}
