package mysql

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	profileDomain "credify-backend/internal/domain/profile"

	"github.com/volatiletech/null/v8"
)

func TestProfile_BorrowerLifecycle(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	b := &profileDomain.Borrower{UID: "u1", Email: "b@example.com", DisplayName: "Asha"}
	if err := repo.CreateBorrower(ctx, b); err != nil {
		t.Fatalf("CreateBorrower: %v", err)
	}
	if err := repo.CreateBorrower(ctx, &profileDomain.Borrower{UID: "u2", Email: "b@example.com"}); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}

	older := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)
	for _, p := range []*profileDomain.Payment{
		{BorrowerUID: "u1", Date: older, Amount: 444.24, Status: profileDomain.PaymentSuccessful, PaymentID: null.StringFrom("pay_1")},
		{BorrowerUID: "u1", Date: newer, Amount: 444.24, Status: profileDomain.PaymentFailed, FailureReason: null.StringFrom("card declined")},
	} {
		if err := repo.AddPayment(ctx, p); err != nil {
			t.Fatalf("AddPayment: %v", err)
		}
	}

	got, err := repo.GetBorrowerByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetBorrowerByUID: %v", err)
	}
	if len(got.Payments) != 2 || !got.Payments[0].Date.Equal(newer) {
		t.Fatalf("payments = %+v", got.Payments)
	}

	err = repo.UpdateBorrower(ctx, "u1", func(b *profileDomain.Borrower) error {
		b.DisplayName = "Asha K"
		b.LoanDetails.Principal = 5000
		b.LoanDetails.MonthlyEMI = 444.24
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateBorrower: %v", err)
	}
	if err := repo.MarkBorrowerKyc(ctx, "b@example.com"); err != nil {
		t.Fatalf("MarkBorrowerKyc: %v", err)
	}

	again, _ := repo.GetBorrowerByEmail(ctx, "b@example.com")
	if again.DisplayName != "Asha K" || again.LoanDetails.MonthlyEMI != 444.24 || !again.KycCompleted {
		t.Fatalf("borrower not saved: %+v", again)
	}
}

func TestProfile_LenderLifecycle(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	l := &profileDomain.Lender{UID: "l1", Email: "l@example.com"}
	if err := repo.CreateLender(ctx, l); err != nil {
		t.Fatalf("CreateLender: %v", err)
	}
	if err := repo.AddPayout(ctx, &profileDomain.Payout{LenderUID: "l1", Date: time.Now().UTC(), Amount: 120, Status: profileDomain.PayoutSettled}); err != nil {
		t.Fatalf("AddPayout: %v", err)
	}

	err := repo.UpdateLender(ctx, "l1", func(l *profileDomain.Lender) error {
		l.Portfolio.TotalInvestment = 5000
		l.Portfolio.ActiveLoans = 1
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateLender: %v", err)
	}

	got, err := repo.GetLenderByUID(ctx, "l1")
	if err != nil {
		t.Fatalf("GetLenderByUID: %v", err)
	}
	if got.Portfolio.ActiveLoans != 1 || len(got.Payouts) != 1 || got.KycCompleted {
		t.Fatalf("lender = %+v", got)
	}
	if err := repo.MarkLenderKyc(ctx, "l@example.com"); err != nil {
		t.Fatalf("MarkLenderKyc: %v", err)
	}
	byEmail, _ := repo.GetLenderByEmail(ctx, "l@example.com")
	if !byEmail.KycCompleted {
		t.Fatal("kyc flag not stored")
	}
}

func TestProfile_NotFound(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetBorrowerByUID(ctx, "nope"); !errors.Is(err, profileDomain.ErrNotFound) {
		t.Fatalf("borrower: %v", err)
	}
	if _, err := repo.GetLenderByEmail(ctx, "nope"); !errors.Is(err, profileDomain.ErrNotFound) {
		t.Fatalf("lender: %v", err)
	}
	if err := repo.MarkLenderKyc(ctx, "ghost@example.com"); !errors.Is(err, profileDomain.ErrNotFound) {
		t.Fatalf("mark: %v", err)
	}
}

func TestProfile_UpdateKeepsKycFlag(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()
	_ = repo.CreateBorrower(ctx, &profileDomain.Borrower{UID: "u1", Email: "b@example.com"})
	_ = repo.CreateLender(ctx, &profileDomain.Lender{UID: "l1", Email: "l@example.com"})
	if err := repo.MarkBorrowerKyc(ctx, "b@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkLenderKyc(ctx, "l@example.com"); err != nil {
		t.Fatal(err)
	}

	// callers holding a copy read before the kyc flip must not reset it
	err := repo.UpdateBorrower(ctx, "u1", func(b *profileDomain.Borrower) error {
		b.KycCompleted = false
		b.DisplayName = "Asha"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateBorrower: %v", err)
	}
	err = repo.UpdateLender(ctx, "l1", func(l *profileDomain.Lender) error {
		l.KycCompleted = false
		l.DisplayName = "Lee"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateLender: %v", err)
	}

	b, _ := repo.GetBorrowerByUID(ctx, "u1")
	if !b.KycCompleted || b.DisplayName != "Asha" {
		t.Fatalf("borrower = %+v", b)
	}
	l, _ := repo.GetLenderByUID(ctx, "l1")
	if !l.KycCompleted || l.DisplayName != "Lee" {
		t.Fatalf("lender = %+v", l)
	}
}

func TestProfile_ConcurrentPortfolioIncrements(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()
	_ = repo.CreateLender(ctx, &profileDomain.Lender{UID: "l1", Email: "l@example.com"})

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.UpdateLender(ctx, "l1", func(l *profileDomain.Lender) error {
				l.Portfolio.TotalInvestment += 1000
				l.Portfolio.ActiveLoans++
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpdateLender: %v", err)
		}
	}

	got, _ := repo.GetLenderByUID(ctx, "l1")
	if got.Portfolio.TotalInvestment != n*1000 || got.Portfolio.ActiveLoans != n {
		t.Fatalf("portfolio = %+v", got.Portfolio)
	}
}

func TestProfile_UpdateMissingRow(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	called := false
	err := repo.UpdateLender(context.Background(), "ghost", func(*profileDomain.Lender) error {
		called = true
		return nil
	})
	if !errors.Is(err, profileDomain.ErrNotFound) || called {
		t.Fatalf("err = %v, called = %v", err, called)
	}
}
