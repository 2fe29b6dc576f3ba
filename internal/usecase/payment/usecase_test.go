package payment

import (
	"context"
	"errors"
	"testing"

	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/profile"
	"credify-backend/internal/domain/user"
	loanuc "credify-backend/internal/usecase/loan"
	profileuc "credify-backend/internal/usecase/profile"
)

type paymentSpy struct {
	uid string
	got []profileuc.PaymentInput
	err error
}

func (s *paymentSpy) AddPayment(ctx context.Context, uid string, in profileuc.PaymentInput) (*profile.Payment, error) {
	s.uid = uid
	s.got = append(s.got, in)
	if s.err != nil {
		return nil, s.err
	}
	return &profile.Payment{BorrowerUID: uid, LoanID: in.LoanID, Amount: in.Amount, Status: in.Status}, nil
}

type funderSpy struct {
	got []loanuc.FundInput
	err error
}

func (f *funderSpy) Fund(ctx context.Context, in loanuc.FundInput) (*loanuc.FundResult, error) {
	f.got = append(f.got, in)
	if f.err != nil {
		return nil, f.err
	}
	return &loanuc.FundResult{Loan: &loan.Loan{ID: in.LoanID, Status: loan.StatusFunded}}, nil
}

func TestConfig(t *testing.T) {
	uc := NewUsecase("rzp_test_key", "", nil, nil)
	cfg, err := uc.Config(444.24)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.AmountMinor != 44424 || cfg.KeyID != "rzp_test_key" || cfg.Currency != "INR" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	for _, bad := range []float64{0, -5} {
		if _, err := uc.Config(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("amount %v: want ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestConfirm_EMIWithValidSignature(t *testing.T) {
	spy := &paymentSpy{}
	uc := NewUsecase("k", "secret", spy, &funderSpy{})

	res, err := uc.Confirm(context.Background(), ConfirmInput{
		UID: "b1", Role: user.RoleBorrower, Purpose: PurposeEMI, LoanID: 7, Amount: 444.24,
		PaymentID: "pay_1", OrderID: "order_1", Signature: Signature("secret", "order_1", "pay_1"),
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.Status != "Successful" || res.Payment == nil || spy.uid != "b1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if in := spy.got[0]; in.Status != profile.PaymentSuccessful || in.PaymentID != "pay_1" || in.LoanID != 7 {
		t.Fatalf("unexpected payment input %+v", in)
	}
}

func TestConfirm_BadSignature(t *testing.T) {
	spy := &paymentSpy{}
	uc := NewUsecase("k", "secret", spy, nil)
	_, err := uc.Confirm(context.Background(), ConfirmInput{
		UID: "b1", Role: user.RoleBorrower, Purpose: PurposeEMI, LoanID: 7, Amount: 10,
		PaymentID: "pay_1", OrderID: "order_1", Signature: "deadbeef",
	})
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("want ErrInvalidSignature, got %v", err)
	}
	if len(spy.got) != 0 {
		t.Fatal("nothing should be recorded")
	}
}

func TestConfirm_NoSecretSkipsSignature(t *testing.T) {
	spy := &paymentSpy{}
	uc := NewUsecase("k", "", spy, nil)
	if _, err := uc.Confirm(context.Background(), ConfirmInput{
		UID: "b1", Role: user.RoleBorrower, Purpose: PurposeEMI, LoanID: 7, Amount: 10,
		PaymentID: "pay_1", OrderID: "order_1", Signature: "anything",
	}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
}

func TestConfirm_FailedEMIRecorded(t *testing.T) {
	spy := &paymentSpy{}
	uc := NewUsecase("k", "secret", spy, nil)
	res, err := uc.Confirm(context.Background(), ConfirmInput{
		UID: "b1", Role: user.RoleBorrower, Purpose: PurposeEMI, LoanID: 7, Amount: 10,
		Failed: true, FailureReason: "card declined",
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.Status != "Failed" || spy.got[0].FailureReason != "card declined" {
		t.Fatalf("unexpected %+v / %+v", res, spy.got)
	}
}

func TestConfirm_Funding(t *testing.T) {
	f := &funderSpy{}
	uc := NewUsecase("k", "", nil, f)

	res, err := uc.Confirm(context.Background(), ConfirmInput{
		UID: "l1", Role: user.RoleLender, Purpose: PurposeFunding, LoanID: 3, PaymentID: "pay_9",
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.Funding == nil || f.got[0].LenderUID != "l1" || f.got[0].PaymentID != "pay_9" {
		t.Fatalf("unexpected %+v / %+v", res, f.got)
	}

	f.err = loan.ErrAlreadyFunded
	if _, err := uc.Confirm(context.Background(), ConfirmInput{
		UID: "l1", Role: user.RoleLender, Purpose: PurposeFunding, LoanID: 3, PaymentID: "pay_9",
	}); !errors.Is(err, loan.ErrAlreadyFunded) {
		t.Fatalf("want ErrAlreadyFunded, got %v", err)
	}

	f.got = nil
	res, err = uc.Confirm(context.Background(), ConfirmInput{
		UID: "l1", Role: user.RoleLender, Purpose: PurposeFunding, LoanID: 3, Failed: true,
	})
	if err != nil || res.Status != "Failed" || len(f.got) != 0 {
		t.Fatalf("failed funding payment must not fund: %+v %v", res, err)
	}
}

func TestConfirm_Rejections(t *testing.T) {
	uc := NewUsecase("k", "", &paymentSpy{}, &funderSpy{})
	cases := []struct {
		name string
		in   ConfirmInput
		want error
	}{
		{"lender paying emi", ConfirmInput{Role: user.RoleLender, Purpose: PurposeEMI, LoanID: 1, PaymentID: "p"}, ErrWrongRole},
		{"borrower funding", ConfirmInput{Role: user.RoleBorrower, Purpose: PurposeFunding, LoanID: 1, PaymentID: "p"}, ErrWrongRole},
		{"unknown purpose", ConfirmInput{Role: user.RoleBorrower, Purpose: "tip", LoanID: 1}, ErrInvalidInput},
		{"missing loan", ConfirmInput{Role: user.RoleBorrower, Purpose: PurposeEMI, PaymentID: "p"}, ErrInvalidInput},
		{"missing payment id", ConfirmInput{Role: user.RoleBorrower, Purpose: PurposeEMI, LoanID: 1}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Confirm(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}
