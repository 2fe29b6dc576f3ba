package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"credify-backend/internal/domain/otp"
	"credify-backend/internal/domain/user"
	"credify-backend/internal/testutil/kycmock"
	"credify-backend/internal/testutil/usermock"
	"credify-backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

type fakeOTP struct {
	issued   []otp.Purpose
	issueErr error
	code     string
}

func (f *fakeOTP) Issue(_ context.Context, _ string, p otp.Purpose) (time.Time, error) {
	f.issued = append(f.issued, p)
	return time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC), f.issueErr
}

func (f *fakeOTP) Verify(_ context.Context, _, code string, _ otp.Purpose) error {
	if code != f.code {
		return otp.ErrMismatch
	}
	return nil
}

type ensureSpy struct {
	calls []user.Role
	err   error
}

func (e *ensureSpy) Ensure(_ context.Context, role user.Role, _, _, _ string) error {
	e.calls = append(e.calls, role)
	return e.err
}

func newTestUC() (*Usecase, *usermock.Store, *fakeOTP, *ensureSpy, *kycmock.Flags) {
	users, otps, prof, flags := &usermock.Store{}, &fakeOTP{code: "123456"}, &ensureSpy{}, &kycmock.Flags{}
	uc := NewUsecase(users, prof, otps, jwt.NewJWTService("secret", time.Minute, time.Hour), flags)
	uc.hashCost = bcrypt.MinCost
	return uc, users, otps, prof, flags
}

func TestLogin_AutoRegistersThenChecksPassword(t *testing.T) {
	uc, users, otps, prof, _ := newTestUC()
	ctx := context.Background()

	res, err := uc.Login(ctx, LoginInput{Email: "Asha@Example.com", Password: "secret1", Role: user.RoleBorrower})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.NewUser || res.Email != "asha@example.com" || res.OTPExpiresAt.IsZero() {
		t.Fatalf("result = %+v", res)
	}
	acct, err := users.GetByEmail(ctx, "asha@example.com")
	if err != nil || len(acct.UID) != 32 || acct.PasswordHash == "secret1" {
		t.Fatalf("account = %+v, %v", acct, err)
	}
	if len(prof.calls) != 1 || otps.issued[0] != otp.PurposeBorrowerLogin {
		t.Fatalf("profile=%v otp=%v", prof.calls, otps.issued)
	}

	res, err = uc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "secret1", Role: user.RoleLender})
	if err != nil || res.NewUser {
		t.Fatalf("second login = %+v, %v", res, err)
	}
	if otps.issued[1] != otp.PurposeLenderLogin {
		t.Fatalf("purpose = %v", otps.issued[1])
	}

	if _, err := uc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "wrong-pass", Role: user.RoleBorrower}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if len(otps.issued) != 2 {
		t.Fatal("no code should be issued on a bad password")
	}
}

func TestLogin_Validation(t *testing.T) {
	uc, _, _, _, _ := newTestUC()
	for _, in := range []LoginInput{
		{Email: "not-an-email", Password: "secret1", Role: user.RoleBorrower},
		{Email: "a@example.com", Password: "123", Role: user.RoleBorrower},
		{Email: "a@example.com", Password: "secret1", Role: "admin"},
	} {
		if _, err := uc.Login(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: want ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestLogin_DeliveryFailureSurfaces(t *testing.T) {
	uc, _, otps, _, _ := newTestUC()
	otps.issueErr = otp.ErrDeliveryFailed

	res, err := uc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "secret1", Role: user.RoleLender})
	if !errors.Is(err, otp.ErrDeliveryFailed) || res == nil {
		t.Fatalf("want ErrDeliveryFailed with result, got %+v %v", res, err)
	}
}

func TestVerifyLogin_IssuesTokens(t *testing.T) {
	uc, _, _, _, flags := newTestUC()
	ctx := context.Background()

	if _, err := uc.Login(ctx, LoginInput{Email: "a@example.com", Password: "secret1", Role: user.RoleLender}); err != nil {
		t.Fatal(err)
	}
	_ = flags.Set(ctx, "lender", "a@example.com")

	if _, err := uc.VerifyLogin(ctx, "a@example.com", "000000", user.RoleLender); !errors.Is(err, otp.ErrMismatch) {
		t.Fatalf("want ErrMismatch, got %v", err)
	}

	s, err := uc.VerifyLogin(ctx, "a@example.com", "123456", user.RoleLender)
	if err != nil {
		t.Fatalf("VerifyLogin: %v", err)
	}
	if s.AccessToken == "" || s.RefreshToken == "" || !s.KycCompleted || s.Role != "lender" {
		t.Fatalf("session = %+v", s)
	}

	claims, err := jwt.NewJWTService("secret", time.Minute, time.Hour).ValidateToken(s.AccessToken)
	if err != nil || claims.UID != s.UID || claims.Email != "a@example.com" || claims.Role != "lender" {
		t.Fatalf("claims = %+v, %v", claims, err)
	}
}

func TestRefresh(t *testing.T) {
	uc, _, _, _, flags := newTestUC()
	ctx := context.Background()
	if _, err := uc.Login(ctx, LoginInput{Email: "a@example.com", Password: "secret1", Role: user.RoleBorrower}); err != nil {
		t.Fatal(err)
	}
	s, err := uc.VerifyLogin(ctx, "a@example.com", "123456", user.RoleBorrower)
	if err != nil {
		t.Fatal(err)
	}
	_ = flags.Set(ctx, "borrower", "a@example.com")

	if _, err := uc.Refresh(ctx, s.AccessToken); !errors.Is(err, jwt.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := uc.Refresh(ctx, "garbage"); !errors.Is(err, jwt.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}

	next, err := uc.Refresh(ctx, s.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.UID != s.UID || next.Role != "borrower" || !next.KycCompleted || next.AccessToken == "" {
		t.Fatalf("session = %+v", next)
	}
	claims, err := jwt.NewJWTService("secret", time.Minute, time.Hour).ValidateAccessToken(next.AccessToken)
	if err != nil || claims.UID != s.UID {
		t.Fatalf("claims = %+v, %v", claims, err)
	}

	other, err := jwt.NewJWTService("secret", time.Minute, time.Hour).GenerateTokenPair("someone-else", "ghost@example.com", "borrower")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Refresh(ctx, other.RefreshToken); !errors.Is(err, jwt.ErrInvalidToken) {
		t.Fatalf("unknown account: %v", err)
	}
}

func TestResend(t *testing.T) {
	uc, _, otps, _, _ := newTestUC()
	ctx := context.Background()

	if _, err := uc.Resend(ctx, "ghost@example.com", user.RoleBorrower); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	_, _ = uc.Login(ctx, LoginInput{Email: "a@example.com", Password: "secret1", Role: user.RoleBorrower})
	if _, err := uc.Resend(ctx, "a@example.com", user.RoleBorrower); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if len(otps.issued) != 2 {
		t.Fatalf("issued = %v", otps.issued)
	}
	if _, err := uc.Resend(ctx, "a@example.com", "root"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}
