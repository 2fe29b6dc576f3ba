package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"credify-backend/internal/domain/kyc"
	"credify-backend/internal/domain/otp"
	"credify-backend/internal/domain/user"
	"credify-backend/pkg/crypto"
	"credify-backend/pkg/id"
	"credify-backend/pkg/jwt"
	"credify-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid login input")

type OTPService interface {
	Issue(ctx context.Context, email string, purpose otp.Purpose) (time.Time, error)
	Verify(ctx context.Context, email, code string, purpose otp.Purpose) error
}

type ProfileEnsurer interface {
	Ensure(ctx context.Context, role user.Role, uid, email, name string) error
}

type TokenIssuer interface {
	GenerateTokenPair(uid, email, role string) (*jwt.TokenPair, error)
	ValidateRefreshToken(token string) (*jwt.Claims, error)
}

type LoginInput struct {
	Email       string    `validate:"required,email,max=255"`
	Password    string    `validate:"required,min=6,max=128"`
	Role        user.Role `validate:"required,oneof=borrower lender"`
	DisplayName string    `validate:"max=128"`
}

type LoginResult struct {
	Email        string    `json:"email"`
	Role         user.Role `json:"role"`
	NewUser      bool      `json:"new_user"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
}

type Session struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	KycCompleted bool   `json:"kyc_completed"`
	*jwt.TokenPair
}

type Usecase struct {
	users    user.Repository
	profiles ProfileEnsurer
	otps     OTPService
	tokens   TokenIssuer
	flags    kyc.FlagStore
	validate *validator.Validate
	hashCost int
	now      func() time.Time
}

func NewUsecase(users user.Repository, profiles ProfileEnsurer, otps OTPService, tokens TokenIssuer, flags kyc.FlagStore) *Usecase {
	return &Usecase{
		users:    users,
		profiles: profiles,
		otps:     otps,
		tokens:   tokens,
		flags:    flags,
		validate: validator.New(),
		hashCost: crypto.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Login checks the password (registering unknown emails on first use),
// makes sure the role profile exists, then sends a one-time code.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := u.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res := &LoginResult{Email: in.Email, Role: in.Role}
	acct, err := u.users.GetByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		hash, herr := crypto.HashPasswordCost(in.Password, u.hashCost)
		if herr != nil {
			return nil, herr
		}
		acct = &user.User{
			UID:          id.NewID32(),
			Email:        in.Email,
			PasswordHash: hash,
			Role:         in.Role,
			DisplayName:  strings.TrimSpace(in.DisplayName),
		}
		if err := u.users.Create(ctx, acct); err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		res.NewUser = true
		logger.Info(ctx, "account registered", zap.String("uid", acct.UID), zap.String("role", string(in.Role)))
	case err != nil:
		return nil, err
	case !crypto.CheckPassword(in.Password, acct.PasswordHash):
		return nil, user.ErrInvalidCredentials
	}

	if u.profiles != nil {
		if err := u.profiles.Ensure(ctx, in.Role, acct.UID, acct.Email, acct.DisplayName); err != nil {
			return nil, fmt.Errorf("ensure profile: %w", err)
		}
	}

	exp, err := u.otps.Issue(ctx, in.Email, otp.PurposeForRole(string(in.Role)))
	res.OTPExpiresAt = exp
	if err != nil {
		return res, err
	}
	return res, nil
}

// Resend issues a fresh code for a known account.
func (u *Usecase) Resend(ctx context.Context, email string, role user.Role) (time.Time, error) {
	email = normalizeEmail(email)
	if !role.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if _, err := u.users.GetByEmail(ctx, email); err != nil {
		return time.Time{}, err
	}
	return u.otps.Issue(ctx, email, otp.PurposeForRole(string(role)))
}

// VerifyLogin consumes the code and opens a session.
func (u *Usecase) VerifyLogin(ctx context.Context, email, code string, role user.Role) (*Session, error) {
	email = normalizeEmail(email)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if err := u.otps.Verify(ctx, email, code, otp.PurposeForRole(string(role))); err != nil {
		return nil, err
	}
	acct, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := u.users.TouchLogin(ctx, acct.UID, u.now()); err != nil {
		logger.Warn(ctx, "record last login failed", zap.Error(err))
	}

	return u.openSession(ctx, acct, string(role))
}

// Refresh trades a refresh token for a new pair, keeping the role it was
// issued for. Accounts that no longer exist get jwt.ErrInvalidToken.
func (u *Usecase) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := u.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	acct, err := u.users.GetByEmail(ctx, claims.Email)
	if errors.Is(err, user.ErrNotFound) || (err == nil && acct.UID != claims.UID) {
		return nil, jwt.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return u.openSession(ctx, acct, claims.Role)
}

func (u *Usecase) openSession(ctx context.Context, acct *user.User, role string) (*Session, error) {
	pair, err := u.tokens.GenerateTokenPair(acct.UID, acct.Email, role)
	if err != nil {
		return nil, err
	}
	s := &Session{UID: acct.UID, Email: acct.Email, Role: role, TokenPair: pair}
	if u.flags != nil {
		done, err := u.flags.Get(ctx, role, acct.Email)
		if err != nil {
			logger.Warn(ctx, "kyc flag lookup failed", zap.Error(err))
		}
		s.KycCompleted = done
	}
	return s, nil
}
