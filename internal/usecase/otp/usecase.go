package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"credify-backend/internal/domain/otp"
	"credify-backend/internal/metrics"
	"credify-backend/pkg/id"
	"credify-backend/pkg/logger"

	"go.uber.org/zap"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

const codeLength = 6

type Usecase struct {
	repo    otp.Repository
	limiter otp.Limiter
	sender  otp.Sender
	ttl     time.Duration
	now     func() time.Time
	newCode func() string
}

func NewUsecase(repo otp.Repository, limiter otp.Limiter, sender otp.Sender, ttl time.Duration) *Usecase {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Usecase{
		repo:    repo,
		limiter: limiter,
		sender:  sender,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
		newCode: func() string { return id.NewNumericCode(codeLength) },
	}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Issue replaces any outstanding code for (email, purpose) with a fresh one
// and delivers it. The new code is stored even when delivery fails.
func (u *Usecase) Issue(ctx context.Context, email string, purpose otp.Purpose) (time.Time, error) {
	email = normalizeEmail(email)
	limitKey := string(purpose) + ":" + email

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, limitKey)
		if err != nil {
			logger.Warn(ctx, "otp limiter unavailable", zap.Error(err))
		} else if !ok {
			return time.Time{}, otp.ErrRateLimited
		}
	}

	if err := u.repo.DeleteAll(ctx, email, purpose); err != nil {
		return time.Time{}, fmt.Errorf("clear otps: %w", err)
	}
	now := u.now()
	rec := &otp.Record{
		Email:     email,
		Code:      u.newCode(),
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(u.ttl),
	}
	if err := u.repo.Create(ctx, rec); err != nil {
		return time.Time{}, fmt.Errorf("store otp: %w", err)
	}
	if u.limiter != nil {
		if err := u.limiter.MarkSent(ctx, limitKey); err != nil {
			logger.Warn(ctx, "otp limiter mark failed", zap.Error(err))
		}
	}
	metrics.OTPIssued.WithLabelValues(string(purpose)).Inc()

	if u.sender != nil {
		if err := u.sender.SendOTP(ctx, email, rec.Code, rec.ExpiresAt); err != nil {
			logger.Error(ctx, "otp delivery failed", zap.String("purpose", string(purpose)), zap.Error(err))
			return rec.ExpiresAt, fmt.Errorf("%w: %v", otp.ErrDeliveryFailed, err)
		}
	}
	return rec.ExpiresAt, nil
}

// Verify checks code against the most recent record for (email, purpose).
// Success and expiry both consume every outstanding code for the pair.
func (u *Usecase) Verify(ctx context.Context, email, code string, purpose otp.Purpose) (err error) {
	defer func() { metrics.OTPVerifications.WithLabelValues(verifyOutcome(err)).Inc() }()

	email = normalizeEmail(email)
	rec, err := u.repo.Latest(ctx, email, purpose)
	if err != nil {
		return err
	}
	if rec.Expired(u.now()) {
		if err := u.repo.DeleteAll(ctx, email, purpose); err != nil {
			logger.Warn(ctx, "clear expired otps failed", zap.Error(err))
		}
		return otp.ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(strings.TrimSpace(code))) != 1 {
		return otp.ErrMismatch
	}
	// only the request that deletes the record may use it
	ok, err := u.repo.Consume(ctx, rec.ID)
	if err != nil {
		return err
	}
	if !ok {
		return otp.ErrNotFound
	}
	if err := u.repo.DeleteAll(ctx, email, purpose); err != nil {
		logger.Warn(ctx, "clear consumed otps failed", zap.Error(err))
	}
	return nil
}

func verifyOutcome(err error) string {
	switch {
	case err == nil:
		return "verified"
	case errors.Is(err, otp.ErrExpired):
		return "expired"
	case errors.Is(err, otp.ErrMismatch):
		return "mismatch"
	case errors.Is(err, otp.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (u *Usecase) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := u.repo.DeleteExpired(ctx, u.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info(ctx, "expired otps purged", zap.Int64("count", n))
	}
	return n, nil
}
