package otp

import (
	"context"
	"errors"
	"time"
)

type Purpose string

const (
	PurposeBorrowerLogin Purpose = "borrower-login"
	PurposeLenderLogin   Purpose = "lender-login"
)

// PurposeForRole maps a marketplace role to its login purpose tag.
func PurposeForRole(role string) Purpose {
	if role == "lender" {
		return PurposeLenderLogin
	}
	return PurposeBorrowerLogin
}

var (
	ErrNotFound       = errors.New("otp not found, request a new code")
	ErrExpired        = errors.New("otp expired, request a new code")
	ErrMismatch       = errors.New("invalid otp, try again")
	ErrRateLimited    = errors.New("too many OTP requests, try again later")
	ErrDeliveryFailed = errors.New("failed to send OTP email")
)

type Record struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Email     string    `gorm:"size:255;not null;index:idx_otps_email_purpose" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	Purpose   Purpose   `gorm:"size:32;not null;index:idx_otps_email_purpose" json:"purpose"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (Record) TableName() string { return "otps" }

func (r *Record) Expired(now time.Time) bool { return now.After(r.ExpiresAt) }

type Repository interface {
	Create(ctx context.Context, r *Record) error
	// Latest returns the most recently created code for the pair.
	Latest(ctx context.Context, email string, purpose Purpose) (*Record, error)
	// Consume deletes one record by id and reports whether it was still there.
	Consume(ctx context.Context, id uint64) (bool, error)
	DeleteAll(ctx context.Context, email string, purpose Purpose) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Limiter throttles how often a code can be sent to one address.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	MarkSent(ctx context.Context, key string) error
}

// Sender delivers a code to the user.
type Sender interface {
	SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error
}
