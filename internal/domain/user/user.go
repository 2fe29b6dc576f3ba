package user

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
)

func (r Role) Valid() bool { return r == RoleBorrower || r == RoleLender }

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is the credential record that stands in for the hosted identity provider.
type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	UID          string    `gorm:"size:32;not null;uniqueIndex:ux_users_uid" json:"uid"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	DisplayName  string    `gorm:"size:128" json:"display_name"`
	LastLoginAt  time.Time `json:"last_login_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	TouchLogin(ctx context.Context, uid string, at time.Time) error
}
