package mysql

import (
	"context"
	"time"

	otpDomain "credify-backend/internal/domain/otp"

	"gorm.io/gorm"
)

type OTPRepository struct{ db *gorm.DB }

func NewOTPRepository(db *gorm.DB) *OTPRepository { return &OTPRepository{db: db} }

func (r *OTPRepository) Create(ctx context.Context, rec *otpDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *OTPRepository) Latest(ctx context.Context, email string, purpose otpDomain.Purpose) (*otpDomain.Record, error) {
	var out otpDomain.Record
	res := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Order("created_at DESC, id DESC").
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, otpDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *OTPRepository) Consume(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&otpDomain.Record{})
	return res.RowsAffected == 1, res.Error
}

func (r *OTPRepository) DeleteAll(ctx context.Context, email string, purpose otpDomain.Purpose) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Delete(&otpDomain.Record{}).Error
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&otpDomain.Record{})
	return res.RowsAffected, res.Error
}
