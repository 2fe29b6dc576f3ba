package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpCooldown  = 60 * time.Second
	otpHourlyCap = 10
)

// OTPLimiter allows one code per minute and ten per hour for each key.
type OTPLimiter struct {
	rdb      *redis.Client
	cooldown time.Duration
	hourly   int
}

func NewOTPLimiter(rdb *redis.Client) *OTPLimiter {
	return &OTPLimiter{rdb: rdb, cooldown: otpCooldown, hourly: otpHourlyCap}
}

func minuteKey(key string) string { return fmt.Sprintf("otp_minute_%s", key) }
func hourKey(key string) string   { return fmt.Sprintf("otp_hour_%s", key) }

func (l *OTPLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Exists(ctx, minuteKey(key)).Result()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	cnt, err := l.rdb.Get(ctx, hourKey(key)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return cnt < l.hourly, nil
}

func (l *OTPLimiter) MarkSent(ctx context.Context, key string) error {
	hk := hourKey(key)
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, minuteKey(key), 1, l.cooldown)
		p.Incr(ctx, hk)
		p.Expire(ctx, hk, time.Hour)
		return nil
	})
	return err
}
