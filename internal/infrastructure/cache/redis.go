package cache

import (
	"context"
	"fmt"
	"time"

	"credify-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Open connects to Redis and fails fast when the server does not answer.
func Open(ctx context.Context, addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.Ping(pctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logger.Info(ctx, "redis connected", zap.String("addr", addr), zap.Int("db", db))
	return r, nil
}
