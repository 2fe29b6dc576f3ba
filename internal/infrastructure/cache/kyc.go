package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"credify-backend/internal/domain/kyc"

	"github.com/redis/go-redis/v9"
)

// KYCSessionStore keeps verification sessions as JSON with a sliding TTL.
type KYCSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewKYCSessionStore(rdb *redis.Client, ttl time.Duration) *KYCSessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &KYCSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string { return "kyc:session:" + id }

func (s *KYCSessionStore) Save(ctx context.Context, sess *kyc.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode kyc session: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), b, s.ttl).Err()
}

func (s *KYCSessionStore) Get(ctx context.Context, id string) (*kyc.Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kyc.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess kyc.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decode kyc session: %w", err)
	}
	return &sess, nil
}

// KYCFlagStore records completed verifications per role and email.
type KYCFlagStore struct {
	rdb *redis.Client
}

func NewKYCFlagStore(rdb *redis.Client) *KYCFlagStore { return &KYCFlagStore{rdb: rdb} }

func flagKey(role, email string) string {
	return fmt.Sprintf("kyc:%s:%s", role, strings.ToLower(strings.TrimSpace(email)))
}

func (f *KYCFlagStore) Set(ctx context.Context, role, email string) error {
	return f.rdb.Set(ctx, flagKey(role, email), "true", 0).Err()
}

func (f *KYCFlagStore) Get(ctx context.Context, role, email string) (bool, error) {
	v, err := f.rdb.Get(ctx, flagKey(role, email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}
