package otpmock

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "credify-backend/internal/domain/otp"
)

var (
	_ domain.Repository = (*Store)(nil)
	_ domain.Limiter    = (*Limiter)(nil)
	_ domain.Sender     = (*Sender)(nil)
)

// Store is an in-memory otp.Repository.
type Store struct {
	mu      sync.Mutex
	records []domain.Record
	nextID  uint64
}

func (s *Store) Create(_ context.Context, r *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.records = append(s.records, *r)
	return nil
}

func (s *Store) Latest(_ context.Context, email string, purpose domain.Purpose) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var match []domain.Record
	for _, r := range s.records {
		if r.Email == email && r.Purpose == purpose {
			match = append(match, r)
		}
	}
	if len(match) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.SliceStable(match, func(i, j int) bool {
		if match[i].CreatedAt.Equal(match[j].CreatedAt) {
			return match[i].ID > match[j].ID
		}
		return match[i].CreatedAt.After(match[j].CreatedAt)
	})
	out := match[0]
	return &out, nil
}

func (s *Store) Consume(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteAll(_ context.Context, email string, purpose domain.Purpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Email != email || r.Purpose != purpose {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var n int64
	for _, r := range s.records {
		if r.ExpiresAt.Before(now) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return n, nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Limiter allows everything unless Deny is set.
type Limiter struct {
	Deny  bool
	Err   error
	Marks []string
}

func (l *Limiter) Allow(context.Context, string) (bool, error) {
	if l.Err != nil {
		return false, l.Err
	}
	return !l.Deny, nil
}

func (l *Limiter) MarkSent(_ context.Context, key string) error {
	l.Marks = append(l.Marks, key)
	return nil
}

// Sender records deliveries.
type Sender struct {
	Err   error
	Sent  []string
	Codes []string
}

func (s *Sender) SendOTP(_ context.Context, email, code string, _ time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, email)
	s.Codes = append(s.Codes, code)
	return nil
}
