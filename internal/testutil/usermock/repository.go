package usermock

import (
	"context"
	"sync"
	"time"

	domain "credify-backend/internal/domain/user"
)

var _ domain.Repository = (*Store)(nil)

// Store is an in-memory user.Repository keyed by email.
type Store struct {
	mu     sync.Mutex
	byMail map[string]domain.User
	Err    error
}

func (s *Store) Create(_ context.Context, u *domain.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byMail == nil {
		s.byMail = map[string]domain.User{}
	}
	s.byMail[u.Email] = *u
	return nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byMail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *Store) TouchLogin(_ context.Context, uid string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, u := range s.byMail {
		if u.UID == uid {
			u.LastLoginAt = at
			s.byMail[k] = u
		}
	}
	return nil
}
