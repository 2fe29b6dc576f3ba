package kycmock

import (
	"context"
	"sync"

	domain "credify-backend/internal/domain/kyc"
)

var (
	_ domain.SessionStore = (*Sessions)(nil)
	_ domain.FlagStore    = (*Flags)(nil)
	_ domain.FaceComparer = (*Comparer)(nil)
	_ domain.FaceDetector = (*Detector)(nil)
)

// Sessions is an in-memory session store.
type Sessions struct {
	mu sync.Mutex
	m  map[string]domain.Session
}

func (s *Sessions) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]domain.Session{}
	}
	s.m[sess.ID] = *sess
	return nil
}

func (s *Sessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

// Flags is an in-memory flag store.
type Flags struct {
	mu     sync.Mutex
	m      map[string]bool
	SetErr error
}

func (f *Flags) Set(_ context.Context, role, email string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.m == nil {
		f.m = map[string]bool{}
	}
	f.m[role+":"+email] = true
	return nil
}

func (f *Flags) Get(_ context.Context, role, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[role+":"+email], nil
}

type Comparer struct {
	Result domain.Comparison
	Err    error
	Calls  int
}

func (c *Comparer) Compare(context.Context, string, string) (domain.Comparison, error) {
	c.Calls++
	return c.Result, c.Err
}

type Detector struct {
	Found bool
	Err   error
	Calls int
}

func (d *Detector) DetectFace(context.Context, string, []byte) (bool, error) {
	d.Calls++
	return d.Found, d.Err
}
