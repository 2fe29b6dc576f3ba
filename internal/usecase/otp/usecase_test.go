package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"credify-backend/internal/domain/otp"
	"credify-backend/internal/testutil/otpmock"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestUC() (*Usecase, *otpmock.Store, *otpmock.Limiter, *otpmock.Sender, *clock) {
	store, lim, snd := &otpmock.Store{}, &otpmock.Limiter{}, &otpmock.Sender{}
	c := &clock{t: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	uc := NewUsecase(store, lim, snd, 0)
	uc.now = c.now
	codes := []string{"111111", "222222", "333333"}
	i := 0
	uc.newCode = func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
	return uc, store, lim, snd, c
}

func TestIssueAndVerify_SingleUse(t *testing.T) {
	uc, store, lim, snd, _ := newTestUC()
	ctx := context.Background()

	exp, err := uc.Issue(ctx, " Asha@Example.com ", otp.PurposeBorrowerLogin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := time.Date(2026, 2, 1, 10, 5, 0, 0, time.UTC); !exp.Equal(want) {
		t.Fatalf("expiry = %v, want %v", exp, want)
	}
	if len(snd.Sent) != 1 || snd.Sent[0] != "asha@example.com" || len(lim.Marks) != 1 {
		t.Fatalf("sent=%v marks=%v", snd.Sent, lim.Marks)
	}

	if err := uc.Verify(ctx, "asha@example.com", "111111", otp.PurposeBorrowerLogin); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("codes left after success: %d", store.Len())
	}
	if err := uc.Verify(ctx, "asha@example.com", "111111", otp.PurposeBorrowerLogin); !errors.Is(err, otp.ErrNotFound) {
		t.Fatalf("second verify: want ErrNotFound, got %v", err)
	}
}

func TestVerify_OnlyLatestCodeCounts(t *testing.T) {
	uc, store, _, _, c := newTestUC()
	ctx := context.Background()

	_, _ = uc.Issue(ctx, "a@example.com", otp.PurposeLenderLogin)
	c.t = c.t.Add(30 * time.Second)
	_, _ = uc.Issue(ctx, "a@example.com", otp.PurposeLenderLogin)
	if store.Len() != 1 {
		t.Fatalf("resend must supersede old codes, have %d", store.Len())
	}

	if err := uc.Verify(ctx, "a@example.com", "111111", otp.PurposeLenderLogin); !errors.Is(err, otp.ErrMismatch) {
		t.Fatalf("old code: want ErrMismatch, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatal("mismatch must keep the code")
	}
	if err := uc.Verify(ctx, "a@example.com", "222222", otp.PurposeBorrowerLogin); !errors.Is(err, otp.ErrNotFound) {
		t.Fatalf("other purpose: want ErrNotFound, got %v", err)
	}
	if err := uc.Verify(ctx, "a@example.com", "222222", otp.PurposeLenderLogin); err != nil {
		t.Fatalf("latest code: %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	uc, store, _, _, c := newTestUC()
	ctx := context.Background()

	_, _ = uc.Issue(ctx, "a@example.com", otp.PurposeBorrowerLogin)
	c.t = c.t.Add(5*time.Minute + time.Second)

	if err := uc.Verify(ctx, "a@example.com", "111111", otp.PurposeBorrowerLogin); !errors.Is(err, otp.ErrExpired) {
		t.Fatalf("want ErrExpired, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("expired codes must be cleared")
	}
}

func TestVerify_AtExpiryBoundaryStillValid(t *testing.T) {
	uc, _, _, _, c := newTestUC()
	ctx := context.Background()

	_, _ = uc.Issue(ctx, "a@example.com", otp.PurposeBorrowerLogin)
	c.t = c.t.Add(5 * time.Minute)
	if err := uc.Verify(ctx, "a@example.com", "111111", otp.PurposeBorrowerLogin); err != nil {
		t.Fatalf("code at exactly 5 minutes should verify: %v", err)
	}
}

func TestIssue_RateLimited(t *testing.T) {
	uc, store, lim, snd, _ := newTestUC()
	lim.Deny = true

	if _, err := uc.Issue(context.Background(), "a@example.com", otp.PurposeBorrowerLogin); !errors.Is(err, otp.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	if store.Len() != 0 || len(snd.Sent) != 0 {
		t.Fatal("nothing should be stored or sent when limited")
	}
}

func TestIssue_LimiterErrorFailsOpen(t *testing.T) {
	uc, store, lim, _, _ := newTestUC()
	lim.Err = errors.New("redis down")

	if _, err := uc.Issue(context.Background(), "a@example.com", otp.PurposeBorrowerLogin); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if store.Len() != 1 {
		t.Fatal("code not stored")
	}
}

func TestIssue_DeliveryFailureKeepsCode(t *testing.T) {
	uc, store, _, snd, _ := newTestUC()
	snd.Err = errors.New("smtp refused")

	if _, err := uc.Issue(context.Background(), "a@example.com", otp.PurposeBorrowerLogin); !errors.Is(err, otp.ErrDeliveryFailed) {
		t.Fatalf("want ErrDeliveryFailed, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatal("code should still be stored")
	}
}

func TestPurgeExpired(t *testing.T) {
	uc, store, _, _, c := newTestUC()
	ctx := context.Background()

	_, _ = uc.Issue(ctx, "old@example.com", otp.PurposeBorrowerLogin)
	c.t = c.t.Add(10 * time.Minute)
	_, _ = uc.Issue(ctx, "new@example.com", otp.PurposeBorrowerLogin)

	n, err := uc.PurgeExpired(ctx)
	if err != nil || n != 1 || store.Len() != 1 {
		t.Fatalf("PurgeExpired = %d, %v, left %d", n, err, store.Len())
	}
}

// racingStore holds every Latest call until all callers have read the same record.
type racingStore struct {
	*otpmock.Store
	reads sync.WaitGroup
}

func (r *racingStore) Latest(ctx context.Context, email string, purpose otp.Purpose) (*otp.Record, error) {
	rec, err := r.Store.Latest(ctx, email, purpose)
	r.reads.Done()
	r.reads.Wait()
	return rec, err
}

func TestVerify_ConcurrentSameCodeAcceptedOnce(t *testing.T) {
	uc, store, _, _, _ := newTestUC()
	ctx := context.Background()
	if _, err := uc.Issue(ctx, "asha@example.com", otp.PurposeBorrowerLogin); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rs := &racingStore{Store: store}
	rs.reads.Add(2)
	uc.repo = rs

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = uc.Verify(ctx, "asha@example.com", "111111", otp.PurposeBorrowerLogin)
		}(i)
	}
	wg.Wait()

	var ok, notFound int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, otp.ErrNotFound):
			notFound++
		}
	}
	if ok != 1 || notFound != 1 {
		t.Fatalf("verify results: %v, %v; want exactly one success", errs[0], errs[1])
	}
}
