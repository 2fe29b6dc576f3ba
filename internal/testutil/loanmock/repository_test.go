package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "credify-backend/internal/domain/loan"
)

func TestRepo_Defaults(t *testing.T) {
	m := &Repo{}
	ctx := context.Background()

	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default: %v", err)
	}
	if _, err := m.GetByID(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByID default: %v", err)
	}
	if _, err := m.GetByIDForUpdate(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByIDForUpdate default: %v", err)
	}
	l := &domain.Loan{Version: 4}
	if err := m.Update(ctx, l, 4); err != nil || l.Version != 5 {
		t.Fatalf("Update default should bump version, got %d %v", l.Version, err)
	}
}

func TestRepo_ForwardsToFuncs(t *testing.T) {
	var gotID uint64
	var gotBid *domain.Bid
	m := &Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Loan, error) {
			gotID = id
			return &domain.Loan{ID: id}, nil
		},
		AppendBidFn: func(ctx context.Context, b *domain.Bid) error {
			gotBid = b
			return nil
		},
	}
	ctx := context.Background()

	if l, err := m.GetByID(ctx, 42); err != nil || l.ID != 42 || gotID != 42 {
		t.Fatalf("GetByID forward failed: %+v %v", l, err)
	}
	b := &domain.Bid{Rate: 9}
	if err := m.AppendBid(ctx, b); err != nil || gotBid != b {
		t.Fatalf("AppendBid forward failed")
	}
}
