package memory

import (
	"context"
	"testing"
	"time"

	"iqscalar-assessment-service/internal/domain"
)

func TestAttemptStoreTakeConsumes(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore(time.Hour)

	if err := store.Save(ctx, domain.Attempt{ID: "a1", UserID: "u1", Mode: domain.ModeTest}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one pending attempt")
	}

	attempt, err := store.Take(ctx, "a1")
	if err != nil || attempt.UserID != "u1" {
		t.Fatalf("take: %+v %v", attempt, err)
	}
	if _, err := store.Take(ctx, "a1"); err != domain.ErrAttemptNotFound {
		t.Fatalf("expected second take to fail, got %v", err)
	}
}

func TestAttemptStoreExpiresUnsubmittedAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore(time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	_ = store.Save(ctx, domain.Attempt{ID: "stale", UserID: "u1"})
	now = now.Add(30 * time.Second)
	_ = store.Save(ctx, domain.Attempt{ID: "fresh", UserID: "u1"})

	now = now.Add(45 * time.Second)
	if _, err := store.Take(ctx, "stale"); err != domain.ErrAttemptNotFound {
		t.Fatalf("expected expired attempt to be gone, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected only the fresh attempt pending, got %d", store.Len())
	}
	if _, err := store.Take(ctx, "fresh"); err != nil {
		t.Fatalf("take fresh: %v", err)
	}
}

func TestAttemptStoreWithoutTTLKeepsAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore(0)
	now := time.Now()
	store.clock = func() time.Time { return now }

	_ = store.Save(ctx, domain.Attempt{ID: "a1"})
	now = now.Add(48 * time.Hour)
	if _, err := store.Take(ctx, "a1"); err != nil {
		t.Fatalf("expected attempt kept without ttl, got %v", err)
	}
}
