package repositories

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRepositoryCountsWithinWindow(t *testing.T) {
	repo := NewRateLimitMemoryRepository()
	ctx := context.Background()

	var last int
	var start time.Time
	for i := 0; i < 5; i++ {
		count, ws, err := repo.IncrementWindow(ctx, "10.0.0.1", time.Minute, "ratelimit:client", 2*time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		last = count
		start = ws
	}
	if last != 5 {
		t.Fatalf("expected count 5, got %d", last)
	}
	if start.IsZero() || !start.Equal(start.Truncate(time.Minute)) {
		t.Fatalf("window start must be aligned to the window: %v", start)
	}
}

func TestMemoryRepositoryIsolatesClients(t *testing.T) {
	repo := NewRateLimitMemoryRepository()
	ctx := context.Background()

	if _, _, err := repo.IncrementWindow(ctx, "10.0.0.1", time.Minute, "p", time.Minute); err != nil {
		t.Fatal(err)
	}
	count, _, err := repo.IncrementWindow(ctx, "10.0.0.2", time.Minute, "p", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("counters must be per-client, got %d", count)
	}
}

func TestMemoryRepositoryExpiresWindows(t *testing.T) {
	repo := NewRateLimitMemoryRepository()
	ctx := context.Background()

	if _, _, err := repo.IncrementWindow(ctx, "c", 10*time.Millisecond, "p", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(25 * time.Millisecond)
	count, _, err := repo.IncrementWindow(ctx, "c", 10*time.Millisecond, "p", 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expired window must reset the counter, got %d", count)
	}
}
