package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	impl "github.com/randomplay/gameroulette/internal/application/services"
)

type rateLimitRepoMock struct {
	IncrementWindowFn func(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *rateLimitRepoMock) IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	return m.IncrementWindowFn(ctx, clientKey, window, keyPrefix, ttl)
}

func TestAllowUnderLimit(t *testing.T) {
	repo := &rateLimitRepoMock{IncrementWindowFn: func(_ context.Context, _ string, window time.Duration, _ string, _ time.Duration) (int, time.Time, error) {
		return 5, time.Now().Truncate(window), nil
	}}
	svc := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{RequestsPerMinute: 30}, nil)

	allowed, remaining, limit, _, err := svc.Allow(context.Background(), "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed || limit != 30 || remaining != 25 {
		t.Fatalf("unexpected state: allowed=%t remaining=%d limit=%d", allowed, remaining, limit)
	}
}

func TestAllowRejectsOverBurst(t *testing.T) {
	repo := &rateLimitRepoMock{IncrementWindowFn: func(_ context.Context, _ string, window time.Duration, _ string, _ time.Duration) (int, time.Time, error) {
		return 31, time.Now().Truncate(window), nil
	}}
	svc := impl.NewRateLimiterService(repo, &impl.RateLimiterConfig{RequestsPerMinute: 30, BurstMultiplier: 1.0}, nil)

	allowed, remaining, _, reset, err := svc.Allow(context.Background(), "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if allowed || remaining != 0 {
		t.Fatalf("request over the burst ceiling must be rejected: allowed=%t remaining=%d", allowed, remaining)
	}
	if !reset.After(time.Now().Add(-time.Minute)) {
		t.Fatalf("reset should point at the next window: %v", reset)
	}
}

func TestAllowFailsOpenOnStorageError(t *testing.T) {
	repo := &rateLimitRepoMock{IncrementWindowFn: func(context.Context, string, time.Duration, string, time.Duration) (int, time.Time, error) {
		return 0, time.Now(), errors.New("storage down")
	}}
	svc := impl.NewRateLimiterService(repo, nil, nil)

	allowed, _, _, _, err := svc.Allow(context.Background(), "10.0.0.1")
	if !allowed {
		t.Fatal("storage failures must fail open")
	}
	if err == nil {
		t.Fatal("the storage error should still be reported to the caller")
	}
}
