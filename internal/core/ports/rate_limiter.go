package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides low-level atomic operations for rate limiting
// counters, keyed by client (typically the remote IP). It abstracts storage
// so Redis-backed and in-memory implementations can swap; implementations
// must be safe for concurrent use.
type RateLimitRepository interface {
	// IncrementWindow atomically increments the request counter for the
	// client in the current fixed window and ensures the key expires after
	// ttl. Returns the updated count and the window start time.
	IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService is the inbound request limiter. Implementations
// encapsulate algorithm and storage and MUST be safe for concurrent use.
type RateLimiterService interface {
	// Allow consumes one request unit for the client and reports whether it
	// is permitted, along with header-friendly limit state.
	Allow(ctx context.Context, clientKey string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
