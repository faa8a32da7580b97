package ports

import (
	"context"
	"time"
)

// Cache is the distributed (cross-instance) cache contract. Implementations
// must degrade gracefully: an error return lets callers fall back to the
// process tier or a live fetch, so no error from here should ever surface to
// a request.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}
