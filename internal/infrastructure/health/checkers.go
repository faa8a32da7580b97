package health

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"github.com/randomplay/gameroulette/internal/core/ports"
)

var errEmptyDataset = errors.New("embedded dataset is empty")

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// fallbackHealthChecker reports whether the embedded dataset decoded and is
// large enough to serve requests on its own.
type fallbackHealthChecker struct {
	source ports.FallbackSource
}

func (f *fallbackHealthChecker) Name() string { return "fallback-dataset" }

func (f *fallbackHealthChecker) Check(context.Context) error {
	if len(f.source.Games()) == 0 {
		return errEmptyDataset
	}
	return nil
}

// NewFallbackHealthChecker creates a health checker for the bundled dataset.
func NewFallbackHealthChecker(source ports.FallbackSource) ports.HealthChecker {
	return &fallbackHealthChecker{source: source}
}
