package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository implements rate limiting counter storage with Redis.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

// IncrementWindow increments a per-client counter for a fixed window.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("%s:%s:%d", keyPrefix, clientKey, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}

// RateLimitMemoryRepository is the single-instance counter storage used when
// Redis is not configured. Expired windows are dropped lazily on increment.
type RateLimitMemoryRepository struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	count     int
	start     time.Time
	expiresAt time.Time
}

func NewRateLimitMemoryRepository() *RateLimitMemoryRepository {
	return &RateLimitMemoryRepository{windows: make(map[string]*memoryWindow)}
}

// IncrementWindow increments a per-client counter for a fixed window.
func (repo *RateLimitMemoryRepository) IncrementWindow(_ context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("%s:%s:%d", keyPrefix, clientKey, windowStart.Unix())

	repo.mu.Lock()
	defer repo.mu.Unlock()

	w, ok := repo.windows[key]
	if !ok || now.After(w.expiresAt) {
		w = &memoryWindow{start: windowStart, expiresAt: now.Add(ttl)}
		repo.windows[key] = w
	}
	w.count++

	// Opportunistic cleanup keeps the map from growing across windows.
	if len(repo.windows) > 1024 {
		for k, old := range repo.windows {
			if now.After(old.expiresAt) {
				delete(repo.windows, k)
			}
		}
	}
	return w.count, w.start, nil
}
