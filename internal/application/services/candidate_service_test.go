package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	impl "github.com/randomplay/gameroulette/internal/application/services"
	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/ports"
)

type catalogMock struct {
	SearchFn     func(ctx context.Context, q ports.CatalogQuery) ([]game.Game, int, error)
	StoreLinksFn func(ctx context.Context, gameID int) ([]game.StoreRef, error)
}

func (m *catalogMock) Search(ctx context.Context, q ports.CatalogQuery) ([]game.Game, int, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, q)
	}
	return nil, 0, ports.ErrUnavailable
}

func (m *catalogMock) StoreLinks(ctx context.Context, gameID int) ([]game.StoreRef, error) {
	if m.StoreLinksFn != nil {
		return m.StoreLinksFn(ctx, gameID)
	}
	return nil, nil
}

type fallbackMock struct{ games []game.Game }

func (m *fallbackMock) Games() []game.Game {
	out := make([]game.Game, len(m.games))
	copy(out, m.games)
	return out
}

type entryCacheMock struct {
	mu      sync.Mutex
	entries map[string]*ports.CacheEntry
}

func newEntryCacheMock() *entryCacheMock {
	return &entryCacheMock{entries: make(map[string]*ports.CacheEntry)}
}

func (m *entryCacheMock) Get(key string) (*ports.CacheEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok
}

func (m *entryCacheMock) Add(key string, entry *ports.CacheEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
}

type distCacheMock struct {
	GetFn func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *distCacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, false, nil
}

func (m *distCacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *distCacheMock) Delete(ctx context.Context, key string) error { return nil }

func someGames(ids ...int) []game.Game {
	out := make([]game.Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, game.Game{ID: id, Name: "game", Rating: 4})
	}
	return out
}

func TestCandidatesFallbackSubstitutionOnMissingCredentials(t *testing.T) {
	catalog := &catalogMock{SearchFn: func(context.Context, ports.CatalogQuery) ([]game.Game, int, error) {
		return nil, 0, ports.ErrConfigMissing
	}}
	svc := impl.NewCandidateService(catalog, &fallbackMock{games: someGames(1, 2, 3)}, newEntryCacheMock(), nil, nil, nil)

	pool, err := svc.Candidates(context.Background(), filter.Spec{})
	if err != nil {
		t.Fatalf("catalog errors must not surface: %v", err)
	}
	if !pool.FallbackUsed {
		t.Fatal("fallback flag must be set on full substitution")
	}
	if len(pool.Games) != 3 {
		t.Fatalf("expected the full fallback dataset, got %d games", len(pool.Games))
	}
	if pool.CacheStatus != ports.CacheMiss {
		t.Fatalf("first lookup should be a miss, got %s", pool.CacheStatus)
	}

	// Populated entry serves the second lookup from the process tier.
	pool2, err := svc.Candidates(context.Background(), filter.Spec{})
	if err != nil {
		t.Fatal(err)
	}
	if pool2.CacheStatus != ports.CacheHit {
		t.Fatalf("second lookup should hit, got %s", pool2.CacheStatus)
	}
}

func TestCandidatesSupplementsThinLiveResults(t *testing.T) {
	catalog := &catalogMock{SearchFn: func(context.Context, ports.CatalogQuery) ([]game.Game, int, error) {
		return someGames(1, 2), 2, nil
	}}
	cfg := &impl.CandidateConfig{MinLiveResults: 10}
	svc := impl.NewCandidateService(catalog, &fallbackMock{games: someGames(2, 50, 51)}, newEntryCacheMock(), nil, cfg, nil)

	pool, err := svc.Candidates(context.Background(), filter.Spec{})
	if err != nil {
		t.Fatal(err)
	}
	if !pool.FallbackUsed {
		t.Fatal("supplemented entries must carry the fallback flag")
	}
	// 2 live + 2 fallback (id 2 deduplicated)
	if len(pool.Games) != 4 {
		t.Fatalf("expected 4 deduplicated games, got %d", len(pool.Games))
	}
	if pool.Games[0].ID != 1 || pool.Games[1].ID != 2 {
		t.Fatal("live results must come before fallback records")
	}
}

func TestCandidatesStoreFilterRetry(t *testing.T) {
	var queries []ports.CatalogQuery
	catalog := &catalogMock{SearchFn: func(_ context.Context, q ports.CatalogQuery) ([]game.Game, int, error) {
		queries = append(queries, q)
		if len(q.Stores) > 0 {
			return nil, 0, nil
		}
		return someGames(7, 8), 2, nil
	}}
	process := newEntryCacheMock()
	cfg := &impl.CandidateConfig{MinLiveResults: 1}
	svc := impl.NewCandidateService(catalog, &fallbackMock{}, process, nil, cfg, nil)

	spec := filter.Spec{Stores: []string{"Nonexistent Store"}}
	pool, err := svc.Candidates(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if !pool.StoreFilterInactive {
		t.Fatal("dropped store filter must be reported to the pipeline")
	}
	if len(pool.Games) != 2 {
		t.Fatalf("relaxed retry should return the storeless results, got %d", len(pool.Games))
	}
	if len(queries) != 2 || len(queries[1].Stores) != 0 {
		t.Fatalf("expected a second query without stores, got %+v", queries)
	}

	// The relaxed result is cached under its own key too.
	if _, ok := process.Get(spec.WithoutStores().CacheKey()); !ok {
		t.Fatal("relaxed entry must be cached under the storeless key")
	}
}

func TestCandidatesCoalescesConcurrentFetches(t *testing.T) {
	var calls int32
	gate := make(chan struct{})
	catalog := &catalogMock{SearchFn: func(context.Context, ports.CatalogQuery) ([]game.Game, int, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return someGames(1), 1, nil
	}}
	cfg := &impl.CandidateConfig{MinLiveResults: 1}
	svc := impl.NewCandidateService(catalog, &fallbackMock{}, newEntryCacheMock(), nil, cfg, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Candidates(context.Background(), filter.Spec{}); err != nil {
				t.Error(err)
			}
		}()
	}
	// Let the goroutines pile onto the in-flight fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("concurrent lookups must share one fetch, got %d", got)
	}
}

func TestCandidatesSwallowsDistributedFailures(t *testing.T) {
	catalog := &catalogMock{SearchFn: func(context.Context, ports.CatalogQuery) ([]game.Game, int, error) {
		return someGames(1), 1, nil
	}}
	dist := &distCacheMock{
		GetFn: func(context.Context, string) ([]byte, bool, error) { return nil, false, errors.New("redis down") },
		SetFn: func(context.Context, string, []byte, time.Duration) error { return errors.New("redis down") },
	}
	cfg := &impl.CandidateConfig{MinLiveResults: 1}
	svc := impl.NewCandidateService(catalog, &fallbackMock{}, newEntryCacheMock(), dist, cfg, nil)

	pool, err := svc.Candidates(context.Background(), filter.Spec{})
	if err != nil {
		t.Fatalf("distributed tier failures must not surface: %v", err)
	}
	if len(pool.Games) != 1 {
		t.Fatalf("expected the live result, got %d games", len(pool.Games))
	}
}

func TestCandidatesDistributedHitWarmsProcessTier(t *testing.T) {
	entry := &ports.CacheEntry{Games: someGames(9), CreatedAt: time.Now()}
	b, _ := json.Marshal(entry)
	dist := &distCacheMock{GetFn: func(context.Context, string) ([]byte, bool, error) { return b, true, nil }}
	process := newEntryCacheMock()
	svc := impl.NewCandidateService(&catalogMock{}, &fallbackMock{}, process, dist, nil, nil)

	pool, err := svc.Candidates(context.Background(), filter.Spec{})
	if err != nil {
		t.Fatal(err)
	}
	if pool.CacheStatus != ports.CacheDistributedHit {
		t.Fatalf("expected distributed-hit, got %s", pool.CacheStatus)
	}
	if _, ok := process.Get(filter.Spec{}.CacheKey()); !ok {
		t.Fatal("distributed hits must warm the process tier")
	}
}

func TestCandidatesServesStaleWhileRevalidating(t *testing.T) {
	refreshed := make(chan struct{}, 1)
	catalog := &catalogMock{SearchFn: func(context.Context, ports.CatalogQuery) ([]game.Game, int, error) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
		return someGames(2), 1, nil
	}}
	process := newEntryCacheMock()
	spec := filter.Spec{}
	process.Add(spec.CacheKey(), &ports.CacheEntry{
		Games:     someGames(1),
		CreatedAt: time.Now().Add(-time.Hour),
	})
	cfg := &impl.CandidateConfig{TTL: time.Minute, MinLiveResults: 1}
	svc := impl.NewCandidateService(catalog, &fallbackMock{}, process, nil, cfg, nil)

	pool, err := svc.Candidates(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if pool.CacheStatus != ports.CacheStale {
		t.Fatalf("aged entry should be served stale, got %s", pool.CacheStatus)
	}
	if pool.Games[0].ID != 1 {
		t.Fatal("the caller must get the stale entry, not the refresh")
	}

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("stale hit must trigger a background refresh")
	}
}
