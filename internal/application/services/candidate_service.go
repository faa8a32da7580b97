package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/ports"
)

// CandidateConfig groups the cache-layer tunables.
type CandidateConfig struct {
	TTL            time.Duration
	DistributedTTL time.Duration
	// MinLiveResults is the live-result count under which the fallback
	// dataset supplements the pool.
	MinLiveResults int
}

// CandidateService is the multi-tier candidate cache: process LRU, optional
// distributed cache, then a coalesced upstream fetch with fallback handling
// and the relaxed store-filter retry.
type CandidateService struct {
	catalog     ports.CatalogClient
	fallback    ports.FallbackSource
	process     ports.EntryCache
	distributed ports.Cache // nil when not configured
	ttl         time.Duration
	distTTL     time.Duration
	minLive     int
	logger      *logrus.Logger

	// coalesces concurrent fetches per cache key
	flights singleflight.Group
}

func NewCandidateService(catalog ports.CatalogClient, fallback ports.FallbackSource, process ports.EntryCache, distributed ports.Cache, cfg *CandidateConfig, logger *logrus.Logger) *CandidateService {
	ttl := 15 * time.Minute
	distTTL := 15 * time.Minute
	minLive := 10
	if cfg != nil {
		if cfg.TTL > 0 {
			ttl = cfg.TTL
		}
		if cfg.DistributedTTL > 0 {
			distTTL = cfg.DistributedTTL
		}
		if cfg.MinLiveResults > 0 {
			minLive = cfg.MinLiveResults
		}
	}
	return &CandidateService{
		catalog:     catalog,
		fallback:    fallback,
		process:     process,
		distributed: distributed,
		ttl:         ttl,
		distTTL:     distTTL,
		minLive:     minLive,
		logger:      logger,
	}
}

// Candidates returns the candidate pool for the spec, consulting the process
// tier, then the distributed tier, then fetching. A stale process entry is
// served immediately while a background refresh runs.
func (s *CandidateService) Candidates(ctx context.Context, spec filter.Spec) (*ports.CandidatePool, error) {
	spec = spec.Normalized()
	key := spec.CacheKey()

	if entry, ok := s.process.Get(key); ok {
		if time.Since(entry.CreatedAt) <= s.ttl {
			return poolFromEntry(entry, ports.CacheHit), nil
		}
		s.revalidate(key, spec)
		return poolFromEntry(entry, ports.CacheStale), nil
	}

	if entry := s.distributedGet(ctx, key); entry != nil {
		s.process.Add(key, entry)
		return poolFromEntry(entry, ports.CacheDistributedHit), nil
	}

	entry, err := s.populate(ctx, key, spec)
	if err != nil {
		return nil, err
	}
	return poolFromEntry(entry, ports.CacheMiss), nil
}

// populate runs the coalesced fetch-and-store for key. Concurrent callers for
// the same key share one upstream fetch; the flight is forgotten once settled
// so a failed key can be retried.
func (s *CandidateService) populate(ctx context.Context, key string, spec filter.Spec) (*ports.CacheEntry, error) {
	res, err, _ := s.flights.Do(key, func() (any, error) {
		defer s.flights.Forget(key)

		// A racing caller may have populated the caches while this flight
		// queued.
		if entry, ok := s.process.Get(key); ok && time.Since(entry.CreatedAt) <= s.ttl {
			return entry, nil
		}

		entry, err := s.fetch(ctx, spec)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, entry)
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	entry, ok := res.(*ports.CacheEntry)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return entry, nil
}

// fetch builds a cache entry from the live catalog with fallback handling. A
// zero-result live fetch under an active store filter is retried once without
// the store constraint; that relaxed entry is cached under its own key too.
func (s *CandidateService) fetch(ctx context.Context, spec filter.Spec) (*ports.CacheEntry, error) {
	live, _, err := s.catalog.Search(ctx, catalogQuery(spec))
	if err != nil {
		return s.substitute(err), nil
	}

	if len(live) == 0 && spec.HasStoreFilter() {
		return s.retryWithoutStores(ctx, spec)
	}

	entry := &ports.CacheEntry{Games: live, CreatedAt: time.Now()}
	if len(live) < s.minLive {
		entry.Games = appendFallback(live, s.fallback.Games())
		entry.FallbackUsed = true
		s.log().WithFields(logrus.Fields{"live": len(live), "threshold": s.minLive}).Info("supplementing thin live results with fallback dataset")
	}
	return entry, nil
}

// substitute builds a full-fallback entry after a catalog failure. No catalog
// error escapes the cache layer; the bundled dataset always answers.
func (s *CandidateService) substitute(cause error) *ports.CacheEntry {
	switch {
	case errors.Is(cause, ports.ErrConfigMissing):
		s.log().Debug("catalog credentials missing; serving fallback dataset")
	case errors.Is(cause, ports.ErrUnauthorized):
		s.log().Warn("catalog rejected credentials; serving fallback dataset")
	default:
		s.log().WithError(cause).Warn("catalog unavailable; serving fallback dataset")
	}
	return &ports.CacheEntry{
		Games:        s.fallback.Games(),
		FallbackUsed: true,
		CreatedAt:    time.Now(),
	}
}

// retryWithoutStores re-fetches with the store constraint removed and caches
// the result under the relaxed key as well, so a direct request for the
// relaxed spec hits warm.
func (s *CandidateService) retryWithoutStores(ctx context.Context, spec filter.Spec) (*ports.CacheEntry, error) {
	relaxed := spec.WithoutStores()
	s.log().WithField("stores", spec.Stores).Info("store filter yielded no live results; retrying without it")

	live, _, err := s.catalog.Search(ctx, catalogQuery(relaxed))
	if err != nil {
		entry := s.substitute(err)
		entry.StoreFilterDropped = true
		return entry, nil
	}

	entry := &ports.CacheEntry{Games: live, StoreFilterDropped: true, CreatedAt: time.Now()}
	if len(live) < s.minLive {
		entry.Games = appendFallback(live, s.fallback.Games())
		entry.FallbackUsed = true
	}
	s.store(ctx, relaxed.CacheKey(), entry)
	return entry, nil
}

// store writes both tiers. Distributed failures are logged and swallowed; the
// process tier alone keeps the entry servable.
func (s *CandidateService) store(ctx context.Context, key string, entry *ports.CacheEntry) {
	s.process.Add(key, entry)
	if s.distributed == nil {
		return
	}
	b, err := json.Marshal(entry)
	if err != nil {
		s.log().WithError(err).Error("encoding cache entry for distributed tier")
		return
	}
	if err := s.distributed.Set(ctx, key, b, s.distTTL); err != nil {
		s.log().WithError(err).WithField("key", key).Warn("distributed cache write failed")
	}
}

func (s *CandidateService) distributedGet(ctx context.Context, key string) *ports.CacheEntry {
	if s.distributed == nil {
		return nil
	}
	b, ok, err := s.distributed.Get(ctx, key)
	if err != nil {
		s.log().WithError(err).WithField("key", key).Warn("distributed cache read failed")
		return nil
	}
	if !ok {
		return nil
	}
	var entry ports.CacheEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		s.log().WithError(err).WithField("key", key).Warn("discarding undecodable distributed cache entry")
		return nil
	}
	return &entry
}

// revalidate refreshes a stale key in the background. Fire-and-forget: a
// refresh failure is logged and the stale entry stays servable until the next
// attempt.
func (s *CandidateService) revalidate(key string, spec filter.Spec) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log().WithField("panic", r).Error("background revalidation panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.populate(ctx, key, spec); err != nil {
			s.log().WithError(err).WithField("key", key).Warn("background revalidation failed")
		}
	}()
}

// log returns a usable logger even when none was injected.
func (s *CandidateService) log() *logrus.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logrus.StandardLogger()
}

func poolFromEntry(entry *ports.CacheEntry, status ports.CacheStatus) *ports.CandidatePool {
	return &ports.CandidatePool{
		Games:               entry.Games,
		FallbackUsed:        entry.FallbackUsed,
		StoreFilterInactive: entry.StoreFilterDropped,
		CacheStatus:         status,
	}
}

func catalogQuery(spec filter.Spec) ports.CatalogQuery {
	return ports.CatalogQuery{
		Platforms: spec.Platforms,
		Stores:    spec.Stores,
		Genres:    spec.Genres,
		StartYear: spec.StartYear,
		EndYear:   spec.EndYear,
	}
}

// appendFallback merges fallback records after the live ones, skipping
// duplicates by catalog id.
func appendFallback(live []game.Game, extra []game.Game) []game.Game {
	seen := make(map[int]struct{}, len(live))
	for _, g := range live {
		seen[g.ID] = struct{}{}
	}
	out := append([]game.Game{}, live...)
	for _, g := range extra {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		out = append(out, g)
	}
	return out
}
