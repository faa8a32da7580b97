package ports

import (
	"context"
	"time"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/domain/matching"
	"github.com/randomplay/gameroulette/internal/core/domain/selection"
)

// CacheStatus describes how a candidate lookup was served, for observability.
type CacheStatus string

const (
	CacheHit            CacheStatus = "hit"
	CacheStale          CacheStatus = "stale"
	CacheDistributedHit CacheStatus = "distributed-hit"
	CacheMiss           CacheStatus = "miss"
	CacheError          CacheStatus = "error"
)

// CacheEntry is the unit stored in both cache tiers: the full candidate pool
// for one normalized filter spec. Entries are written whole or not at all.
type CacheEntry struct {
	Games []game.Game `json:"games"`
	// FallbackUsed marks entries containing records from the bundled dataset
	// rather than (or in addition to) the live catalog.
	FallbackUsed bool `json:"fallback_used"`
	// StoreFilterDropped marks entries fetched after the store filter was
	// relaxed because it produced zero live results; downstream filtering
	// must then treat the store constraint as inactive.
	StoreFilterDropped bool      `json:"store_filter_dropped"`
	CreatedAt          time.Time `json:"created_at"`
}

// EntryCache is the bounded in-process tier. Reads return expired entries;
// staleness is the caller's decision so stale-while-revalidate stays possible.
type EntryCache interface {
	Get(key string) (*CacheEntry, bool)
	Add(key string, entry *CacheEntry)
}

// CandidatePool is a candidate lookup result handed to the resolution
// pipeline.
type CandidatePool struct {
	Games               []game.Game
	FallbackUsed        bool
	StoreFilterInactive bool
	CacheStatus         CacheStatus
}

// CandidateService is the cache layer: multi-tier lookup, request
// coalescing, fallback handling and the relaxed store-filter retry.
type CandidateService interface {
	Candidates(ctx context.Context, spec filter.Spec) (*CandidatePool, error)
}

// ResolveRequest is one game-resolution request.
type ResolveRequest struct {
	Spec              filter.Spec
	Prefs             matching.Preferences
	Seed              int32
	Strategy          string
	IncludeAlternates bool
	AlternateCount    int
}

// Resolution is the pipeline outcome.
type Resolution struct {
	Result       selection.Result
	Total        int
	FallbackUsed bool
	CacheStatus  CacheStatus
}

// ResolverService runs the full pipeline: candidates, filter, score, select.
type ResolverService interface {
	Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error)
}
