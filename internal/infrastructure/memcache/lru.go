// Package memcache is the bounded in-process candidate cache tier.
package memcache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/randomplay/gameroulette/internal/core/ports"
)

// Store implements ports.EntryCache over a fixed-capacity LRU. Expired
// entries are returned as-is: the caller decides whether to serve them stale
// while a refresh runs, so eviction here is purely capacity-driven.
type Store struct {
	entries *lru.Cache[string, *ports.CacheEntry]
}

// NewStore creates the process tier with the given capacity.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = 100
	}
	entries, err := lru.New[string, *ports.CacheEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{entries: entries}, nil
}

// Get returns the entry for key if present, regardless of age.
func (s *Store) Get(key string) (*ports.CacheEntry, bool) {
	return s.entries.Get(key)
}

// Add stores the entry, evicting the least recently used one at capacity.
func (s *Store) Add(key string, entry *ports.CacheEntry) {
	s.entries.Add(key, entry)
}

// Len reports the current entry count.
func (s *Store) Len() int { return s.entries.Len() }
