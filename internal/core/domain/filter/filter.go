// Package filter holds the hard-constraint set a resolution request carries
// and its normalized cache-key form.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxPriceCeiling caps the price filter regardless of caller input.
	MaxPriceCeiling = 125
	// DefaultMinRating is the fixed rating floor applied to all candidates.
	DefaultMinRating = 3.0
)

// Spec is the structured set of hard constraints a user selects. The zero
// value of a dimension (empty slice, zero price) means the dimension imposes
// no constraint.
type Spec struct {
	Platforms     []string
	Stores        []string
	Genres        []string
	MaxPrice      float64 // 0 = unset; ignored when FreeToPlay
	FreeToPlay    bool
	OnlyHighRated bool
	MinRating     float64
	StartYear     int
	EndYear       int
}

// Normalized returns a canonical copy: tokens lowercased, trimmed, deduplicated
// and sorted; price clamped to the ceiling; rating floor defaulted. Two specs
// describing the same constraints normalize to an identical value.
func (s Spec) Normalized() Spec {
	n := s
	n.Platforms = normalizeTokens(s.Platforms)
	n.Stores = normalizeTokens(s.Stores)
	n.Genres = normalizeTokens(s.Genres)
	if n.MaxPrice > MaxPriceCeiling {
		n.MaxPrice = MaxPriceCeiling
	}
	if n.MaxPrice < 0 {
		n.MaxPrice = 0
	}
	if n.MinRating == 0 {
		n.MinRating = DefaultMinRating
	}
	return n
}

// CacheKey derives the deterministic candidate-pool key. Seed and strategy are
// deliberately absent: they do not affect which games qualify, only which one
// is picked.
func (s Spec) CacheKey() string {
	n := s.Normalized()
	return fmt.Sprintf("games:v1:p=%s|s=%s|g=%s|price=%g|f2p=%t|hr=%t|years=%d-%d",
		strings.Join(n.Platforms, ","),
		strings.Join(n.Stores, ","),
		strings.Join(n.Genres, ","),
		n.MaxPrice,
		n.FreeToPlay,
		n.OnlyHighRated,
		n.StartYear,
		n.EndYear,
	)
}

// WithoutStores returns a copy with the store constraint removed, used for the
// relaxed retry when a store filter yields no live results.
func (s Spec) WithoutStores() Spec {
	n := s
	n.Stores = nil
	return n
}

// HasStoreFilter reports whether a store constraint is active.
func (s Spec) HasStoreFilter() bool { return len(s.Stores) > 0 }

func normalizeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseTokens splits a comma-separated query value into raw tokens.
func ParseTokens(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
