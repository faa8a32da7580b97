// Package matching reduces a candidate pool to the games satisfying a filter
// spec and ranks the survivors against soft preferences. All functions are
// pure; callers own concurrency.
package matching

import (
	"strings"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
)

// Filter returns the subset of games satisfying every active constraint in
// spec. An empty token list for a dimension imposes no constraint.
func Filter(games []game.Game, spec filter.Spec) []game.Game {
	spec = spec.Normalized()
	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		if Matches(&g, spec) {
			out = append(out, g)
		}
	}
	return out
}

// Matches reports whether a single game passes all active constraints. The
// spec must already be normalized.
func Matches(g *game.Game, spec filter.Spec) bool {
	if len(spec.Platforms) > 0 && !anyTokenMatch(g.PlatformNames(), spec.Platforms) {
		return false
	}
	if len(spec.Stores) > 0 && !anyTokenMatch(g.StoreNames(), spec.Stores) {
		return false
	}
	if len(spec.Genres) > 0 && !anyTokenMatch(g.GenreNames(), spec.Genres) {
		return false
	}

	if spec.FreeToPlay {
		if !g.FreeToPlay && (g.Price == nil || g.Price.Amount != 0) {
			return false
		}
	} else if spec.MaxPrice > 0 {
		// Games with no known price pass through unfiltered.
		if g.Price != nil && !g.Price.WithinBudget(spec.MaxPrice) {
			return false
		}
	}

	if spec.MinRating > 0 && g.Rating < spec.MinRating {
		return false
	}

	if spec.OnlyHighRated {
		if g.Rating < 4.0 {
			return false
		}
		if g.Metacritic != nil && *g.Metacritic < 75 {
			return false
		}
	}

	return true
}

// anyTokenMatch applies the bidirectional case-insensitive substring rule: a
// candidate value matches a filter token when either contains the other, so
// "PlayStation 5" matches the token "playstation" and vice versa.
func anyTokenMatch(values []string, tokens []string) bool {
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		for _, v := range values {
			v = strings.ToLower(v)
			if strings.Contains(v, tok) || strings.Contains(tok, v) {
				return true
			}
		}
	}
	return false
}

func countTokenMatches(values []string, tokens []string) int {
	matches := 0
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		for _, v := range values {
			v = strings.ToLower(v)
			if strings.Contains(v, tok) || strings.Contains(tok, v) {
				matches++
				break
			}
		}
	}
	return matches
}
