package matching

import (
	"sort"
	"strings"
	"time"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
)

// Weights tunes the additive match-score components.
type Weights struct {
	ExactMatch      float64
	PartialMatch    float64
	GenreMatch      float64
	PlatformMatch   float64
	StoreMatch      float64
	RatingBonus     float64
	MetacriticBonus float64
}

// DefaultWeights favors exact name matches, then genre affinity, then
// platform/store availability, with rating as the base signal.
var DefaultWeights = Weights{
	ExactMatch:      10,
	PartialMatch:    5,
	GenreMatch:      3,
	PlatformMatch:   2,
	StoreMatch:      2,
	RatingBonus:     1,
	MetacriticBonus: 0.5,
}

// Preferences are soft adjustments on top of the hard filter; they shift
// scores but never disqualify on their own (a floored score of 0 does).
type Preferences struct {
	SearchTerm       string
	PreferNewGames   bool
	PreferPopular    bool
	PreferIndie      bool
	AvoidEarlyAccess bool
	MinPlaytime      int
	MaxPlaytime      int
}

// Score computes the match score for one game. Never negative.
func Score(g *game.Game, spec filter.Spec, prefs Preferences, w Weights) float64 {
	score := g.Rating * w.RatingBonus
	if g.Metacritic != nil {
		score += float64(*g.Metacritic) / 100 * w.MetacriticBonus
	}

	if len(spec.Platforms) > 0 {
		score += float64(countTokenMatches(g.PlatformNames(), spec.Platforms)) * w.PlatformMatch
	}
	if len(spec.Stores) > 0 {
		score += float64(countTokenMatches(g.StoreNames(), spec.Stores)) * w.StoreMatch
	}
	if len(spec.Genres) > 0 {
		score += float64(countTokenMatches(g.GenreNames(), spec.Genres)) * w.GenreMatch
	}

	if prefs.SearchTerm != "" {
		term := strings.ToLower(prefs.SearchTerm)
		name := strings.ToLower(g.Name)
		if name == term {
			score += w.ExactMatch
		} else if strings.Contains(name, term) || strings.Contains(term, name) {
			score += w.PartialMatch
		}
	}

	score += preferenceAdjustment(g, prefs)
	if score < 0 {
		return 0
	}
	return score
}

func preferenceAdjustment(g *game.Game, prefs Preferences) float64 {
	adj := 0.0

	if prefs.PreferNewGames {
		if year := g.ReleaseYear(); year > 0 && time.Now().Year()-year <= 2 {
			adj += 2
		}
	}
	if prefs.PreferPopular && g.Rating > 4.2 {
		adj += 3
	}
	if prefs.PreferIndie && hasGenreLike(g, "indie", "independent") {
		adj += 2
	}
	if prefs.AvoidEarlyAccess && isEarlyAccess(g) {
		adj -= 5
	}
	if prefs.MinPlaytime > 0 && g.Playtime < prefs.MinPlaytime {
		adj -= 2
	}
	if prefs.MaxPlaytime > 0 && g.Playtime > prefs.MaxPlaytime {
		adj -= 1
	}
	return adj
}

func hasGenreLike(g *game.Game, needles ...string) bool {
	for _, genre := range g.Genres {
		name := strings.ToLower(genre.Name)
		for _, n := range needles {
			if strings.Contains(name, n) {
				return true
			}
		}
	}
	return false
}

func isEarlyAccess(g *game.Game) bool {
	if strings.Contains(strings.ToLower(g.Name), "early access") {
		return true
	}
	for _, tag := range g.Tags {
		if strings.Contains(strings.ToLower(tag.Name), "early access") {
			return true
		}
	}
	return false
}

// Rank scores every game and returns the positive scorers sorted descending.
// Zero scorers are treated as non-matches, not low-ranked survivors. The sort
// is stable so equal scores keep their input order.
func Rank(games []game.Game, spec filter.Spec, prefs Preferences) []game.Game {
	spec = spec.Normalized()
	type scored struct {
		g     game.Game
		score float64
	}
	pool := make([]scored, 0, len(games))
	for _, g := range games {
		if s := Score(&g, spec, prefs, DefaultWeights); s > 0 {
			pool = append(pool, scored{g: g, score: s})
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	out := make([]game.Game, len(pool))
	for i, sc := range pool {
		out[i] = sc.g
	}
	return out
}
