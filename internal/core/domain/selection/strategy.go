// Package selection deterministically picks one game (and alternates) from a
// ranked candidate pool, driven entirely by a seed.
package selection

import (
	"fmt"
	"sort"

	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/domain/random"
)

// DefaultStrategy is applied when no strategy, or an unknown one, is
// requested. The silent fallback is deliberate: a shared URL with a strategy
// name from a newer deployment should still resolve.
const DefaultStrategy = "balanced"

// Strategy is one named selection algorithm. pick must consume a fixed,
// documented number of PRNG draws per call path; composed strategies depend
// on that for reproducibility.
type Strategy struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`

	pick func(games []game.Game, r *random.SeededRandom) *game.Game
}

// Result is the outcome of one seeded selection.
type Result struct {
	Game       *game.Game  `json:"game"`
	UsedSeed   int32       `json:"used_seed"`
	Strategy   string      `json:"strategy"`
	Alternates []game.Game `json:"alternates,omitempty"`
}

var registry map[string]Strategy

func init() {
	registry = buildRegistry()
	if _, ok := registry[DefaultStrategy]; !ok {
		panic(fmt.Sprintf("selection: default strategy %q not registered", DefaultStrategy))
	}
	for key, s := range registry {
		if s.pick == nil {
			panic(fmt.Sprintf("selection: strategy %q has no pick function", key))
		}
	}
}

func buildRegistry() map[string]Strategy {
	pureRandom := Strategy{
		Key:         "pure_random",
		Name:        "Pure random",
		Description: "Every game has the same chance",
		pick: func(games []game.Game, r *random.SeededRandom) *game.Game {
			if len(games) == 0 {
				return nil
			}
			return &games[int(r.Next()*float64(len(games)))]
		},
	}

	qualityBiased := Strategy{
		Key:         "quality_biased",
		Name:        "Quality picks",
		Description: "Leans toward highly rated games",
		pick: func(games []game.Game, r *random.SeededRandom) *game.Game {
			return biased(games, r, func(g *game.Game) float64 {
				rating := g.Rating
				if rating == 0 {
					rating = 3
				}
				metacritic := 0.5
				if g.Metacritic != nil {
					metacritic = float64(*g.Metacritic) / 100
				}
				return rating/5*0.7 + metacritic*0.3
			}, 2)
		},
	}

	popularityBiased := Strategy{
		Key:         "popularity_biased",
		Name:        "Crowd favorites",
		Description: "Leans toward popular, well-known games",
		pick: func(games []game.Game, r *random.SeededRandom) *game.Game {
			return biased(games, r, func(g *game.Game) float64 {
				rating := g.Rating
				if rating == 0 {
					rating = 3
				}
				return rating/5*0.5 + normalizedPlaytime(g)*0.5
			}, 1.5)
		},
	}

	discovery := Strategy{
		Key:         "discovery",
		Name:        "Discovery",
		Description: "Leans toward lesser-known gems",
		pick: func(games []game.Game, r *random.SeededRandom) *game.Game {
			return biased(games, r, func(g *game.Game) float64 {
				rating := g.Rating
				if rating == 0 {
					rating = 3
				}
				// Inverted popularity, floored so no game is unreachable.
				score := rating/5*0.7 + (1-normalizedPlaytime(g))*0.3
				if score < 0.1 {
					return 0.1
				}
				return score
			}, 1.2)
		},
	}

	balanced := Strategy{
		Key:         "balanced",
		Name:        "Balanced",
		Description: "A good mix of quality and surprise",
		// Exactly one draw for the coin flip, then the delegate's draws.
		pick: func(games []game.Game, r *random.SeededRandom) *game.Game {
			if r.Next() < 0.7 {
				return qualityBiased.pick(games, r)
			}
			return pureRandom.pick(games, r)
		},
	}

	reg := map[string]Strategy{}
	for _, s := range []Strategy{pureRandom, qualityBiased, popularityBiased, discovery, balanced} {
		reg[s.Key] = s
	}
	return reg
}

func biased(games []game.Game, r *random.SeededRandom, bias func(*game.Game) float64, strength float64) *game.Game {
	picked, ok := random.BiasedSelect(r, indices(games), func(i int) float64 { return bias(&games[i]) }, strength)
	if !ok {
		return nil
	}
	return &games[picked]
}

func indices(games []game.Game) []int {
	idx := make([]int, len(games))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func normalizedPlaytime(g *game.Game) float64 {
	pt := g.Playtime
	if pt > 100 {
		pt = 100
	}
	return float64(pt) / 100
}

// Lookup resolves a strategy by key, falling back to the default for unknown
// names. ok reports whether the key was recognized.
func Lookup(key string) (Strategy, bool) {
	if s, found := registry[key]; found {
		return s, true
	}
	return registry[DefaultStrategy], false
}

// All returns the registered strategies sorted by key, for discovery
// endpoints.
func All() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Select picks one game from the pool using the named strategy and the seed.
// An empty pool yields a nil game with the seed echoed back.
func Select(games []game.Game, seed int32, strategyKey string) Result {
	strat, _ := Lookup(strategyKey)
	r := random.New(seed)
	return Result{
		Game:     strat.pick(games, r),
		UsedSeed: seed,
		Strategy: strat.Name,
	}
}

// Alternates derives up to count alternate suggestions from an independent
// PRNG stream at seed+1, excluding the primary selection by identity.
func Alternates(games []game.Game, current *game.Game, seed int32, count int) []game.Game {
	if len(games) <= 1 {
		return nil
	}
	pool := make([]game.Game, 0, len(games))
	for _, g := range games {
		if current != nil && g.ID == current.ID {
			continue
		}
		pool = append(pool, g)
	}
	r := random.New(seed + 1)
	return random.PickMultiple(r, pool, count)
}
