package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/domain/matching"
	"github.com/randomplay/gameroulette/internal/core/domain/selection"
	"github.com/randomplay/gameroulette/internal/core/ports"
)

const defaultAlternateCount = 3

// ResolverService runs the resolution pipeline: candidate lookup, hard
// filtering, preference ranking, seeded selection.
type ResolverService struct {
	candidates ports.CandidateService
	catalog    ports.CatalogClient // optional, for storefront link backfill
	logger     *logrus.Logger
}

func NewResolverService(candidates ports.CandidateService, catalog ports.CatalogClient, logger *logrus.Logger) *ResolverService {
	return &ResolverService{candidates: candidates, catalog: catalog, logger: logger}
}

// Resolve picks one game (and optional alternates) for the request. A drained
// filter set is not an error: the resolution comes back with a nil game and
// zero total, and the caller renders the no-matches payload.
func (s *ResolverService) Resolve(ctx context.Context, req ports.ResolveRequest) (*ports.Resolution, error) {
	pool, err := s.candidates.Candidates(ctx, req.Spec)
	if err != nil {
		return nil, err
	}

	spec := req.Spec.Normalized()
	if pool.StoreFilterInactive {
		// The store constraint already failed upstream; applying it locally
		// would drain the relaxed pool again.
		spec = spec.WithoutStores()
	}

	matched := matching.Filter(pool.Games, spec)
	fallbackUsed := pool.FallbackUsed
	if len(matched) == 0 && spec.FreeToPlay {
		// The cached pool was fetched under the request's platform/genre/date
		// constraints, so a free-to-play pick may live entirely outside it.
		// Consult the unconstrained pool and keep only the free-to-play
		// intent plus any surviving store preference.
		unfiltered, uerr := s.candidates.Candidates(ctx, filter.Spec{})
		if uerr != nil {
			return nil, uerr
		}
		fallbackUsed = fallbackUsed || unfiltered.FallbackUsed
		relaxed := filter.Spec{Stores: spec.Stores, FreeToPlay: true}
		matched = matching.Filter(unfiltered.Games, relaxed)
		if len(matched) > 0 && s.logger != nil {
			s.logger.WithField("survivors", len(matched)).Info("free-to-play retry against the unconstrained pool found matches")
		}
	}

	ranked := matching.Rank(matched, spec, req.Prefs)
	if len(ranked) == 0 {
		return &ports.Resolution{
			Result:       selection.Result{UsedSeed: req.Seed, Strategy: req.Strategy},
			Total:        0,
			FallbackUsed: fallbackUsed,
			CacheStatus:  pool.CacheStatus,
		}, nil
	}

	result := selection.Select(ranked, req.Seed, req.Strategy)
	if req.IncludeAlternates {
		count := req.AlternateCount
		if count <= 0 {
			count = defaultAlternateCount
		}
		result.Alternates = selection.Alternates(ranked, result.Game, req.Seed, count)
	}

	s.backfillSteamLink(ctx, result.Game)

	return &ports.Resolution{
		Result:       result,
		Total:        len(ranked),
		FallbackUsed: fallbackUsed,
		CacheStatus:  pool.CacheStatus,
	}, nil
}

// backfillSteamLink fills a missing Steam app id from the per-game storefront
// endpoint. Best effort: any failure leaves the game as-is.
func (s *ResolverService) backfillSteamLink(ctx context.Context, g *game.Game) {
	if g == nil || g.SteamAppID != nil || s.catalog == nil {
		return
	}
	refs, err := s.catalog.StoreLinks(ctx, g.ID)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("game_id", g.ID).Debug("storefront link backfill failed")
		}
		return
	}
	for _, ref := range refs {
		if ref.URL == "" {
			continue
		}
		if appID, ok := game.SteamAppIDFromURL(ref.URL); ok {
			g.SteamAppID = &appID
			return
		}
	}
}
