package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/domain/matching"
	"github.com/randomplay/gameroulette/internal/core/domain/random"
	"github.com/randomplay/gameroulette/internal/core/domain/selection"
	"github.com/randomplay/gameroulette/internal/core/ports"
)

// gamePayload decorates a game with its derived best storefront link.
type gamePayload struct {
	game.Game
	StoreLink string `json:"store_link"`
}

func toGamePayload(g game.Game) gamePayload {
	return gamePayload{Game: g, StoreLink: g.StoreLink()}
}

type randomGameResponse struct {
	Game         *gamePayload  `json:"game"`
	Seed         string        `json:"seed"`
	Strategy     string        `json:"strategy"`
	StrategyName string        `json:"strategy_name,omitempty"`
	Total        int           `json:"total"`
	Alternates   []gamePayload `json:"alternates,omitempty"`
	Fallback     bool          `json:"fallback,omitempty"`
}

type noMatchesResponse struct {
	Error string      `json:"error"`
	Games []game.Game `json:"games"`
	Total int         `json:"total"`
}

// randomGame resolves one game for the requested filters, seed and strategy.
func (s *Server) randomGame(c echo.Context) error {
	req := parseResolveRequest(c)

	resolution, err := s.resolver.Resolve(c.Request().Context(), req)
	if err != nil {
		// The correlation id lets operators match the generic payload to the
		// logged cause.
		errID := uuid.New().String()
		if s.logger != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"error_id":   errID,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Error("game resolution failed")
		}
		resolutionsTotal.WithLabelValues(req.Strategy, "error").Inc()
		cacheLookupsTotal.WithLabelValues(string(ports.CacheError)).Inc()
		c.Response().Header().Set("X-Cache", string(ports.CacheError))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":    "internal error",
			"error_id": errID,
		})
	}

	cacheLookupsTotal.WithLabelValues(string(resolution.CacheStatus)).Inc()
	c.Response().Header().Set("X-Cache", string(resolution.CacheStatus))

	if resolution.Result.Game == nil {
		// Distinct from a server failure: the filters simply matched nothing.
		resolutionsTotal.WithLabelValues(req.Strategy, "empty").Inc()
		return c.JSON(http.StatusOK, noMatchesResponse{
			Error: "no games match the requested filters",
			Games: []game.Game{},
			Total: 0,
		})
	}

	resolutionsTotal.WithLabelValues(req.Strategy, "ok").Inc()

	picked := toGamePayload(*resolution.Result.Game)
	var alternates []gamePayload
	for _, alt := range resolution.Result.Alternates {
		alternates = append(alternates, toGamePayload(alt))
	}
	return c.JSON(http.StatusOK, randomGameResponse{
		Game:         &picked,
		Seed:         random.EncodeSeed(resolution.Result.UsedSeed),
		Strategy:     req.Strategy,
		StrategyName: resolution.Result.Strategy,
		Total:        resolution.Total,
		Alternates:   alternates,
		Fallback:     resolution.FallbackUsed,
	})
}

// parseResolveRequest maps query parameters onto a resolve request. Every
// parameter is optional; unparsable values degrade to their zero value rather
// than erroring, matching the forgiving seed handling.
func parseResolveRequest(c echo.Context) ports.ResolveRequest {
	spec := filter.Spec{
		Platforms:     filter.ParseTokens(c.QueryParam("platforms")),
		Stores:        filter.ParseTokens(c.QueryParam("stores")),
		Genres:        filter.ParseTokens(c.QueryParam("genres")),
		MaxPrice:      floatParam(c, "maxPrice"),
		FreeToPlay:    boolParam(c, "freeToPlay"),
		OnlyHighRated: boolParam(c, "onlyHighRated"),
		StartYear:     intParam(c, "startYear"),
		EndYear:       intParam(c, "endYear"),
	}

	prefs := matching.Preferences{
		SearchTerm:       c.QueryParam("search"),
		PreferNewGames:   boolParam(c, "preferNew"),
		PreferPopular:    boolParam(c, "preferPopular"),
		PreferIndie:      boolParam(c, "preferIndie"),
		AvoidEarlyAccess: boolParam(c, "avoidEarlyAccess"),
		MinPlaytime:      intParam(c, "minPlaytime"),
		MaxPlaytime:      intParam(c, "maxPlaytime"),
	}

	seed := random.GenerateSeed()
	if token := c.QueryParam("seed"); token != "" {
		seed = random.DecodeSeed(token)
	}

	strategy := c.QueryParam("strategy")
	if _, known := selection.Lookup(strategy); !known {
		strategy = selection.DefaultStrategy
	}

	return ports.ResolveRequest{
		Spec:              spec,
		Prefs:             prefs,
		Seed:              seed,
		Strategy:          strategy,
		IncludeAlternates: boolParam(c, "alternates"),
		AlternateCount:    intParam(c, "alternateCount"),
	}
}

func boolParam(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && v
}

func intParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

func floatParam(c echo.Context, name string) float64 {
	v, err := strconv.ParseFloat(c.QueryParam(name), 64)
	if err != nil {
		return 0
	}
	return v
}
