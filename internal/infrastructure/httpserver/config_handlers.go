package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomplay/gameroulette/internal/core/domain/filter"
	"github.com/randomplay/gameroulette/internal/core/domain/selection"
	"github.com/randomplay/gameroulette/internal/infrastructure/rawg"
)

// listStrategies exposes the selection strategies for client pickers.
func (s *Server) listStrategies(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"strategies": selection.All(),
		"default":    selection.DefaultStrategy,
	})
}

// listFilterOptions exposes the filter tokens the catalog mapping understands
// plus the fixed filter bounds.
func (s *Server) listFilterOptions(c echo.Context) error {
	options := map[string]any{}
	for dimension, tokens := range rawg.SupportedTokens() {
		options[dimension] = tokens
	}
	options["maxPriceCeiling"] = filter.MaxPriceCeiling
	options["minRating"] = filter.DefaultMinRating
	return c.JSON(http.StatusOK, options)
}
