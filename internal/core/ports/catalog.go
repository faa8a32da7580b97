package ports

import (
	"context"
	"errors"

	"github.com/randomplay/gameroulette/internal/core/domain/game"
)

// Catalog client failure taxonomy. Callers classify with errors.Is; none of
// these may escape the candidate service uncaught.
var (
	// ErrConfigMissing means the client has no credentials; the request was
	// never attempted against the network and never will be.
	ErrConfigMissing = errors.New("catalog: configuration missing")
	// ErrUnauthorized means the upstream rejected the credentials (401).
	ErrUnauthorized = errors.New("catalog: unauthorized")
	// ErrUnavailable covers any other upstream failure: non-success status,
	// transport error, timeout.
	ErrUnavailable = errors.New("catalog: upstream unavailable")
)

// CatalogQuery carries the pre-normalized filter tokens the client translates
// to upstream identifiers. Tokens without an upstream mapping are skipped.
type CatalogQuery struct {
	Platforms []string
	Stores    []string
	Genres    []string
	StartYear int
	EndYear   int
}

// CatalogClient fetches candidate games from the upstream catalog. It does
// not cache; it honors a process-wide rate budget by queueing excess calls.
type CatalogClient interface {
	// Search returns normalized games plus the upstream total count.
	Search(ctx context.Context, q CatalogQuery) ([]game.Game, int, error)
	// StoreLinks returns the per-game storefront links, used to backfill
	// missing Steam links absent from the search payload.
	StoreLinks(ctx context.Context, gameID int) ([]game.StoreRef, error)
}

// FallbackSource provides the bundled static dataset used when the live
// catalog is unreachable, misconfigured, or too thin.
type FallbackSource interface {
	Games() []game.Game
}
