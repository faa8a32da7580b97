package game

import (
	"strconv"
	"time"
)

// Ref is a named catalog reference (genre, platform, tag).
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StoreRef is a storefront reference, optionally carrying a product URL.
type StoreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Price is an amount in a storefront currency.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Game is the single internal representation every candidate is normalized
// into at the ingestion boundary (catalog client or fallback dataset). Values
// are immutable once placed in a cache entry.
type Game struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Released        string     `json:"released,omitempty"` // YYYY-MM-DD
	Rating          float64    `json:"rating"`             // 0-5
	Metacritic      *int       `json:"metacritic,omitempty"`
	Playtime        int        `json:"playtime,omitempty"` // average hours
	BackgroundImage string     `json:"background_image,omitempty"`
	Genres          []Ref      `json:"genres,omitempty"`
	Platforms       []Ref      `json:"platforms,omitempty"`
	Stores          []StoreRef `json:"stores,omitempty"`
	Tags            []Ref      `json:"tags,omitempty"`
	Price           *Price     `json:"price,omitempty"`
	FreeToPlay      bool       `json:"free_to_play,omitempty"`
	SteamAppID      *int       `json:"steam_app_id,omitempty"`
}

// ReleaseYear parses the year from the release date, 0 when unknown.
func (g *Game) ReleaseYear() int {
	if len(g.Released) < 4 {
		return 0
	}
	if t, err := time.Parse("2006-01-02", g.Released); err == nil {
		return t.Year()
	}
	y, err := strconv.Atoi(g.Released[:4])
	if err != nil {
		return 0
	}
	return y
}

// GenreNames returns the lowercase-insensitive-comparable genre names as-is;
// callers own the case handling.
func (g *Game) GenreNames() []string {
	names := make([]string, len(g.Genres))
	for i, ref := range g.Genres {
		names[i] = ref.Name
	}
	return names
}

// PlatformNames lists the platform names.
func (g *Game) PlatformNames() []string {
	names := make([]string, len(g.Platforms))
	for i, ref := range g.Platforms {
		names[i] = ref.Name
	}
	return names
}

// StoreNames lists the storefront names.
func (g *Game) StoreNames() []string {
	names := make([]string, len(g.Stores))
	for i, ref := range g.Stores {
		names[i] = ref.Name
	}
	return names
}
