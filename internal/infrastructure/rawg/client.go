package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/randomplay/gameroulette/internal/core/domain/game"
	"github.com/randomplay/gameroulette/internal/core/ports"
)

// Config groups the catalog client settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
	PageSize          int
}

// Client is a rate-limited HTTP client for the RAWG games catalog. The rate
// budget is shared by all requests through this client: excess calls queue on
// the limiter instead of failing.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
	logger   *logrus.Logger
}

// NewClient creates a catalog client. An empty API key is allowed; every call
// then fails fast with ErrConfigMissing so the fallback dataset takes over.
func NewClient(cfg *Config, logger *logrus.Logger) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		logger:   logger,
	}
}

type rawRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type rawGame struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Released   string  `json:"released"`
	Rating     float64 `json:"rating"`
	Metacritic *int    `json:"metacritic"`
	Playtime   int     `json:"playtime"`
	Background string  `json:"background_image"`
	Genres     []rawRef `json:"genres"`
	Tags       []rawRef `json:"tags"`
	Platforms  []struct {
		Platform rawRef `json:"platform"`
	} `json:"platforms"`
	Stores []struct {
		Store rawRef `json:"store"`
		URL   string `json:"url"`
	} `json:"stores"`
}

type searchResponse struct {
	Count   int       `json:"count"`
	Results []rawGame `json:"results"`
}

// Search implements ports.CatalogClient.
func (c *Client) Search(ctx context.Context, q ports.CatalogQuery) ([]game.Game, int, error) {
	if c.apiKey == "" {
		return nil, 0, ports.ErrConfigMissing
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("page", "1")
	params.Set("page_size", strconv.Itoa(c.pageSize))
	// Prefer highly rated games in the raw pool.
	params.Set("ordering", "-rating,-metacritic")
	if ids := MapPlatformIDs(q.Platforms); ids != "" {
		params.Set("platforms", ids)
	}
	if ids := MapStoreIDs(q.Stores); ids != "" {
		params.Set("stores", ids)
	}
	if ids := MapGenreIDs(q.Genres); ids != "" {
		params.Set("genres", ids)
	}
	if q.StartYear > 0 && q.EndYear > 0 {
		params.Set("dates", fmt.Sprintf("%d-01-01,%d-12-31", q.StartYear, q.EndYear))
	}

	var parsed searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/games?"+params.Encode(), &parsed); err != nil {
		return nil, 0, err
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"count": parsed.Count, "page": len(parsed.Results)}).Debug("catalog search completed")
	}

	games := make([]game.Game, 0, len(parsed.Results))
	for _, raw := range parsed.Results {
		games = append(games, normalize(raw))
	}
	return games, parsed.Count, nil
}

// StoreLinks implements ports.CatalogClient using the per-game stores
// endpoint; search payloads usually omit storefront URLs.
func (c *Client) StoreLinks(ctx context.Context, gameID int) ([]game.StoreRef, error) {
	if c.apiKey == "" {
		return nil, ports.ErrConfigMissing
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	var parsed struct {
		Results []struct {
			ID      int    `json:"id"`
			StoreID int    `json:"store_id"`
			URL     string `json:"url"`
		} `json:"results"`
	}
	endpoint := fmt.Sprintf("%s/games/%d/stores?key=%s", c.baseURL, gameID, url.QueryEscape(c.apiKey))
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	refs := make([]game.StoreRef, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		refs = append(refs, game.StoreRef{ID: r.StoreID, URL: r.URL})
	}
	return refs, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ports.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ports.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ports.ErrUnavailable, err)
	}
	return nil
}

// normalize converts a raw catalog record into the internal Game
// representation; loosely-typed records never cross this boundary.
func normalize(raw rawGame) game.Game {
	g := game.Game{
		ID:              raw.ID,
		Name:            raw.Name,
		Released:        raw.Released,
		Rating:          raw.Rating,
		Metacritic:      raw.Metacritic,
		Playtime:        raw.Playtime,
		BackgroundImage: raw.Background,
	}
	for _, ref := range raw.Genres {
		g.Genres = append(g.Genres, game.Ref{ID: ref.ID, Name: ref.Name})
	}
	for _, ref := range raw.Tags {
		g.Tags = append(g.Tags, game.Ref{ID: ref.ID, Name: ref.Name})
	}
	for _, p := range raw.Platforms {
		g.Platforms = append(g.Platforms, game.Ref{ID: p.Platform.ID, Name: p.Platform.Name})
	}
	for _, s := range raw.Stores {
		ref := game.StoreRef{ID: s.Store.ID, Name: s.Store.Name, Slug: s.Store.Slug, URL: s.URL}
		g.Stores = append(g.Stores, ref)
		if g.SteamAppID == nil && s.URL != "" {
			if appID, ok := game.SteamAppIDFromURL(s.URL); ok {
				g.SteamAppID = &appID
			}
		}
	}
	return g
}
