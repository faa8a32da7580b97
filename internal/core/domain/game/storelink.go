package game

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var steamAppPattern = regexp.MustCompile(`app/(\d+)`)

// SteamAppIDFromURL extracts the numeric app id from a Steam storefront URL.
func SteamAppIDFromURL(storeURL string) (int, bool) {
	m := steamAppPattern.FindStringSubmatch(storeURL)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugifyTitle(title string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// StoreLink builds the best storefront URL for the game: a direct Steam app
// page when the app id is known, the recorded store URL otherwise, and a
// storefront search as the last resort.
func (g *Game) StoreLink() string {
	if g.SteamAppID != nil {
		return fmt.Sprintf("https://store.steampowered.com/app/%d/%s/", *g.SteamAppID, slugifyTitle(g.Name))
	}
	for _, s := range g.Stores {
		if s.URL != "" {
			return s.URL
		}
	}
	return "https://store.steampowered.com/search/?term=" + url.QueryEscape(g.Name)
}
