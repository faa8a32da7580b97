package game

import (
	"strings"
	"testing"
)

func TestSteamAppIDFromURL(t *testing.T) {
	id, ok := SteamAppIDFromURL("https://store.steampowered.com/app/271590/Grand_Theft_Auto_V/")
	if !ok || id != 271590 {
		t.Fatalf("expected 271590, got %d ok=%t", id, ok)
	}
	if _, ok := SteamAppIDFromURL("https://store.epicgames.com/en-US/p/fortnite"); ok {
		t.Fatal("non-Steam URLs must not yield an app id")
	}
}

func TestStoreLinkPrefersSteamAppPage(t *testing.T) {
	appID := 620
	g := Game{
		Name:       "Portal 2",
		SteamAppID: &appID,
		Stores:     []StoreRef{{ID: 5, Name: "GOG", URL: "https://www.gog.com/game/portal_2"}},
	}
	link := g.StoreLink()
	if !strings.Contains(link, "store.steampowered.com/app/620/portal-2") {
		t.Fatalf("known app id must produce a direct Steam page, got %q", link)
	}
}

func TestStoreLinkFallsBackToRecordedURL(t *testing.T) {
	g := Game{
		Name:   "Fortnite",
		Stores: []StoreRef{{ID: 11, Name: "Epic Games Store", URL: "https://store.epicgames.com/en-US/p/fortnite"}},
	}
	if got := g.StoreLink(); got != "https://store.epicgames.com/en-US/p/fortnite" {
		t.Fatalf("expected the recorded store URL, got %q", got)
	}
}

func TestStoreLinkLastResortIsSearch(t *testing.T) {
	g := Game{Name: "Obscure Gem & Friends"}
	link := g.StoreLink()
	if !strings.Contains(link, "store.steampowered.com/search/") {
		t.Fatalf("expected a storefront search link, got %q", link)
	}
	if strings.Contains(link, "& ") || strings.Contains(link, " ") {
		t.Fatalf("search term must be URL-escaped, got %q", link)
	}
}
