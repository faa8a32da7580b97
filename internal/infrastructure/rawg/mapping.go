package rawg

import (
	"sort"
	"strings"
)

// Static translation tables from user-facing filter tokens to RAWG numeric
// identifiers. Token matching mirrors the filter engine's bidirectional
// substring rule so that a generic token like "playstation" expands to every
// PlayStation platform id.
var platformIDs = map[string]string{
	"pc":              "4",
	"xbox one":        "1",
	"xbox series":     "186,187",
	"playstation 4":   "18",
	"playstation 5":   "187",
	"nintendo switch": "7",
}

var storeIDs = map[string]string{
	"steam":             "1",
	"epic games store":  "11",
	"gog":               "5",
	"microsoft store":   "3",
	"playstation store": "2",
	"nintendo eshop":    "6",
}

var genreIDs = map[string]string{
	"action":     "4",
	"adventure":  "3",
	"rpg":        "5",
	"shooter":    "2",
	"strategy":   "10",
	"simulation": "14",
	"sports":     "15",
	"racing":     "1",
	"indie":      "51",
	"puzzle":     "7",
	"horror":     "19",
	"casual":     "40",
	"platformer": "83",
}

// MapPlatformIDs translates platform tokens to a comma-joined id list.
// Unmappable tokens are skipped.
func MapPlatformIDs(tokens []string) string { return mapIDs(platformIDs, tokens) }

// MapStoreIDs translates store tokens to a comma-joined id list.
func MapStoreIDs(tokens []string) string { return mapIDs(storeIDs, tokens) }

// MapGenreIDs translates genre tokens to a comma-joined id list.
func MapGenreIDs(tokens []string) string { return mapIDs(genreIDs, tokens) }

func mapIDs(table map[string]string, tokens []string) string {
	seen := map[string]struct{}{}
	var ids []string
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		for key, id := range table {
			if !strings.Contains(key, tok) && !strings.Contains(tok, key) {
				continue
			}
			for _, part := range strings.Split(id, ",") {
				if _, dup := seen[part]; dup {
					continue
				}
				seen[part] = struct{}{}
				ids = append(ids, part)
			}
		}
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// SupportedTokens lists the known tokens per dimension for the discovery
// endpoint.
func SupportedTokens() map[string][]string {
	return map[string][]string{
		"platforms": sortedKeys(platformIDs),
		"stores":    sortedKeys(storeIDs),
		"genres":    sortedKeys(genreIDs),
	}
}

func sortedKeys(table map[string]string) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
