// Package fallback bundles a small curated game dataset into the binary so
// resolution keeps working when the live catalog is unreachable or
// unconfigured.
package fallback

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/randomplay/gameroulette/internal/core/domain/game"
)

//go:embed games.json
var rawDataset []byte

// Dataset implements ports.FallbackSource over the embedded records.
type Dataset struct {
	games []game.Game
}

// NewDataset decodes the embedded dataset once at startup. A decode failure
// means a broken build, so it is returned rather than deferred to requests.
func NewDataset() (*Dataset, error) {
	var games []game.Game
	if err := json.Unmarshal(rawDataset, &games); err != nil {
		return nil, fmt.Errorf("decoding embedded dataset: %w", err)
	}
	return &Dataset{games: games}, nil
}

// Games returns a copy of the dataset so callers can append or reorder
// without corrupting the shared records.
func (d *Dataset) Games() []game.Game {
	out := make([]game.Game, len(d.games))
	copy(out, d.games)
	return out
}

// Len reports the dataset size.
func (d *Dataset) Len() int { return len(d.games) }
