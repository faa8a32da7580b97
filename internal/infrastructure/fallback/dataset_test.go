package fallback

import "testing"

func TestDatasetDecodes(t *testing.T) {
	ds, err := NewDataset()
	if err != nil {
		t.Fatalf("embedded dataset must decode: %v", err)
	}
	if ds.Len() < 10 {
		t.Fatalf("dataset too small to supplement thin results: %d", ds.Len())
	}

	for _, g := range ds.Games() {
		if g.ID == 0 || g.Name == "" {
			t.Fatalf("record missing identity: %+v", g)
		}
		if g.Rating <= 0 || g.Rating > 5 {
			t.Fatalf("%s: rating out of range: %v", g.Name, g.Rating)
		}
		if len(g.Genres) == 0 || len(g.Platforms) == 0 {
			t.Fatalf("%s: records must be filterable by genre and platform", g.Name)
		}
		if !g.FreeToPlay && g.Price == nil {
			t.Fatalf("%s: paid records must carry a price", g.Name)
		}
	}
}

func TestGamesReturnsCopy(t *testing.T) {
	ds, err := NewDataset()
	if err != nil {
		t.Fatal(err)
	}
	a := ds.Games()
	a[0].Name = "mutated"
	if ds.Games()[0].Name == "mutated" {
		t.Fatal("Games must not expose shared backing storage")
	}
}

func TestDatasetHasFreeToPlayEntries(t *testing.T) {
	ds, err := NewDataset()
	if err != nil {
		t.Fatal(err)
	}
	free := 0
	for _, g := range ds.Games() {
		if g.FreeToPlay {
			free++
		}
	}
	if free == 0 {
		t.Fatal("free-to-play filter needs at least one matching fallback record")
	}
}
