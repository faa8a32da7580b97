package random_test

import (
	"sort"
	"testing"

	"github.com/randomplay/gameroulette/internal/core/domain/random"
)

func TestNextDeterministic(t *testing.T) {
	a := random.New(12345)
	b := random.New(12345)
	for i := 0; i < 1000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("sequence diverged at draw %d: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, va)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	if random.New(1).Next() == random.New(2).Next() {
		t.Fatalf("seeds 1 and 2 produced identical first draws")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	in := []int{5, 3, 9, 1, 7, 2, 8, 4, 6, 0}
	out := random.Shuffle(random.New(42), in)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d != %d", len(out), len(in))
	}
	a := append([]int(nil), in...)
	b := append([]int(nil), out...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("not a permutation: %v vs %v", in, out)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	random.Shuffle(random.New(7), in)
	for i, v := range []int{1, 2, 3, 4, 5} {
		if in[i] != v {
			t.Fatalf("input mutated: %v", in)
		}
	}
}

func TestWeightedSelectBias(t *testing.T) {
	items := []random.Weighted[string]{
		{Item: "rare", Weight: 1},
		{Item: "common", Weight: 1000},
	}
	r := random.New(99)
	common := 0
	const draws = 10000
	for i := 0; i < draws; i++ {
		picked, ok := random.WeightedSelect(r, items)
		if !ok {
			t.Fatalf("unexpected empty result")
		}
		if picked == "common" {
			common++
		}
	}
	if ratio := float64(common) / draws; ratio < 0.95 {
		t.Fatalf("expected heavy item in >95%% of draws, got %.3f", ratio)
	}
}

func TestWeightedSelectZeroTotalReturnsFirst(t *testing.T) {
	items := []random.Weighted[string]{{Item: "a", Weight: 0}, {Item: "b", Weight: 0}}
	picked, ok := random.WeightedSelect(random.New(1), items)
	if !ok || picked != "a" {
		t.Fatalf("expected first item on zero total weight, got %q ok=%v", picked, ok)
	}
}

func TestPickMultiple(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6}
	got := random.PickMultiple(random.New(42), in, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	seen := map[int]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("duplicate item %d in %v", v, got)
		}
		seen[v] = true
	}

	all := random.PickMultiple(random.New(42), in, 10)
	if len(all) != len(in) {
		t.Fatalf("count beyond length should return full shuffle, got %d items", len(all))
	}
}

func TestBiasedSelectEmpty(t *testing.T) {
	_, ok := random.BiasedSelect(random.New(1), nil, func(int) float64 { return 1 }, 2)
	if ok {
		t.Fatalf("expected ok=false for empty input")
	}
}

func TestSeedRoundTrip(t *testing.T) {
	for _, s := range []int32{0, 1, 35, 36, 42, 1<<30 + 12345, 1<<31 - 1} {
		if got := random.DecodeSeed(random.EncodeSeed(s)); got != s {
			t.Fatalf("round trip failed for %d: got %d", s, got)
		}
	}
}

func TestDecodeInvalidSeedFallsBack(t *testing.T) {
	got := random.DecodeSeed("!!!invalid!!!")
	if got < 0 {
		t.Fatalf("expected a valid generated seed, got %d", got)
	}
	if neg := random.DecodeSeed("-zz"); neg < 0 {
		t.Fatalf("negative token must fall back to a fresh seed, got %d", neg)
	}
}
