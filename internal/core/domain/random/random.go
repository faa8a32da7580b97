package random

import "math"

// SeededRandom is a Mulberry32 pseudo-random generator. Given the same seed it
// produces the same sequence of values on every run, which is what makes
// shareable selection seeds reproducible. Not safe for concurrent use; create
// one per resolution request.
type SeededRandom struct {
	state uint32
}

// New creates a generator from a non-negative 31-bit seed.
func New(seed int32) *SeededRandom {
	return &SeededRandom{state: uint32(seed)}
}

// Next returns the next value in [0, 1). The state update and the two
// xorshift-multiply mixing rounds follow the Mulberry32 reference; uint32
// arithmetic wraps exactly like the 32-bit integer operations the algorithm
// is defined over.
func (r *SeededRandom) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// NextGaussian returns a normally distributed value via Box-Muller. Consumes
// at least two draws.
func (r *SeededRandom) NextGaussian(mean, stdDev float64) float64 {
	var u, v float64
	for u == 0 {
		u = r.Next()
	}
	for v == 0 {
		v = r.Next()
	}
	z := math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
	return z*stdDev + mean
}

// Weighted pairs an item with its selection weight.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// Shuffle returns a Fisher-Yates permutation of items. Consumes exactly
// len(items)-1 draws for non-trivial inputs; the input slice is not modified.
func Shuffle[T any](r *SeededRandom, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// WeightedSelect picks one item proportionally to its weight. A non-positive
// total weight returns the first item without consuming a draw; otherwise
// exactly one draw is consumed. ok is false only for an empty input.
func WeightedSelect[T any](r *SeededRandom, items []Weighted[T]) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}

	total := 0.0
	for _, it := range items {
		total += it.Weight
	}
	if total <= 0 {
		return items[0].Item, true
	}

	draw := r.Next() * total
	for _, it := range items {
		draw -= it.Weight
		if draw <= 0 {
			return it.Item, true
		}
	}
	// Floating point residue can leave draw slightly above zero.
	return items[len(items)-1].Item, true
}

// PickMultiple returns count distinct items in shuffled order. When count
// covers the whole input a full shuffle is returned.
func PickMultiple[T any](r *SeededRandom, items []T, count int) []T {
	if count >= len(items) {
		return Shuffle(r, items)
	}
	return Shuffle(r, items)[:count]
}

// BiasedSelect raises each item's bias score to strength and performs a
// weighted draw over the results. ok is false only for an empty input.
func BiasedSelect[T any](r *SeededRandom, items []T, bias func(T) float64, strength float64) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	weighted := make([]Weighted[T], len(items))
	for i, it := range items {
		weighted[i] = Weighted[T]{Item: it, Weight: math.Pow(bias(it), strength)}
	}
	return WeightedSelect(r, weighted)
}
