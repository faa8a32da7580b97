package random

import (
	"math/rand"
	"strconv"
)

// GenerateSeed returns a fresh non-negative 31-bit seed. Generation does not
// need to be reproducible, only replay does.
func GenerateSeed() int32 {
	return rand.Int31()
}

// EncodeSeed renders a seed as a compact base-36 token for shareable URLs.
func EncodeSeed(seed int32) string {
	return strconv.FormatInt(int64(seed), 36)
}

// DecodeSeed parses a base-36 seed token. Invalid or negative tokens yield a
// freshly generated seed instead of an error so that a corrupted share link
// still resolves to a game.
func DecodeSeed(token string) int32 {
	v, err := strconv.ParseInt(token, 36, 32)
	if err != nil || v < 0 {
		return GenerateSeed()
	}
	return int32(v)
}
