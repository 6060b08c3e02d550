// Package randutil holds the deterministic randomness used to deal cards.
//
// Every client in a game derives the same shuffle from the same session seed,
// so nothing in here may depend on the platform, the Go version or any global
// state. The bit manipulation matches the existing browser clients exactly.
package randutil

import "unicode/utf16"

// SeedFromString folds a session seed into a 32-bit integer seed.
//
// The string is walked as UTF-16 code units so that seeds outside the ASCII
// range hash the same way they do in a browser. The empty string yields 0.
func SeedFromString(s string) int32 {
	var seed int32
	for _, unit := range utf16.Encode([]rune(s)) {
		seed ^= seed << 5
		seed ^= int32(unit)
	}
	return seed
}

// Xorshift32 is a 32-bit xorshift generator with signed state.
//
// A zero seed keeps the generator at zero forever. Callers tolerate this; a
// zero stream still produces a valid (identity-like) shuffle.
type Xorshift32 struct {
	state int32
}

// NewXorshift32 returns a generator whose state starts at seed.
func NewXorshift32(seed int32) *Xorshift32 {
	return &Xorshift32{state: seed}
}

// Next advances the generator and returns the absolute value of its state.
// The result is unsigned so that |math.MinInt32| is representable.
func (x *Xorshift32) Next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	if s < 0 {
		return uint32(-int64(s))
	}
	return uint32(s)
}

// Shuffle permutes s in place with a backward Fisher-Yates pass driven by a
// fresh Xorshift32 seeded with seed. The permutation depends only on len(s)
// and seed.
func Shuffle[T any](s []T, seed int32) {
	rng := NewXorshift32(seed)
	for i := len(s); i > 0; {
		j := int(rng.Next() % uint32(i))
		i--
		s[i], s[j] = s[j], s[i]
	}
}
