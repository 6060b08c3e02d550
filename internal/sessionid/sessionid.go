// Package sessionid generates short, shareable session seeds.
//
// Any text works as a session seed; these codes are just easy to read out
// loud. They use Crockford's base32 alphabet, so the ambiguous letters I, L,
// O and U never appear.
package sessionid

import (
	rand "math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet in lower case.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// DefaultLength is the code length used by Generate.
const DefaultLength = 8

// Generator produces session codes. A nil rng draws entropy from random
// UUIDs; tests inject a seeded *rand.Rand for reproducible codes.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a new generator with an optional rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate returns a new code of DefaultLength characters.
func Generate() string {
	return NewGenerator(nil).Generate(DefaultLength)
}

// Generate returns a code of n characters.
func (g *Generator) Generate(n int) string {
	var b strings.Builder
	b.Grow(n)

	var pool []byte
	for b.Len() < n {
		if g.rng != nil {
			b.WriteByte(alphabet[g.rng.IntN(len(alphabet))])
			continue
		}
		if len(pool) == 0 {
			id := uuid.New()
			// Byte 6 carries the version nibble.
			pool = append(id[:6:6], id[7:]...)
		}
		b.WriteByte(alphabet[pool[0]&0x1f])
		pool = pool[1:]
	}
	return b.String()
}
