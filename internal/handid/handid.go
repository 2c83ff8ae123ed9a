// Package handid names played hands with time-ordered, 26 character IDs: a
// UUIDv7 written in Crockford base32.
package handid

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the size of every generated ID.
const Length = 26

// RandSource supplies the random half of an ID. *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator issues hand IDs. It is not safe for concurrent use when built
// with a RandSource that isn't.
type Generator struct {
	clock quartz.Clock
	rng   RandSource
}

// New returns a generator. A nil clock uses the wall clock and a nil rng
// uses crypto/rand.
func New(clock quartz.Clock, rng RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate returns a new ID. IDs from the same generator sort by creation
// time at millisecond resolution.
func (g *Generator) Generate() string {
	var id [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := range 6 {
		id[i] = byte(ms >> (40 - 8*i))
	}
	if g.rng != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rng.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("handid: reading random bytes: " + err.Error())
	}

	id[6] = id[6]&0x0f | 0x70 // version 7
	id[8] = id[8]&0x3f | 0x80 // RFC 4122 variant

	return encode(id)
}

// encode writes the 128 bits big-endian as 26 base32 digits, the first
// digit carrying only the top 3 bits.
func encode(id [16]byte) string {
	out := make([]byte, Length)
	var acc uint32
	bits := 2 // two implicit leading zero bits pad 128 to 130
	pos := 0
	for _, b := range id {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>bits)&0x1f]
			pos++
		}
	}
	return string(out)
}

// Validate reports whether id could have come from Generate.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %c at position %d", r, i)
		}
	}
	return nil
}
