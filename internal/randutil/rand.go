// Package randutil derives reproducible random sources for dealing.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"

	"github.com/lox/pusoy/poker"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived from it so that nearby seeds give unrelated streams.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewDeck returns a deck shuffled from seed.
func NewDeck(seed int64) *poker.Deck {
	return poker.NewDeck(New(seed))
}

// RandomSeed picks a fresh seed, for callers that log it so a deal can be
// replayed.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("failed to generate random seed: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
