// Package roundid generates sortable round identifiers: a UUIDv7 stamped from
// an injected clock, written as 26 lowercase Crockford base32 characters.
package roundid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Crockford's base32, lowercase
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the encoded size of an identifier.
const Length = 26

// RandSource supplies the random bits. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator creates round identifiers.
type Generator struct {
	clock      quartz.Clock
	randSource RandSource
}

// NewGenerator returns a generator reading time from clock. A nil randSource
// uses crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, randSource: randSource}
}

// Generate creates a new identifier.
func (g *Generator) Generate() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var u [16]byte

	// 48-bit big-endian millisecond timestamp
	ms := uint64(g.clock.Now().UnixMilli())
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], ms)
	copy(u[:6], ts[2:])

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			u[i] = byte(g.randSource.IntN(256))
		}
	} else if _, err := rand.Read(u[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	u[6] = (u[6] & 0x0f) | 0x70 // version 7
	u[8] = (u[8] & 0x3f) | 0x80 // variant 10
	return u
}

// encode writes the 128 bits as 26 base32 digits, most significant first,
// with two leading zero bits so the first digit is at most '7'.
func encode(u [16]byte) string {
	hi := binary.BigEndian.Uint64(u[:8])
	lo := binary.BigEndian.Uint64(u[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

func decode(id string) ([16]byte, error) {
	var u [16]byte
	if err := Validate(id); err != nil {
		return u, err
	}
	var hi, lo uint64
	for i := 0; i < len(id); i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	binary.BigEndian.PutUint64(u[:8], hi)
	binary.BigEndian.PutUint64(u[8:], lo)
	return u, nil
}

// Validate checks that id is 26 base32 characters encoding at most 128 bits.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

// Timestamp returns the time an identifier was generated, to the millisecond.
func Timestamp(id string) (time.Time, error) {
	u, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	var ts [8]byte
	copy(ts[2:], u[:6])
	return time.UnixMilli(int64(binary.BigEndian.Uint64(ts[:]))), nil
}
