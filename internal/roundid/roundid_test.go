package roundid

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	id := NewGenerator(nil, nil).Generate()
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
	assert.LessOrEqual(t, id[0], byte('7'))
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()
	gen := NewGenerator(nil, nil)
	ids := make(map[string]bool)
	for range 100 {
		id := gen.Generate()
		require.False(t, ids[id], "duplicate ID %s", id)
		ids[id] = true
	}
}

func TestGenerateSortsByClock(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	gen := NewGenerator(clock, rand.New(rand.NewPCG(1, 2)))

	var ids []string
	for range 10 {
		ids = append(ids, gen.Generate())
		clock.Advance(time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s >= %s", ids[i-1], ids[i])
	}
}

func TestTimestamp(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 10, 17, 9, 30, 15, 123_000_000, time.UTC)
	clock := quartz.NewMock(t)
	clock.Set(at)

	id := NewGenerator(clock, nil).Generate()
	got, err := Timestamp(id)
	require.NoError(t, err)
	assert.True(t, got.Equal(at), "got %v want %v", got, at)

	_, err = Timestamp("short")
	assert.Error(t, err)
}

func TestDeterministicRandomBits(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	a := NewGenerator(clock, rand.New(rand.NewPCG(5, 6))).Generate()
	b := NewGenerator(clock, rand.New(rand.NewPCG(5, 6))).Generate()
	assert.Equal(t, a, b)
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()
	var u [16]byte
	for i := range u {
		u[i] = byte(0xff - i*7)
	}
	back, err := decode(encode(u))
	require.NoError(t, err)
	assert.Equal(t, u, back)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase", "01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
