package variant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pusoy/poker"
)

func TestBuiltinsValidate(t *testing.T) {
	t.Parallel()
	for _, v := range []*Variant{Thirteen(), Eight()} {
		require.NoError(t, v.Validate(), v.Name)
		total := 0
		for _, a := range v.Areas {
			total += a.Size
		}
		assert.Equal(t, v.HandSize, total, v.Name)
	}

	thirteen := Thirteen()
	assert.Equal(t, []string{"front", "middle", "back"}, thirteen.AreaNames())
	assert.Equal(t, 1, thirteen.AreaIndex("middle"))
	assert.Equal(t, -1, thirteen.AreaIndex("kitty"))
}

func TestBuiltinsAreIndependent(t *testing.T) {
	t.Parallel()
	a, b := Thirteen(), Thirteen()
	a.Areas[0].Points[poker.Pair] = 99
	assert.Equal(t, 1, b.Areas[0].Points[poker.Pair])
}

func TestEvaluateEnforcesAreaSize(t *testing.T) {
	t.Parallel()
	v := Eight()

	h, err := v.Evaluate(0, poker.MustParseCards("2d 2s"))
	require.NoError(t, err)
	assert.Equal(t, poker.Pair, h.Category)
	assert.Equal(t, 2, h.Ordinal)

	_, err = v.Evaluate(0, poker.MustParseCards("2d 2s 3c"))
	assert.ErrorIs(t, err, poker.ErrMalformedHand)

	_, err = v.Evaluate(5, poker.MustParseCards("2d"))
	assert.ErrorIs(t, err, poker.ErrMalformedHand)
}

func TestEightRanksTripsOverStraight(t *testing.T) {
	t.Parallel()
	v := Eight()
	straight, err := v.Evaluate(2, poker.MustParseCards("Qs Kh Ad"))
	require.NoError(t, err)
	trips, err := v.Evaluate(1, poker.MustParseCards("2s 2h 2d"))
	require.NoError(t, err)
	assert.Equal(t, 1, poker.Compare(trips, straight))
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(v *Variant)
	}{
		{"no name", func(v *Variant) { v.Name = "" }},
		{"no areas", func(v *Variant) { v.Areas = nil }},
		{"sizes do not sum", func(v *Variant) { v.HandSize = 12 }},
		{"area too large", func(v *Variant) { v.Areas[2].Size = 6; v.HandSize = 14 }},
		{"missing points", func(v *Variant) { delete(v.Areas[1].Points, poker.FullHouse) }},
		{"missing ordinal", func(v *Variant) { delete(v.Ordinals, poker.Flush) }},
		{"zero ordinal", func(v *Variant) { v.Ordinals[poker.Flush] = 0 }},
		{"ordinal clash", func(v *Variant) { v.Ordinals[poker.Flush] = v.Ordinals[poker.Straight] }},
		{"duplicate area", func(v *Variant) { v.Areas[1].Name = "front" }},
		{"duplicate special", func(v *Variant) { v.Specials = append(v.Specials, v.Specials[0]) }},
		{"unknown special", func(v *Variant) { v.Specials = append(v.Specials, SpecialRule{Pattern: "rainbow", Score: 1}) }},
		{"special without score", func(v *Variant) { v.Specials[0].Score = 0 }},
		{"inapplicable special", func(v *Variant) {
			v.Specials = append(v.Specials, SpecialRule{Pattern: FourPairs, Score: 2})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := Thirteen()
			tt.mutate(v)
			assert.ErrorIs(t, v.Validate(), ErrConfiguration)
		})
	}
}

const sampleConfig = `
variant "lowball-front" {
  area "front" {
    size   = 3
    points = { high_card = 1, pair = 2, straight = 2, three_of_a_kind = 5 }
  }
  area "middle" {
    size   = 5
    points = {
      high_card = 1, pair = 1, two_pair = 1, three_of_a_kind = 1, straight = 1
      flush = 1, full_house = 2, four_of_a_kind = 8, straight_flush = 10
    }
  }
  area "back" {
    size   = 5
    points = {
      high_card = 1, pair = 1, two_pair = 1, three_of_a_kind = 1, straight = 1
      flush = 1, full_house = 1, four_of_a_kind = 4, straight_flush = 5
    }
  }
  special "dragon" {
    score = 20
  }
}

variant "tiny" {
  hand_size = 4
  ordinals  = { high_card = 1, pair = 2 }
  area "front" {
    size   = 2
    points = { high_card = 1, pair = 1 }
  }
  area "back" {
    size   = 2
    points = { high_card = 1, pair = 3 }
  }
}
`

func TestParse(t *testing.T) {
	t.Parallel()
	variants, err := Parse([]byte(sampleConfig), "variants.hcl")
	require.NoError(t, err)
	require.Len(t, variants, 2)

	lb := variants[0]
	assert.Equal(t, "lowball-front", lb.Name)
	assert.Equal(t, 13, lb.HandSize, "hand size defaults to the area total")
	assert.Equal(t, poker.StandardOrdinals(), lb.Ordinals)
	assert.Equal(t, 5, lb.Areas[0].Points[poker.ThreeOfAKind])
	rule, ok := lb.Special(Dragon)
	require.True(t, ok)
	assert.Equal(t, 20, rule.Score)

	tiny := variants[1]
	assert.Equal(t, 4, tiny.HandSize)
	assert.Equal(t, 3, tiny.Points(1, poker.Hand{Category: poker.Pair}))
	assert.Empty(t, tiny.Specials)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"syntax": `variant "x" {`,
		"unknown category": `
variant "x" {
  area "only" {
    size   = 1
    points = { royal = 1 }
  }
}`,
		"missing points": `
variant "x" {
  area "only" {
    size   = 2
    points = { high_card = 1 }
  }
}`,
	}
	for name, src := range tests {
		_, err := Parse([]byte(src), name+".hcl")
		assert.Error(t, err, name)
	}

	_, err := Parse([]byte(tests["missing points"]), "x.hcl")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	assert.Equal(t, []string{"eight", "thirteen"}, r.Names())

	_, err := r.Get("nope")
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, r.LoadFile(filepath.Join(dir, "missing.hcl")))
	assert.Len(t, r.Names(), 2)

	path := filepath.Join(dir, "variants.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	require.NoError(t, r.LoadFile(path))

	v, err := r.Get("tiny")
	require.NoError(t, err)
	assert.Equal(t, []string{"front", "back"}, v.AreaNames())

	bad := Thirteen()
	bad.HandSize = 3
	assert.ErrorIs(t, r.Add(bad), ErrConfiguration)
}

func TestExampleVariantsFile(t *testing.T) {
	t.Parallel()
	variants, err := LoadFile(filepath.Join("..", "examples", "variants.hcl"))
	require.NoError(t, err)
	require.Len(t, variants, 2)

	nine := variants[0]
	assert.Equal(t, "nine", nine.Name)
	assert.Equal(t, 9, nine.HandSize)
	assert.Greater(t, nine.Ordinals[poker.ThreeOfAKind], nine.Ordinals[poker.Straight])

	royal := variants[1]
	assert.Equal(t, 13, royal.HandSize)
	assert.Empty(t, royal.Specials)
	assert.Equal(t, 16, royal.Areas[1].Points[poker.FourOfAKind])
}
