package arrange

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

func TestEnumerateCountsEveryPartition(t *testing.T) {
	t.Parallel()
	v := variant.Eight()
	hand := poker.MustParseCards("2d 2c 2s 7h 9h Jh Kh Ah")
	full, _ := poker.NewCardSet(hand)

	seen := make(map[[3]poker.CardSet]bool)
	err := Enumerate(v, hand, nil, func(p *Partition) bool {
		var union poker.CardSet
		for i, s := range p.Sets {
			assert.Equal(t, v.Areas[i].Size, s.Len())
			assert.Zero(t, union&s)
			union |= s
		}
		assert.Equal(t, full, union)
		seen[[3]poker.CardSet{p.Sets[0], p.Sets[1], p.Sets[2]}] = true
		return true
	})
	require.NoError(t, err)
	// C(8,3) * C(5,3) ways to fill back then middle.
	assert.Len(t, seen, 56*10)
}

func TestEnumerateFillOrder(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	hand := poker.MustParseCards("As Ks Qs Js Ts 9h 9d 9c 9s 2h 3d 4c 5d")

	var order []int
	err := Enumerate(v, hand, func(area int, _ poker.CardSet, _ *Partition) bool {
		order = append(order, area)
		return true
	}, func(*Partition) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, order, "back, then middle, then the remainder in front")
}

func TestEnumeratePruneAndStop(t *testing.T) {
	t.Parallel()
	v := variant.Eight()
	hand := poker.MustParseCards("2d 2c 2s 7h 9h Jh Kh Ah")

	visits := 0
	err := Enumerate(v, hand, func(area int, _ poker.CardSet, _ *Partition) bool {
		return area != 2
	}, func(*Partition) bool {
		visits++
		return true
	})
	require.NoError(t, err)
	assert.Zero(t, visits)

	err = Enumerate(v, hand, nil, func(*Partition) bool {
		visits++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, visits)

	err = Enumerate(v, hand[:5], nil, func(*Partition) bool { return true })
	assert.ErrorIs(t, err, poker.ErrMalformedHand)
}

func TestSolveThirteen(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	hand := poker.MustParseCards("As Ks Qs Js Ts 9h 9d 9c 9s 2h 3d 4c 5d")

	sol, err := NewSolver(v, quietLogger()).Solve(hand)
	require.NoError(t, err)
	assert.False(t, sol.Fallback)
	assert.NoError(t, sol.Warning)
	assert.Positive(t, sol.Examined)

	assert.Equal(t, poker.Straight, sol.Hands[0].Category)
	assert.Equal(t, poker.FourOfAKind, sol.Hands[1].Category)
	assert.Equal(t, poker.StraightFlush, sol.Hands[2].Category)
	// Both three-card straights fit in front; the stronger middle kicker wins.
	assert.Equal(t, poker.MustParseCards("4c 3d 2h"), sol.Arrangement[0])
	assert.Equal(t, []poker.Rank{poker.Nine, poker.Five}, sol.Hands[1].Ranks)

	verdict, err := Validate(v, hand, sol.Arrangement)
	require.NoError(t, err)
	assert.False(t, verdict.Foul)
}

func TestSolveEight(t *testing.T) {
	t.Parallel()
	v := variant.Eight()
	hand := poker.MustParseCards("2d 2c 2s 7h 9h Jh Kh Ah")

	sol, err := NewSolver(v, nil).Solve(hand)
	require.NoError(t, err)
	assert.Equal(t, poker.MustParseCards("9h 7h"), sol.Arrangement[0])
	assert.Equal(t, poker.MustParseCards("Ah Kh Jh"), sol.Arrangement[1])
	assert.Equal(t, poker.MustParseCards("2s 2c 2d"), sol.Arrangement[2])
	assert.Equal(t, poker.ThreeOfAKind, sol.Hands[2].Category)
}

func TestSolveFallback(t *testing.T) {
	t.Parallel()
	wide := map[poker.Category]int{}
	for _, c := range poker.Reachable(5) {
		wide[c] = 1
	}
	v := &variant.Variant{
		Name:     "inverted",
		HandSize: 6,
		Ordinals: poker.StandardOrdinals(),
		Areas: []variant.Area{
			{Name: "wide", Size: 5, Points: wide},
			{Name: "single", Size: 1, Points: map[poker.Category]int{poker.HighCard: 1}},
		},
	}
	require.NoError(t, v.Validate())

	hand := poker.MustParseCards("Qh As Ks Ah Kh Qs")
	sol, err := NewSolver(v, quietLogger()).Solve(hand)
	require.NoError(t, err)
	assert.True(t, sol.Fallback)
	assert.ErrorIs(t, sol.Warning, ErrNoLegalPartition)
	assert.Zero(t, sol.Examined)
	assert.Equal(t, poker.MustParseCards("Ah Ks Kh Qs Qh"), sol.Arrangement[0])
	assert.Equal(t, poker.MustParseCards("As"), sol.Arrangement[1])
	assert.Equal(t, poker.TwoPair, sol.Hands[0].Category)

	again, err := NewSolver(v, nil).Solve(hand)
	require.NoError(t, err)
	assert.Equal(t, sol.Arrangement, again.Arrangement)
}

func TestSolveMalformed(t *testing.T) {
	t.Parallel()
	_, err := NewSolver(variant.Eight(), nil).Solve(poker.MustParseCards("2d 2c 2s"))
	assert.ErrorIs(t, err, poker.ErrMalformedHand)
}

// TestSolveMatchesBruteForce checks the pruned search against a plain walk of
// every partition.
func TestSolveMatchesBruteForce(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(7, 11))

	for _, v := range []*variant.Variant{variant.Eight(), variant.Thirteen()} {
		solver := NewSolver(v, nil)
		rounds := 40
		if v.HandSize == 13 {
			rounds = 3
		}
		for range rounds {
			hand := poker.NewDeck(rng).Deal(v.HandSize)

			bestSum := -1
			err := Enumerate(v, hand, nil, func(p *Partition) bool {
				hands := make([]poker.Hand, len(p.Sets))
				for i, s := range p.Sets {
					hands[i] = v.Evaluator().EvaluateSet(s)
				}
				if FirstFoul(hands) < 0 && ordinalSum(hands) > bestSum {
					bestSum = ordinalSum(hands)
				}
				return true
			})
			require.NoError(t, err)

			sol, err := solver.Solve(hand)
			require.NoError(t, err)
			if bestSum < 0 {
				assert.True(t, sol.Fallback, poker.FormatCards(hand))
				continue
			}
			require.False(t, sol.Fallback, poker.FormatCards(hand))
			assert.Equal(t, bestSum, ordinalSum(sol.Hands), "%s %s", v.Name, poker.FormatCards(hand))

			verdict, err := Validate(v, hand, sol.Arrangement)
			require.NoError(t, err)
			assert.False(t, verdict.Foul)
		}
	}
}

func BenchmarkSolveThirteen(b *testing.B) {
	v := variant.Thirteen()
	solver := NewSolver(v, nil)
	hand := poker.NewDeck(rand.New(rand.NewPCG(1, 2))).Deal(13)
	b.ResetTimer()
	for range b.N {
		if _, err := solver.Solve(hand); err != nil {
			b.Fatal(err)
		}
	}
}
