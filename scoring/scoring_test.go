package scoring

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pusoy/arrange"
	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

func player(t *testing.T, v *variant.Variant, id, s string) Player {
	t.Helper()
	arr, err := arrange.Parse(s)
	require.NoError(t, err)
	verdict, err := arrange.Validate(v, arr.Cards(), arr)
	require.NoError(t, err)
	return Player{ID: id, Hands: verdict.Hands, Foul: verdict.Foul}
}

const (
	plainA = "2c 3d 5h | 9s 9d 4c 6h 7s | Qs Qd Jh Jc 3s"
	plainB = "2d 3h 5s | 9h 9c 4d 6s 7d | Qh Qc Js Jd 3c"
)

func TestIdenticalHandsTie(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	m, err := Score(v, []Player{player(t, v, "a", plainA), player(t, v, "b", plainB)})
	require.NoError(t, err)

	assert.Equal(t, 0, m.Net["a"])
	assert.Equal(t, 0, m.Net["b"])
	require.Len(t, m.Outcomes, 1)
	assert.Equal(t, ReasonAreas, m.Outcomes[0].Reason)
	assert.Equal(t, []int{0, 0, 0}, m.Outcomes[0].Areas)
}

func TestFoulPaysOpponentBase(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	foul := player(t, v, "foul", "Ks Kd 4h | 9s 2c 4c 6h 7s | Qs Qd Jh Jc 3s")
	clean := player(t, v, "clean", "2d 3h 5s | Th Tc Td 6s 6d | As Ac Ad Ah 3c")
	require.True(t, foul.Foul)
	require.False(t, clean.Foul)

	// High card 1 + middle full house 2 + back quads 4.
	assert.Equal(t, 7, Base(v, clean))

	m, err := Score(v, []Player{foul, clean})
	require.NoError(t, err)
	assert.Equal(t, -7, m.Net["foul"])
	assert.Equal(t, 7, m.Net["clean"])
	assert.Equal(t, ReasonFoul, m.Outcomes[0].Reason)
}

func TestSpecialCollectsFromEveryOpponent(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	rule, ok := v.Special(variant.ThreeFlush)
	require.True(t, ok)

	players := []Player{
		{ID: "flush", Special: &rule},
		player(t, v, "a", plainA),
		player(t, v, "b", plainB),
	}
	m, err := Score(v, players)
	require.NoError(t, err)

	assert.Equal(t, 6, m.Net["flush"])
	assert.Equal(t, -3, m.Net["a"])
	assert.Equal(t, -3, m.Net["b"])
	assert.Equal(t, 3, m.Delta("flush", "a"))
	assert.Equal(t, -3, m.Delta("b", "flush"))
	assert.Equal(t, 0, m.Delta("a", "b"))
}

func TestAreaPoints(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	a := player(t, v, "a", plainA)
	strong := player(t, v, "strong", "Ts Th Tc | Ks Kd Kc Kh Ac | 9c 8c 7c 6c 5c")
	aceFront := player(t, v, "ace", "Ad 3h 5s | 9h 9c 4d 6s 7d | Qh Qc Js Jd 3c")

	o := Pair(v, a, strong)
	assert.Equal(t, []int{-3, -8, -5}, o.Areas)
	assert.Equal(t, -16, o.Total)

	o = Pair(v, aceFront, a)
	assert.Equal(t, []int{1, 0, 0}, o.Areas)
	assert.Equal(t, 1, o.Total)
}

func TestPairPrecedence(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	dragon, _ := v.Special(variant.Dragon)
	sixPairs, _ := v.Special(variant.SixPairs)
	clean := player(t, v, "clean", plainA)
	foul := player(t, v, "foul", "Ks Kd 4h | 9s 2c 4c 6h 7s | Qs Qd Jh Jc 3s")

	tests := []struct {
		name   string
		a, b   Player
		reason Reason
		total  int
	}{
		{"both special", Player{ID: "x", Special: &dragon}, Player{ID: "y", Special: &sixPairs}, ReasonBothSpecial, 0},
		{"special beats foul", Player{ID: "x", Special: &sixPairs}, foul, ReasonSpecial, 4},
		{"special against clean", clean, Player{ID: "x", Special: &dragon}, ReasonSpecial, -13},
		{"both foul", foul, foul, ReasonBothFoul, 0},
		{"foul against clean", clean, foul, ReasonFoul, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := Pair(v, tt.a, tt.b)
			assert.Equal(t, tt.reason, o.Reason)
			assert.Equal(t, tt.total, o.Total)
		})
	}
}

func TestScoreRejects(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	a := player(t, v, "a", plainA)

	_, err := Score(v, []Player{a})
	assert.ErrorIs(t, err, ErrInvalidPlayers)

	_, err = Score(v, []Player{a, a})
	assert.ErrorIs(t, err, ErrInvalidPlayers)

	short := Player{ID: "short", Hands: a.Hands[:2]}
	_, err = Score(v, []Player{a, short})
	assert.ErrorIs(t, err, ErrInvalidPlayers)
}

func TestMatrixIsAntisymmetricAndZeroSum(t *testing.T) {
	t.Parallel()
	v := variant.Thirteen()
	solver := arrange.NewSolver(v, nil)
	rng := rand.New(rand.NewPCG(3, 5))

	for round := range 3 {
		deck := poker.NewDeck(rng)
		players := make([]Player, 4)
		for i := range players {
			sol, err := solver.Solve(deck.Deal(v.HandSize))
			require.NoError(t, err)
			players[i] = Player{ID: fmt.Sprintf("p%d", i), Hands: sol.Hands}
		}
		// Foul one player each round to exercise every branch.
		players[round%4].Foul = true

		m, err := Score(v, players)
		require.NoError(t, err)

		sum := 0
		for i := range m.IDs {
			assert.Zero(t, m.Pairs[i][i])
			for j := range m.IDs {
				assert.Equal(t, -m.Pairs[i][j], m.Pairs[j][i])
			}
			sum += m.Net[m.IDs[i]]
		}
		assert.Zero(t, sum)
		assert.Len(t, m.Outcomes, 6)
	}
}
