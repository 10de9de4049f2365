// Package scoring settles a finished round: every pair of players is scored
// head to head and each player's net is the sum of their pairwise results.
package scoring

import (
	"errors"
	"fmt"

	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

// ErrInvalidPlayers reports a table that cannot be scored.
var ErrInvalidPlayers = errors.New("invalid players")

// Player is one player's final state.
type Player struct {
	ID    string
	Hands []poker.Hand // evaluated areas, unused when Special is set
	Foul  bool
	// Special is the confirmed pattern, if any. A special hand is never foul.
	Special *variant.SpecialRule
}

// Reason explains how a pair was settled.
type Reason string

const (
	ReasonAreas       Reason = "areas"
	ReasonSpecial     Reason = "special"
	ReasonBothSpecial Reason = "both_special"
	ReasonFoul        Reason = "foul"
	ReasonBothFoul    Reason = "both_foul"
)

// Outcome is the settlement of one pair, from A's point of view.
type Outcome struct {
	A, B   string
	Reason Reason
	// Areas holds the per-area result when Reason is ReasonAreas.
	Areas []int
	Total int
}

// Matrix holds every pairwise result. Pairs[i][j] is what player i won from
// player j, so Pairs[j][i] == -Pairs[i][j] and the diagonal is zero.
type Matrix struct {
	IDs      []string
	Pairs    [][]int
	Net      map[string]int
	Outcomes []Outcome
}

// Delta returns what player a won from player b.
func (m *Matrix) Delta(a, b string) int {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0
	}
	return m.Pairs[i][j]
}

func (m *Matrix) index(id string) int {
	for i, x := range m.IDs {
		if x == id {
			return i
		}
	}
	return -1
}

// Score settles every pair of players.
func Score(v *variant.Variant, players []Player) (*Matrix, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: need at least two players, got %d", ErrInvalidPlayers, len(players))
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrInvalidPlayers, p.ID)
		}
		seen[p.ID] = true
		if p.Special == nil && len(p.Hands) != len(v.Areas) {
			return nil, fmt.Errorf("%w: player %s has %d areas, variant %s has %d",
				ErrInvalidPlayers, p.ID, len(p.Hands), v.Name, len(v.Areas))
		}
	}

	n := len(players)
	m := &Matrix{
		IDs:   make([]string, n),
		Pairs: make([][]int, n),
		Net:   make(map[string]int, n),
	}
	for i, p := range players {
		m.IDs[i] = p.ID
		m.Pairs[i] = make([]int, n)
		m.Net[p.ID] = 0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			o := Pair(v, players[i], players[j])
			m.Pairs[i][j] = o.Total
			m.Pairs[j][i] = -o.Total
			m.Net[players[i].ID] += o.Total
			m.Net[players[j].ID] -= o.Total
			m.Outcomes = append(m.Outcomes, o)
		}
	}
	return m, nil
}

// Pair settles a against b. Specials are checked first, then fouls, then the
// areas one by one.
func Pair(v *variant.Variant, a, b Player) Outcome {
	o := Outcome{A: a.ID, B: b.ID}
	switch {
	case a.Special != nil && b.Special != nil:
		o.Reason = ReasonBothSpecial
	case a.Special != nil:
		o.Reason, o.Total = ReasonSpecial, a.Special.Score
	case b.Special != nil:
		o.Reason, o.Total = ReasonSpecial, -b.Special.Score
	case a.Foul && b.Foul:
		o.Reason = ReasonBothFoul
	case a.Foul:
		o.Reason, o.Total = ReasonFoul, -Base(v, b)
	case b.Foul:
		o.Reason, o.Total = ReasonFoul, Base(v, a)
	default:
		o.Reason = ReasonAreas
		o.Areas = make([]int, len(v.Areas))
		for k := range v.Areas {
			switch poker.Compare(a.Hands[k], b.Hands[k]) {
			case 1:
				o.Areas[k] = v.Points(k, a.Hands[k])
			case -1:
				o.Areas[k] = -v.Points(k, b.Hands[k])
			}
			o.Total += o.Areas[k]
		}
	}
	return o
}

// Base is the sum of the points a player's areas are worth, which is what a
// fouled opponent pays them.
func Base(v *variant.Variant, p Player) int {
	total := 0
	for k, h := range p.Hands {
		total += v.Points(k, h)
	}
	return total
}
