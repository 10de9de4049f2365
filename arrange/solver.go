package arrange

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

// ErrNoLegalPartition is reported as a Solution warning when every split of
// the hand fouls.
var ErrNoLegalPartition = errors.New("no legal partition")

// Solution is the solver's choice for one hand.
type Solution struct {
	Arrangement Arrangement
	Hands       []poker.Hand
	// Fallback is set when no legal partition exists and the arrangement is
	// the rank-sorted split; Warning then holds ErrNoLegalPartition.
	Fallback bool
	Warning  error
	// Examined counts complete legal partitions compared.
	Examined int
}

// Solver finds the strongest legal arrangement of a hand. It holds no
// per-hand state and is safe for concurrent use.
type Solver struct {
	variant *variant.Variant
	logger  *log.Logger
}

// NewSolver creates a solver for a validated variant. A nil logger discards.
func NewSolver(v *variant.Variant, logger *log.Logger) *Solver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Solver{variant: v, logger: logger.WithPrefix("solver")}
}

// Solve examines every partition of hand, skipping branches as soon as two
// filled neighbouring areas are out of order. Among legal partitions it keeps
// the highest ordinal sum, then the stronger middle area and so on up to the
// last area, then the stronger first area. The first partition found wins a
// full tie.
func (s *Solver) Solve(hand []poker.Card) (Solution, error) {
	start := time.Now()
	v := s.variant
	eval := v.Evaluator()
	n := len(v.Areas)

	memo := make(map[poker.CardSet]poker.Hand)
	current := make([]poker.Hand, n)

	accept := func(area int, set poker.CardSet, p *Partition) bool {
		h, ok := memo[set]
		if !ok {
			h = eval.EvaluateSet(set)
			memo[set] = h
		}
		current[area] = h
		if area > 0 && p.Assigned[area-1] && poker.Compare(current[area-1], h) > 0 {
			return false
		}
		if area < n-1 && p.Assigned[area+1] && poker.Compare(h, current[area+1]) > 0 {
			return false
		}
		return true
	}

	var (
		best     []poker.Hand
		bestArr  Arrangement
		examined int
	)
	visit := func(p *Partition) bool {
		examined++
		if best == nil || better(current, best) {
			best = append(best[:0], current...)
			bestArr = p.Arrangement()
		}
		return true
	}

	if err := Enumerate(v, hand, accept, visit); err != nil {
		return Solution{}, err
	}

	if best == nil {
		sol := s.fallback(hand)
		s.logger.Warn("No legal partition, using rank-sorted split",
			"variant", v.Name, "hand", poker.FormatCards(hand), "arrangement", sol.Arrangement)
		return sol, nil
	}

	s.logger.Debug("Solved hand",
		"variant", v.Name,
		"arrangement", bestArr,
		"examined", examined,
		"evaluated", len(memo),
		"duration", time.Since(start))

	return Solution{Arrangement: bestArr, Hands: best, Examined: examined}, nil
}

// better reports whether candidate beats the incumbent: higher ordinal sum,
// then area by area from index 1 upward, then area 0.
func better(candidate, incumbent []poker.Hand) bool {
	if d := ordinalSum(candidate) - ordinalSum(incumbent); d != 0 {
		return d > 0
	}
	n := len(candidate)
	for k := 1; k <= n; k++ {
		i := k % n
		if c := poker.Compare(candidate[i], incumbent[i]); c != 0 {
			return c > 0
		}
	}
	return false
}

func ordinalSum(hands []poker.Hand) int {
	sum := 0
	for _, h := range hands {
		sum += h.Ordinal
	}
	return sum
}

// fallback deals the cards lowest first into the areas in order.
func (s *Solver) fallback(hand []poker.Card) Solution {
	v := s.variant
	sorted := append([]poker.Card(nil), hand...)
	poker.SortCards(sorted)

	arr := make(Arrangement, len(v.Areas))
	hands := make([]poker.Hand, len(v.Areas))
	end := len(sorted)
	for i, a := range v.Areas {
		arr[i] = append([]poker.Card(nil), sorted[end-a.Size:end]...)
		end -= a.Size
		set, _ := poker.NewCardSet(arr[i])
		hands[i] = v.Evaluator().EvaluateSet(set)
	}
	return Solution{Arrangement: arr, Hands: hands, Fallback: true, Warning: ErrNoLegalPartition}
}
