// Package special recognises whole-hand patterns that bypass area-by-area
// comparison and pay a fixed score.
package special

import (
	"github.com/lox/pusoy/arrange"
	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

// Result is a detected pattern.
type Result struct {
	Pattern variant.Pattern
	Score   int
	// Witness is a legal arrangement showing an area-dependent pattern. It is
	// nil for patterns that depend only on the cards held.
	Witness arrange.Arrangement
}

// Rule returns the variant rule the result was scored with.
func (r *Result) Rule() *variant.SpecialRule {
	return &variant.SpecialRule{Pattern: r.Pattern, Score: r.Score}
}

// Detect checks the variant's special patterns in configured order and
// returns the first that matches, or nil when the hand has none.
func Detect(v *variant.Variant, hand []poker.Card) (*Result, error) {
	if _, err := arrange.CheckHand(v, hand); err != nil {
		return nil, err
	}

	counts := rankCounts(hand)
	for _, rule := range v.Specials {
		var (
			ok      bool
			witness arrange.Arrangement
		)
		switch rule.Pattern {
		case variant.Dragon:
			ok = distinctRanks(counts) == int(poker.Ace-poker.Two)+1
		case variant.SixPairs:
			ok = pairs(counts) >= 6
		case variant.FourOfAKind:
			ok = maxCount(counts) == 4
		case variant.FourPairs:
			ok = pairs(counts) >= 4
		case variant.ThreeFlush:
			witness = search(v, hand, sameSuit)
			ok = witness != nil
		case variant.ThreeStraight:
			witness = search(v, hand, isRun)
			ok = witness != nil
		}
		if ok {
			return &Result{Pattern: rule.Pattern, Score: rule.Score, Witness: witness}, nil
		}
	}
	return nil, nil
}

// search looks for a legal arrangement in which every area satisfies pred.
func search(v *variant.Variant, hand []poker.Card, pred func(poker.CardSet) bool) arrange.Arrangement {
	eval := v.Evaluator()
	n := len(v.Areas)
	hands := make([]poker.Hand, n)

	accept := func(area int, set poker.CardSet, p *arrange.Partition) bool {
		if !pred(set) {
			return false
		}
		hands[area] = eval.EvaluateSet(set)
		if area > 0 && p.Assigned[area-1] && poker.Compare(hands[area-1], hands[area]) > 0 {
			return false
		}
		if area < n-1 && p.Assigned[area+1] && poker.Compare(hands[area], hands[area+1]) > 0 {
			return false
		}
		return true
	}

	var witness arrange.Arrangement
	_ = arrange.Enumerate(v, hand, accept, func(p *arrange.Partition) bool {
		witness = p.Arrangement()
		return false
	})
	return witness
}

func sameSuit(set poker.CardSet) bool {
	cards := set.Cards()
	for _, c := range cards[1:] {
		if c.Suit() != cards[0].Suit() {
			return false
		}
	}
	return true
}

// isRun reports whether the cards have distinct consecutive ranks, with the
// ace allowed low.
func isRun(set poker.CardSet) bool {
	cards := set.Cards()
	var seen [poker.Ace + 1]bool
	for _, c := range cards {
		if seen[c.Rank()] {
			return false
		}
		seen[c.Rank()] = true
	}
	top, bottom := cards[0].Rank(), cards[len(cards)-1].Rank()
	if int(top-bottom) == len(cards)-1 {
		return true
	}
	if top != poker.Ace || len(cards) < 2 {
		return false
	}
	// Ace low: the rest must be 2 up to len-1.
	next := cards[1].Rank()
	return bottom == poker.Two && int(next-bottom) == len(cards)-2
}

func rankCounts(hand []poker.Card) [poker.Ace + 1]int {
	var counts [poker.Ace + 1]int
	for _, c := range hand {
		counts[c.Rank()]++
	}
	return counts
}

func distinctRanks(counts [poker.Ace + 1]int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// pairs counts pairs, with four of a kind counting as two.
func pairs(counts [poker.Ace + 1]int) int {
	n := 0
	for _, c := range counts {
		n += c / 2
	}
	return n
}

func maxCount(counts [poker.Ace + 1]int) int {
	m := 0
	for _, c := range counts {
		m = max(m, c)
	}
	return m
}
