// Package variant describes a Chinese-poker game variant: the ordered areas a
// hand is split into, the strength of each category, the points each area
// pays and the whole-hand special patterns the variant recognises.
package variant

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/pusoy/poker"
)

// ErrConfiguration reports a variant that cannot be played as configured.
var ErrConfiguration = errors.New("invalid variant configuration")

// Pattern names a whole-hand special pattern.
type Pattern string

const (
	// Dragon is one card of every rank.
	Dragon Pattern = "dragon"
	// SixPairs is six pairs plus a single in a thirteen-card hand.
	SixPairs Pattern = "six_pairs"
	// ThreeFlush is a legal split where every area is a single suit.
	ThreeFlush Pattern = "three_flush"
	// ThreeStraight is a legal split where every area is a run.
	ThreeStraight Pattern = "three_straight"
	// FourOfAKind is any four cards of one rank in an eight-card hand.
	FourOfAKind Pattern = "four_of_a_kind"
	// FourPairs is four pairs in an eight-card hand.
	FourPairs Pattern = "four_pairs"
)

// Patterns lists every recognised pattern.
var Patterns = []Pattern{Dragon, SixPairs, ThreeFlush, ThreeStraight, FourOfAKind, FourPairs}

var patternNames = map[Pattern]string{
	Dragon:        "Dragon",
	SixPairs:      "Six Pairs",
	ThreeFlush:    "Three Flushes",
	ThreeStraight: "Three Straights",
	FourOfAKind:   "Four of a Kind",
	FourPairs:     "Four Pairs",
}

// String returns the display name of the pattern.
func (p Pattern) String() string {
	if n, ok := patternNames[p]; ok {
		return n
	}
	return string(p)
}

// Area is one fixed-size sub-hand.
type Area struct {
	Name string
	Size int
	// Points pays the winner of this area according to the winner's category.
	Points map[poker.Category]int
}

// SpecialRule enables a pattern with the fixed score it collects from each
// opponent without one.
type SpecialRule struct {
	Pattern Pattern
	Score   int
}

// Variant is a complete, validated game configuration. Areas are in
// comparison order, weakest first.
type Variant struct {
	Name     string
	HandSize int
	Areas    []Area
	Ordinals poker.Ordinals
	// Specials are checked in order; the first match wins.
	Specials []SpecialRule

	eval *poker.Evaluator
}

// Evaluator returns the evaluator bound to the variant's ordinals. Validate
// builds it once; an unvalidated variant gets a fresh one per call.
func (v *Variant) Evaluator() *poker.Evaluator {
	if v.eval == nil {
		return poker.NewEvaluator(v.Ordinals)
	}
	return v.eval
}

// AreaIndex returns the position of the named area, or -1.
func (v *Variant) AreaIndex(name string) int {
	for i, a := range v.Areas {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// AreaNames returns the area names in comparison order.
func (v *Variant) AreaNames() []string {
	names := make([]string, len(v.Areas))
	for i, a := range v.Areas {
		names[i] = a.Name
	}
	return names
}

// Evaluate classifies the cards placed in the given area.
func (v *Variant) Evaluate(area int, cards []poker.Card) (poker.Hand, error) {
	if area < 0 || area >= len(v.Areas) {
		return poker.Hand{}, fmt.Errorf("%w: no area %d in variant %s", poker.ErrMalformedHand, area, v.Name)
	}
	if want := v.Areas[area].Size; len(cards) != want {
		return poker.Hand{}, fmt.Errorf("%w: area %s needs %d cards, got %d",
			poker.ErrMalformedHand, v.Areas[area].Name, want, len(cards))
	}
	return v.Evaluator().Evaluate(cards)
}

// Points returns what the winner of an area collects with the given hand.
func (v *Variant) Points(area int, h poker.Hand) int {
	return v.Areas[area].Points[h.Category]
}

// Special returns the rule for a pattern if the variant enables it.
func (v *Variant) Special(p Pattern) (SpecialRule, bool) {
	for _, s := range v.Specials {
		if s.Pattern == p {
			return s, true
		}
	}
	return SpecialRule{}, false
}

// Validate checks the configuration exhaustively so that no lookup made
// while playing can miss.
func (v *Variant) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: variant has no name", ErrConfiguration)
	}
	if len(v.Areas) == 0 {
		return fmt.Errorf("%w: variant %s has no areas", ErrConfiguration, v.Name)
	}

	total := 0
	reachable := make(map[poker.Category]bool)
	names := make(map[string]bool)
	for _, a := range v.Areas {
		if a.Name == "" {
			return fmt.Errorf("%w: variant %s has an unnamed area", ErrConfiguration, v.Name)
		}
		if names[a.Name] {
			return fmt.Errorf("%w: variant %s repeats area %s", ErrConfiguration, v.Name, a.Name)
		}
		names[a.Name] = true
		if a.Size < 1 || a.Size > poker.MaxAreaSize {
			return fmt.Errorf("%w: variant %s area %s has size %d, want 1-%d",
				ErrConfiguration, v.Name, a.Name, a.Size, poker.MaxAreaSize)
		}
		total += a.Size

		for _, c := range poker.Reachable(a.Size) {
			reachable[c] = true
			if _, ok := a.Points[c]; !ok {
				return fmt.Errorf("%w: variant %s area %s has no points for %s",
					ErrConfiguration, v.Name, a.Name, c.Key())
			}
		}
	}
	if total != v.HandSize {
		return fmt.Errorf("%w: variant %s areas hold %d cards, hand size is %d",
			ErrConfiguration, v.Name, total, v.HandSize)
	}
	if v.HandSize > poker.NumCards/2 {
		return fmt.Errorf("%w: variant %s hand size %d leaves no room for a second player",
			ErrConfiguration, v.Name, v.HandSize)
	}

	used := make(map[int]poker.Category)
	for c := range reachable {
		o, ok := v.Ordinals[c]
		if !ok || o <= 0 {
			return fmt.Errorf("%w: variant %s has no ordinal for %s", ErrConfiguration, v.Name, c.Key())
		}
		if other, clash := used[o]; clash {
			return fmt.Errorf("%w: variant %s gives %s and %s the same ordinal %d",
				ErrConfiguration, v.Name, c.Key(), other.Key(), o)
		}
		used[o] = c
	}

	seen := make(map[Pattern]bool)
	for _, s := range v.Specials {
		if seen[s.Pattern] {
			return fmt.Errorf("%w: variant %s repeats special %s", ErrConfiguration, v.Name, s.Pattern)
		}
		seen[s.Pattern] = true
		if s.Score <= 0 {
			return fmt.Errorf("%w: variant %s special %s must score above zero",
				ErrConfiguration, v.Name, s.Pattern)
		}
		if err := v.checkPattern(s.Pattern); err != nil {
			return err
		}
	}

	v.eval = poker.NewEvaluator(v.Ordinals)
	return nil
}

func (v *Variant) checkPattern(p Pattern) error {
	need := func(ok bool, why string) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: variant %s cannot use special %s: %s", ErrConfiguration, v.Name, p, why)
	}
	switch p {
	case Dragon, SixPairs:
		return need(v.HandSize == 13, "needs a thirteen-card hand")
	case FourOfAKind, FourPairs:
		return need(v.HandSize == 8, "needs an eight-card hand")
	case ThreeFlush, ThreeStraight:
		return need(len(v.Areas) == 3, "needs exactly three areas")
	}
	return fmt.Errorf("%w: variant %s has unknown special %q", ErrConfiguration, v.Name, p)
}

// CategoryKeys lists the categories of a points table in ordinal order, for
// stable display.
func (v *Variant) CategoryKeys(area int) []poker.Category {
	keys := make([]poker.Category, 0, len(v.Areas[area].Points))
	for c := range v.Areas[area].Points {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return v.Ordinals[keys[i]] < v.Ordinals[keys[j]] })
	return keys
}
