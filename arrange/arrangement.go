// Package arrange splits a player's hand into a variant's areas: it checks a
// player-supplied arrangement for fouls and searches every partition of an
// unordered hand for the strongest legal one.
package arrange

import (
	"fmt"
	"strings"

	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

// Arrangement holds the cards of each area, indexed in the variant's area
// order (front first).
type Arrangement [][]poker.Card

// Cards returns every card of the arrangement, area by area.
func (a Arrangement) Cards() []poker.Card {
	var out []poker.Card
	for _, area := range a {
		out = append(out, area...)
	}
	return out
}

// Clone returns a deep copy. Cloning nil gives nil.
func (a Arrangement) Clone() Arrangement {
	if a == nil {
		return nil
	}
	out := make(Arrangement, len(a))
	for i, area := range a {
		out[i] = append([]poker.Card(nil), area...)
	}
	return out
}

// String renders areas separated by " | ".
func (a Arrangement) String() string {
	parts := make([]string, len(a))
	for i, area := range a {
		parts[i] = poker.FormatCards(area)
	}
	return strings.Join(parts, " | ")
}

// ByName maps area names to their cards.
func (a Arrangement) ByName(v *variant.Variant) map[string][]poker.Card {
	out := make(map[string][]poker.Card, len(a))
	for i, area := range a {
		if i < len(v.Areas) {
			out[v.Areas[i].Name] = area
		}
	}
	return out
}

// FromNames builds an arrangement from an area-name mapping.
func FromNames(v *variant.Variant, areas map[string][]poker.Card) (Arrangement, error) {
	out := make(Arrangement, len(v.Areas))
	for name := range areas {
		if v.AreaIndex(name) < 0 {
			return nil, fmt.Errorf("%w: variant %s has no area %q", poker.ErrMalformedHand, v.Name, name)
		}
	}
	for i, a := range v.Areas {
		cards, ok := areas[a.Name]
		if !ok {
			return nil, fmt.Errorf("%w: area %s is missing", poker.ErrMalformedHand, a.Name)
		}
		out[i] = cards
	}
	return out, nil
}

// Parse reads areas separated by "|" or "/", front first, e.g.
// "2d 2s | 7h 9h Jh | Kh Ah 2c".
func Parse(s string) (Arrangement, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == '/' })
	out := make(Arrangement, 0, len(fields))
	for i, f := range fields {
		cards, err := poker.ParseCards(f)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i+1, err)
		}
		out = append(out, cards)
	}
	return out, nil
}

// Verdict is the outcome of validating an arrangement.
type Verdict struct {
	Foul bool
	// Boundary is the index of the earlier area at the first boundary where it
	// beats the later one, or -1 for a legal arrangement.
	Boundary int
	Hands    []poker.Hand
}

// Describe explains the verdict using the variant's area names.
func (vd Verdict) Describe(v *variant.Variant) string {
	if !vd.Foul {
		return "legal"
	}
	return fmt.Sprintf("foul: %s beats %s", v.Areas[vd.Boundary].Name, v.Areas[vd.Boundary+1].Name)
}

// Validate checks that the arrangement rebuilds hand exactly with the
// configured area sizes, then walks adjacent areas front to back. The first
// boundary where the earlier area is strictly stronger makes it a foul; ties
// are legal.
func Validate(v *variant.Variant, hand []poker.Card, arr Arrangement) (Verdict, error) {
	handSet, err := CheckHand(v, hand)
	if err != nil {
		return Verdict{}, err
	}
	if len(arr) != len(v.Areas) {
		return Verdict{}, fmt.Errorf("%w: variant %s has %d areas, arrangement has %d",
			poker.ErrMalformedHand, v.Name, len(v.Areas), len(arr))
	}

	var placed poker.CardSet
	hands := make([]poker.Hand, len(arr))
	for i, cards := range arr {
		for _, c := range cards {
			switch {
			case !handSet.Contains(c):
				return Verdict{}, fmt.Errorf("%w: %s is not in the hand", poker.ErrMalformedHand, c)
			case placed.Contains(c):
				return Verdict{}, fmt.Errorf("%w: %s is placed twice", poker.ErrMalformedHand, c)
			}
			placed.Add(c)
		}
		h, err := v.Evaluate(i, cards)
		if err != nil {
			return Verdict{}, err
		}
		hands[i] = h
	}
	if placed != handSet {
		return Verdict{}, fmt.Errorf("%w: cards %s are not placed", poker.ErrMalformedHand, handSet&^placed)
	}

	boundary := FirstFoul(hands)
	return Verdict{Foul: boundary >= 0, Boundary: boundary, Hands: hands}, nil
}

// FirstFoul returns the index of the earlier area at the first boundary
// where it beats the next area, or -1 when the areas are in order.
func FirstFoul(hands []poker.Hand) int {
	for i := 0; i+1 < len(hands); i++ {
		if poker.Compare(hands[i], hands[i+1]) > 0 {
			return i
		}
	}
	return -1
}

// CheckHand verifies the hand has the variant's size, valid cards and no
// repeats, returning it as a set.
func CheckHand(v *variant.Variant, hand []poker.Card) (poker.CardSet, error) {
	if len(hand) != v.HandSize {
		return 0, fmt.Errorf("%w: variant %s deals %d cards, hand has %d",
			poker.ErrMalformedHand, v.Name, v.HandSize, len(hand))
	}
	for _, c := range hand {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: invalid card %d", poker.ErrMalformedHand, c)
		}
	}
	set, dup := poker.NewCardSet(hand)
	if dup {
		return 0, fmt.Errorf("%w: hand %s repeats a card", poker.ErrMalformedHand, poker.FormatCards(hand))
	}
	return set, nil
}
