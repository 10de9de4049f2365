package variant

import (
	"fmt"
	"sort"

	"github.com/lox/pusoy/poker"
)

// Thirteen returns the classic thirteen-card game: front 3, middle 5, back 5.
func Thirteen() *Variant {
	v := &Variant{
		Name:     "thirteen",
		HandSize: 13,
		Ordinals: poker.StandardOrdinals(),
		Areas: []Area{
			{Name: "front", Size: 3, Points: map[poker.Category]int{
				poker.HighCard:     1,
				poker.Pair:         1,
				poker.Straight:     1,
				poker.ThreeOfAKind: 3,
			}},
			{Name: "middle", Size: 5, Points: map[poker.Category]int{
				poker.HighCard:      1,
				poker.Pair:          1,
				poker.TwoPair:       1,
				poker.ThreeOfAKind:  1,
				poker.Straight:      1,
				poker.Flush:         1,
				poker.FullHouse:     2,
				poker.FourOfAKind:   8,
				poker.StraightFlush: 10,
			}},
			{Name: "back", Size: 5, Points: map[poker.Category]int{
				poker.HighCard:      1,
				poker.Pair:          1,
				poker.TwoPair:       1,
				poker.ThreeOfAKind:  1,
				poker.Straight:      1,
				poker.Flush:         1,
				poker.FullHouse:     1,
				poker.FourOfAKind:   4,
				poker.StraightFlush: 5,
			}},
		},
		Specials: []SpecialRule{
			{Pattern: Dragon, Score: 13},
			{Pattern: SixPairs, Score: 4},
			{Pattern: ThreeFlush, Score: 3},
			{Pattern: ThreeStraight, Score: 3},
		},
	}
	return mustValidate(v)
}

// Eight returns the eight-card game: front 2, middle 3, back 3. Three-card
// areas rank trips above a straight.
func Eight() *Variant {
	v := &Variant{
		Name:     "eight",
		HandSize: 8,
		Ordinals: poker.Ordinals{
			poker.HighCard:     1,
			poker.Pair:         2,
			poker.Straight:     3,
			poker.ThreeOfAKind: 4,
		},
		Areas: []Area{
			{Name: "front", Size: 2, Points: map[poker.Category]int{
				poker.HighCard: 1,
				poker.Pair:     1,
			}},
			{Name: "middle", Size: 3, Points: map[poker.Category]int{
				poker.HighCard:     1,
				poker.Pair:         1,
				poker.Straight:     2,
				poker.ThreeOfAKind: 3,
			}},
			{Name: "back", Size: 3, Points: map[poker.Category]int{
				poker.HighCard:     1,
				poker.Pair:         1,
				poker.Straight:     1,
				poker.ThreeOfAKind: 2,
			}},
		},
		Specials: []SpecialRule{
			{Pattern: FourOfAKind, Score: 6},
			{Pattern: FourPairs, Score: 4},
		},
	}
	return mustValidate(v)
}

func mustValidate(v *Variant) *Variant {
	if err := v.Validate(); err != nil {
		panic(err)
	}
	return v
}

// Registry holds variants by name.
type Registry struct {
	variants map[string]*Variant
}

// NewRegistry returns a registry preloaded with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]*Variant)}
	for _, v := range []*Variant{Thirteen(), Eight()} {
		r.variants[v.Name] = v
	}
	return r
}

// Add validates and registers a variant, replacing any of the same name.
func (r *Registry) Add(v *Variant) error {
	if err := v.Validate(); err != nil {
		return err
	}
	r.variants[v.Name] = v
	return nil
}

// Get returns a variant by name.
func (r *Registry) Get(name string) (*Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (available: %v)", name, r.Names())
	}
	return v, nil
}

// Names lists registered variant names alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
