package poker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedHand reports a hand or area that cannot be evaluated: wrong
// card count, duplicated cards, or cards outside the deck.
var ErrMalformedHand = errors.New("malformed hand")

// MaxAreaSize is the largest set of cards the evaluator classifies.
const MaxAreaSize = 5

// Category identifies a poker hand category. Its numeric value is an identity
// only; strength comes from the Ordinals table of the variant in play.
type Category uint8

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Categories lists every category.
var Categories = []Category{
	HighCard, Pair, TwoPair, ThreeOfAKind, Straight, Flush, FullHouse, FourOfAKind, StraightFlush,
}

var categoryNames = map[Category][2]string{
	HighCard:      {"High Card", "high_card"},
	Pair:          {"Pair", "pair"},
	TwoPair:       {"Two Pair", "two_pair"},
	ThreeOfAKind:  {"Three of a Kind", "three_of_a_kind"},
	Straight:      {"Straight", "straight"},
	Flush:         {"Flush", "flush"},
	FullHouse:     {"Full House", "full_house"},
	FourOfAKind:   {"Four of a Kind", "four_of_a_kind"},
	StraightFlush: {"Straight Flush", "straight_flush"},
}

// String returns a human-readable category name.
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n[0]
	}
	return "Unknown"
}

// Key returns the snake_case name used in configuration files.
func (c Category) Key() string {
	if n, ok := categoryNames[c]; ok {
		return n[1]
	}
	return "unknown"
}

// ParseCategory resolves a configuration key such as "full_house".
func ParseCategory(key string) (Category, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for c, n := range categoryNames {
		if n[1] == k {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown hand category %q", key)
}

// suitBroken reports whether ties within the category fall through to the
// suit of the highest card.
func (c Category) suitBroken() bool {
	return c == Straight || c == Flush || c == StraightFlush
}

// Reachable returns the categories an area of the given size can reach.
// Straights need three or five cards and flushes need five.
func Reachable(size int) []Category {
	switch size {
	case 1:
		return []Category{HighCard}
	case 2:
		return []Category{HighCard, Pair}
	case 3:
		return []Category{HighCard, Pair, Straight, ThreeOfAKind}
	case 4:
		return []Category{HighCard, Pair, TwoPair, ThreeOfAKind, FourOfAKind}
	case 5:
		return Categories
	}
	return nil
}

// Ordinals assigns every category an explicit strength; higher wins.
type Ordinals map[Category]int

// StandardOrdinals returns the conventional poker ordering.
func StandardOrdinals() Ordinals {
	return Ordinals{
		HighCard:      1,
		Pair:          2,
		TwoPair:       3,
		ThreeOfAKind:  4,
		Straight:      5,
		Flush:         6,
		FullHouse:     7,
		FourOfAKind:   8,
		StraightFlush: 9,
	}
}

// Hand is an evaluated area: its category plus the keys that break ties.
type Hand struct {
	Category Category
	Ordinal  int
	// Ranks holds one entry per rank group, category-defining groups first
	// then kickers descending. Straights list every rank, ace low in a wheel.
	Ranks []Rank
	// Suit is the highest card's suit; only meaningful for straights and flushes.
	Suit  Suit
	Cards []Card
}

// Size returns the number of cards in the hand.
func (h Hand) Size() int {
	return len(h.Cards)
}

// String returns the category with its cards, e.g. "Pair [Ks Kd 5h]".
func (h Hand) String() string {
	return fmt.Sprintf("%s [%s]", h.Category, FormatCards(h.Cards))
}

// Evaluator classifies areas against a fixed ordinal table.
type Evaluator struct {
	ordinals Ordinals
}

// NewEvaluator creates an evaluator using a copy of the given ordinals.
func NewEvaluator(ordinals Ordinals) *Evaluator {
	own := make(Ordinals, len(ordinals))
	for c, o := range ordinals {
		own[c] = o
	}
	return &Evaluator{ordinals: own}
}

var standard = NewEvaluator(StandardOrdinals())

// Evaluate classifies cards with the standard ordinals.
func Evaluate(cards []Card) (Hand, error) {
	return standard.Evaluate(cards)
}

// Ordinal returns the strength assigned to a category (0 when unassigned).
func (e *Evaluator) Ordinal(c Category) int {
	return e.ordinals[c]
}

// Evaluate classifies between one and five distinct cards.
func (e *Evaluator) Evaluate(cards []Card) (Hand, error) {
	if len(cards) == 0 || len(cards) > MaxAreaSize {
		return Hand{}, fmt.Errorf("%w: cannot evaluate %d cards", ErrMalformedHand, len(cards))
	}
	for _, c := range cards {
		if !c.Valid() {
			return Hand{}, fmt.Errorf("%w: invalid card %d", ErrMalformedHand, c)
		}
	}
	set, dup := NewCardSet(cards)
	if dup {
		return Hand{}, fmt.Errorf("%w: duplicate card in %s", ErrMalformedHand, FormatCards(cards))
	}
	return e.EvaluateSet(set), nil
}

// EvaluateSet classifies a set of one to five cards. The caller guarantees
// the size; it is the allocation-light path used by the solver.
func (e *Evaluator) EvaluateSet(set CardSet) Hand {
	cards := set.Cards() // descending by rank then suit
	n := len(cards)

	var counts [Ace + 1]uint8
	flush := n == MaxAreaSize
	for _, c := range cards {
		counts[c.Rank()]++
		if c.Suit() != cards[0].Suit() {
			flush = false
		}
	}

	groups := make([]rankGroup, 0, n)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].count > groups[j].count })

	straightRanks := runRanks(groups, n)
	straight := straightRanks != nil

	h := Hand{Cards: cards}
	switch {
	case straight && flush:
		h.Category = StraightFlush
	case groups[0].count == 4:
		h.Category = FourOfAKind
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		h.Category = FullHouse
	case flush:
		h.Category = Flush
	case straight:
		h.Category = Straight
	case groups[0].count == 3:
		h.Category = ThreeOfAKind
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		h.Category = TwoPair
	case groups[0].count == 2:
		h.Category = Pair
	default:
		h.Category = HighCard
	}
	h.Ordinal = e.ordinals[h.Category]

	if straight {
		h.Ranks = straightRanks
	} else {
		h.Ranks = make([]Rank, len(groups))
		for i, g := range groups {
			h.Ranks[i] = g.rank
		}
	}

	if h.Category.suitBroken() {
		h.Suit = highestCard(cards, h.Ranks[0]).Suit()
	}
	return h
}

type rankGroup struct {
	rank  Rank
	count uint8
}

// runRanks returns the ranks of a three- or five-card straight high to low,
// with the ace counted as one in a wheel, or nil when the cards do not run.
func runRanks(groups []rankGroup, n int) []Rank {
	if (n != 3 && n != MaxAreaSize) || len(groups) != n {
		return nil
	}
	// All counts are one here, so groups are still in descending rank order.
	ranks := make([]Rank, n)
	for i, g := range groups {
		ranks[i] = g.rank
	}

	if ranks[0]-ranks[n-1] == Rank(n-1) {
		return ranks
	}
	// Wheel: A-2-3 or A-2-3-4-5 with the ace played low.
	if ranks[0] == Ace && ranks[1] == Rank(n) && ranks[n-1] == Two && ranks[1]-ranks[n-1] == Rank(n-2) {
		return append(ranks[1:], lowAce)
	}
	return nil
}

// highestCard returns the first card of the given rank.
func highestCard(cards []Card, rank Rank) Card {
	for _, c := range cards {
		if c.Rank() == rank {
			return c
		}
	}
	return cards[0]
}

// Compare orders two evaluated hands: 1 if a is stronger, -1 if b is
// stronger, 0 on a tie. Ordinals decide first, then tie-break ranks over
// their common length, then the suit of the top card for straights and
// flushes. Callers guarantee both hands were evaluated with the same ordinals.
func Compare(a, b Hand) int {
	switch {
	case a.Ordinal > b.Ordinal:
		return 1
	case a.Ordinal < b.Ordinal:
		return -1
	}

	for i := 0; i < len(a.Ranks) && i < len(b.Ranks); i++ {
		switch {
		case a.Ranks[i] > b.Ranks[i]:
			return 1
		case a.Ranks[i] < b.Ranks[i]:
			return -1
		}
	}

	if a.Category == b.Category && a.Category.suitBroken() {
		switch {
		case a.Suit > b.Suit:
			return 1
		case a.Suit < b.Suit:
			return -1
		}
	}
	return 0
}
