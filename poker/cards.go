package poker

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Rank is a card rank from Two (2) through Ace (14).
type Rank uint8

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14

	// lowAce is the value an ace takes inside a wheel straight.
	lowAce Rank = 1
)

// Suit ordinals follow the tie-break order: spades > hearts > clubs > diamonds.
type Suit uint8

const (
	Diamonds Suit = 0
	Clubs    Suit = 1
	Hearts   Suit = 2
	Spades   Suit = 3
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "dchs"
)

var suitSymbols = [...]string{"♦", "♣", "♥", "♠"}

// String returns the single-letter suit ("s", "h", "c", "d").
func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return string(suitChars[s])
}

// Symbol returns the unicode suit symbol.
func (s Suit) Symbol() string {
	if s > Spades {
		return "?"
	}
	return suitSymbols[s]
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// String returns the rank character ("2".."9", "T", "J", "Q", "K", "A").
func (r Rank) String() string {
	switch {
	case r == lowAce:
		return "A"
	case r < Two || r > Ace:
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card identifies one of the 52 cards as (rank-2)*4 + suit, so cards sort by
// rank first and suit second.
type Card uint8

// NumCards is the size of a full deck.
const NumCards = 52

// NewCard creates a card from rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint8(rank-Two)*4 + uint8(suit))
}

// Rank returns the card's rank (Two..Ace).
func (c Card) Rank() Rank {
	return Rank(uint8(c)/4) + Two
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(uint8(c) % 4)
}

// Valid reports whether the card is one of the 52 deck cards.
func (c Card) Valid() bool {
	return c < NumCards
}

// String returns the compact notation, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// Pretty returns the card with a unicode suit, e.g. "A♠".
func (c Card) Pretty() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().Symbol()
}

// ParseCard parses a card such as "As", "td", "10h" or "Q♥".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}

	var rank Rank
	rest := s
	switch {
	case strings.HasPrefix(s, "10"):
		rank, rest = Ten, s[2:]
	default:
		idx := strings.IndexByte(rankChars, upper(s[0]))
		if idx < 0 {
			return 0, fmt.Errorf("invalid rank in card %q", s)
		}
		rank, rest = Two+Rank(idx), s[1:]
	}

	suit, err := parseSuit(rest)
	if err != nil {
		return 0, fmt.Errorf("card %q: %w", s, err)
	}
	return NewCard(rank, suit), nil
}

func parseSuit(s string) (Suit, error) {
	switch s {
	case "d", "D", "♦", "♢":
		return Diamonds, nil
	case "c", "C", "♣", "♧":
		return Clubs, nil
	case "h", "H", "♥", "♡":
		return Hearts, nil
	case "s", "S", "♠", "♤":
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// ParseCards parses a list of cards. Cards may be separated by spaces or
// commas ("As Kd, Qh") or written back to back in two-character notation
// ("AsKdQh").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	cards := make([]Card, 0, len(fields))
	for _, field := range fields {
		if c, err := ParseCard(field); err == nil {
			cards = append(cards, c)
			continue
		}
		if len(field)%2 != 0 {
			return nil, fmt.Errorf("invalid card string: %q", field)
		}
		for i := 0; i < len(field); i += 2 {
			c, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals in tests and examples.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// SortCards orders cards by rank then suit, descending.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i] > cards[j] })
}

// CardSet is a bitset of cards, one bit per card identifier.
type CardSet uint64

// NewCardSet builds a set from cards and reports whether any card repeated.
func NewCardSet(cards []Card) (set CardSet, duplicate bool) {
	for _, c := range cards {
		if set.Contains(c) {
			duplicate = true
		}
		set.Add(c)
	}
	return set, duplicate
}

// Add adds a card to the set.
func (cs *CardSet) Add(c Card) {
	*cs |= 1 << c
}

// Contains reports whether the card is in the set.
func (cs CardSet) Contains(c Card) bool {
	return cs&(1<<c) != 0
}

// Len returns the number of cards in the set.
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Cards returns the cards in the set in descending order.
func (cs CardSet) Cards() []Card {
	out := make([]Card, 0, cs.Len())
	for rest := uint64(cs); rest != 0; {
		top := bits.Len64(rest) - 1
		out = append(out, Card(top))
		rest &^= 1 << top
	}
	return out
}

// String lists the cards in descending order.
func (cs CardSet) String() string {
	return FormatCards(cs.Cards())
}
