package poker

import (
	"math/rand/v2"
)

// Deck is a standard 52-card deck dealt from the top.
type Deck struct {
	cards [NumCards]Card
	next  int
	rng   *rand.Rand // injected so deals are reproducible from a seed
}

// NewDeck creates a deck shuffled with the given random source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for i := range NumCards {
		d.cards[i] = Card(i)
	}
	d.Shuffle()
	return d
}

// Shuffle restores all cards and shuffles them using Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards, or nil when fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
