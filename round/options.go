package round

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pusoy/poker"
)

// Dealer supplies cards for a round. *poker.Deck satisfies it.
type Dealer interface {
	Deal(n int) []poker.Card
}

// Option configures a round.
type Option func(*config)

type config struct {
	logger *log.Logger
	clock  quartz.Clock
	dealer Dealer
	seed   int64
	seeded bool
	hands  map[string][]poker.Card
}

func defaultConfig() config {
	return config{
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClock sets the clock used for timestamps and timings.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithDealer deals from the given source instead of a fresh shuffled deck.
func WithDealer(dealer Dealer) Option {
	return func(c *config) {
		c.dealer = dealer
	}
}

// WithSeed shuffles the default deck from seed so the deal is reproducible.
// It has no effect when WithDealer or WithHands is used.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithHands seats players with the given hands instead of dealing. Every
// player must be present and no card may appear twice across the table.
func WithHands(hands map[string][]poker.Card) Option {
	return func(c *config) {
		c.hands = hands
	}
}
