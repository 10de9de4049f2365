// Package simulator plays many seeded rounds with every seat auto-arranged
// and aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pusoy/internal/statistics"
	"github.com/lox/pusoy/round"
	"github.com/lox/pusoy/variant"
)

// Config holds configuration for running simulations
type Config struct {
	Variant *variant.Variant
	Seats   int
	Rounds  int
	Seed    int64
	// Workers bounds how many rounds play at once; zero means GOMAXPROCS.
	Workers int
	// Timeout bounds a single round.
	Timeout time.Duration
	// Specials confirms special patterns when dealt instead of arranging them.
	Specials bool
	Logger   *log.Logger
}

// Simulator runs Chinese-poker round simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Run plays every round and returns the aggregated seat results. Round i is
// dealt from seed Seed+i, so a run is reproducible whatever the worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Variant == nil {
		return nil, fmt.Errorf("simulator needs a variant")
	}
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("invalid rounds count: %d", s.config.Rounds)
	}
	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ids := make([]string, s.config.Seats)
	for i := range ids {
		ids[i] = fmt.Sprintf("seat%d", i+1)
	}

	results := make([][]statistics.RoundResult, s.config.Rounds)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range s.config.Rounds {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			res, err := s.playRound(ctx, ids, seed)
			if err != nil {
				return fmt.Errorf("round %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, seats := range results {
		for _, r := range seats {
			stats.Add(r)
		}
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Debug("Simulation complete",
		"rounds", s.config.Rounds, "seats", s.config.Seats, "workers", workers, "duration", time.Since(start))
	return stats, nil
}

// playRound deals, arranges and scores one round.
func (s *Simulator) playRound(ctx context.Context, ids []string, seed int64) ([]statistics.RoundResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	r, err := round.New(s.config.Variant, ids, round.WithSeed(seed), round.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	if s.config.Specials {
		for _, p := range r.Players() {
			if p.Special == nil {
				continue
			}
			if err := r.ConfirmSpecial(p.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := r.AutoArrange(ctx); err != nil {
		return nil, err
	}
	m, err := r.Finalize()
	if err != nil {
		return nil, err
	}

	players := r.Players()
	out := make([]statistics.RoundResult, len(players))
	for i, p := range players {
		out[i] = statistics.RoundResult{
			Net:     m.Net[p.ID],
			Seed:    seed,
			Seat:    i,
			Foul:    p.Foul,
			Special: p.SpecialConfirmed,
		}
	}
	return out, nil
}
