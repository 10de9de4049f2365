// Package round tracks one deal of a Chinese-poker game from the deal to the
// final score matrix.
package round

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pusoy/arrange"
	"github.com/lox/pusoy/internal/randutil"
	"github.com/lox/pusoy/internal/roundid"
	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/scoring"
	"github.com/lox/pusoy/special"
	"github.com/lox/pusoy/variant"
)

var (
	ErrInvalidTable  = errors.New("invalid table")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrNoSpecial     = errors.New("no special pattern")
	ErrNotReady      = errors.New("players not ready")
	ErrFinalized     = errors.New("round already finalized")
)

// Player is one seat's state. Hands, Foul and Boundary follow the current
// arrangement.
type Player struct {
	ID          string
	Hand        []poker.Card
	Arrangement arrange.Arrangement
	Hands       []poker.Hand
	Foul        bool
	Boundary    int
	// Special is the pattern detected at the deal; it only scores once
	// confirmed.
	Special          *special.Result
	SpecialConfirmed bool
	// Solved is set when the arrangement came from the solver.
	Solved bool
	Ready  bool
}

func (p *Player) snapshot() Player {
	out := *p
	out.Hand = append([]poker.Card(nil), p.Hand...)
	out.Arrangement = p.Arrangement.Clone()
	out.Hands = append([]poker.Hand(nil), p.Hands...)
	return out
}

func (p *Player) apply(arr arrange.Arrangement, verdict arrange.Verdict) {
	p.Arrangement = arr
	p.Hands = verdict.Hands
	p.Foul = verdict.Foul
	p.Boundary = verdict.Boundary
}

// Round is safe for concurrent use.
type Round struct {
	ID      string
	Variant *variant.Variant
	// Seed reproduces the deal when the round shuffled its own deck.
	Seed       int64
	DealtAt    time.Time
	FinishedAt time.Time

	mu      sync.Mutex
	players []*Player
	byID    map[string]*Player
	result  *scoring.Matrix

	solver *arrange.Solver
	logger *log.Logger
	clock  quartz.Clock
}

// New seats the players and deals each a hand. Special patterns are detected
// immediately; arrangements start empty.
func New(v *variant.Variant, ids []string, opts ...Option) (*Round, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: need at least two players, got %d", ErrInvalidTable, len(ids))
	}
	if need := len(ids) * v.HandSize; need > poker.NumCards {
		return nil, fmt.Errorf("%w: %d players need %d cards", ErrInvalidTable, len(ids), need)
	}

	r := &Round{
		Variant: v,
		byID:    make(map[string]*Player, len(ids)),
		solver:  arrange.NewSolver(v, cfg.logger),
		logger:  cfg.logger.WithPrefix("round"),
		clock:   cfg.clock,
	}
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty player id", ErrInvalidTable)
		}
		if r.byID[id] != nil {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrInvalidTable, id)
		}
		p := &Player{ID: id, Boundary: -1}
		r.players = append(r.players, p)
		r.byID[id] = p
	}

	hands, err := r.deal(&cfg, ids)
	if err != nil {
		return nil, err
	}
	for i, p := range r.players {
		p.Hand = hands[i]
		if p.Special, err = special.Detect(v, p.Hand); err != nil {
			return nil, fmt.Errorf("player %s: %w", p.ID, err)
		}
		if p.Special != nil {
			r.logger.Debug("Special hand dealt", "player", p.ID, "pattern", p.Special.Pattern)
		}
	}

	r.ID = roundid.NewGenerator(cfg.clock, nil).Generate()
	r.DealtAt = cfg.clock.Now()
	r.logger.Info("Dealt round", "id", r.ID, "variant", v.Name, "players", len(ids))
	return r, nil
}

func (r *Round) deal(cfg *config, ids []string) ([][]poker.Card, error) {
	hands := make([][]poker.Card, len(ids))

	if cfg.hands != nil {
		if len(cfg.hands) != len(ids) {
			return nil, fmt.Errorf("%w: %d hands for %d players", ErrInvalidTable, len(cfg.hands), len(ids))
		}
		var table poker.CardSet
		for i, id := range ids {
			hand, ok := cfg.hands[id]
			if !ok {
				return nil, fmt.Errorf("%w: no hand for player %s", ErrInvalidTable, id)
			}
			set, err := arrange.CheckHand(r.Variant, hand)
			if err != nil {
				return nil, fmt.Errorf("player %s: %w", id, err)
			}
			if table&set != 0 {
				return nil, fmt.Errorf("%w: %s dealt to more than one player", poker.ErrMalformedHand, table&set)
			}
			table |= set
			hands[i] = append([]poker.Card(nil), hand...)
		}
		return hands, nil
	}

	dealer := cfg.dealer
	if dealer == nil {
		r.Seed = cfg.seed
		if !cfg.seeded {
			r.Seed = randutil.RandomSeed()
		}
		dealer = randutil.NewDeck(r.Seed)
	}
	for i := range ids {
		if hands[i] = dealer.Deal(r.Variant.HandSize); hands[i] == nil {
			return nil, fmt.Errorf("%w: dealer ran out of cards", ErrInvalidTable)
		}
	}
	return hands, nil
}

func (r *Round) player(id string) (*Player, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	return p, nil
}

// Player returns a copy of one player's state.
func (r *Round) Player(id string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.player(id)
	if err != nil {
		return Player{}, err
	}
	return p.snapshot(), nil
}

// Players returns copies of every player's state in seat order.
func (r *Round) Players() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Player, len(r.players))
	for i, p := range r.players {
		out[i] = p.snapshot()
	}
	return out
}

// Arrange places a player's cards manually and marks them ready. A foul
// arrangement is accepted and scored as a foul; a malformed one is rejected.
// Arranging withdraws any confirmed special.
func (r *Round) Arrange(id string, arr arrange.Arrangement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result != nil {
		return ErrFinalized
	}
	p, err := r.player(id)
	if err != nil {
		return err
	}

	verdict, err := arrange.Validate(r.Variant, p.Hand, arr)
	if err != nil {
		return err
	}
	p.apply(arr.Clone(), verdict)
	p.Solved = false
	p.SpecialConfirmed = false
	p.Ready = true
	r.logger.Debug("Arranged", "player", id, "foul", verdict.Foul)
	return nil
}

// AutoArrange solves the named players' hands in parallel and marks them
// ready. With no ids it solves every player not yet ready. Cancelling ctx
// stops solves that have not started.
func (r *Round) AutoArrange(ctx context.Context, ids ...string) error {
	r.mu.Lock()
	if r.result != nil {
		r.mu.Unlock()
		return ErrFinalized
	}
	var targets []*Player
	if len(ids) == 0 {
		for _, p := range r.players {
			if !p.Ready {
				targets = append(targets, p)
			}
		}
	}
	for _, id := range ids {
		p, err := r.player(id)
		if err != nil {
			r.mu.Unlock()
			return err
		}
		targets = append(targets, p)
	}
	r.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, p := range targets {
		// Hands never change after the deal.
		id, hand := p.ID, p.Hand
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := r.clock.Now()
			sol, err := r.solver.Solve(hand)
			if err != nil {
				return fmt.Errorf("player %s: %w", id, err)
			}
			r.logger.Debug("Auto-arranged", "player", id,
				"arrangement", sol.Arrangement, "examined", sol.Examined, "duration", r.clock.Since(start))
			if sol.Fallback {
				r.logger.Warn("Auto-arrange fell back", "player", id, "error", sol.Warning)
			}

			r.mu.Lock()
			defer r.mu.Unlock()
			if r.result != nil {
				return ErrFinalized
			}
			boundary := arrange.FirstFoul(sol.Hands)
			p.apply(sol.Arrangement, arrange.Verdict{Foul: boundary >= 0, Boundary: boundary, Hands: sol.Hands})
			p.Solved = true
			p.SpecialConfirmed = false
			p.Ready = true
			return nil
		})
	}
	return g.Wait()
}

// ConfirmSpecial accepts the special pattern dealt to a player and marks them
// ready. The player's cards are laid out as the pattern's witness, or solved
// when the pattern does not depend on the areas.
func (r *Round) ConfirmSpecial(id string) error {
	r.mu.Lock()
	if r.result != nil {
		r.mu.Unlock()
		return ErrFinalized
	}
	p, err := r.player(id)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if p.Special == nil {
		r.mu.Unlock()
		return fmt.Errorf("%w: player %s", ErrNoSpecial, id)
	}
	arr := p.Special.Witness.Clone()
	r.mu.Unlock()

	if arr == nil {
		sol, err := r.solver.Solve(p.Hand)
		if err != nil {
			return err
		}
		arr = sol.Arrangement
	}
	verdict, err := arrange.Validate(r.Variant, p.Hand, arr)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result != nil {
		return ErrFinalized
	}
	p.apply(arr, verdict)
	// A confirmed special is scored on its pattern, never as a foul.
	p.Foul, p.Boundary = false, -1
	p.Solved = p.Special.Witness == nil
	p.SpecialConfirmed = true
	p.Ready = true
	r.logger.Info("Special confirmed", "player", id, "pattern", p.Special.Pattern, "score", p.Special.Score)
	return nil
}

// Finalize scores the round once every player is ready. The matrix is
// computed once and the round accepts no further changes.
func (r *Round) Finalize() (*scoring.Matrix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result != nil {
		return nil, ErrFinalized
	}

	var waiting []string
	for _, p := range r.players {
		if !p.Ready {
			waiting = append(waiting, p.ID)
		}
	}
	if len(waiting) > 0 {
		return nil, fmt.Errorf("%w: waiting for %s", ErrNotReady, strings.Join(waiting, ", "))
	}

	players := make([]scoring.Player, len(r.players))
	for i, p := range r.players {
		players[i] = scoring.Player{ID: p.ID, Hands: p.Hands, Foul: p.Foul}
		if p.SpecialConfirmed {
			players[i].Special = p.Special.Rule()
		}
	}
	m, err := scoring.Score(r.Variant, players)
	if err != nil {
		return nil, err
	}

	r.result = m
	r.FinishedAt = r.clock.Now()
	r.logger.Info("Round finalized", "id", r.ID, "net", m.Net, "duration", r.FinishedAt.Sub(r.DealtAt))
	return m, nil
}

// Result returns the score matrix once the round is finalized.
func (r *Round) Result() (*scoring.Matrix, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.result != nil
}
