package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lox/pusoy/internal/randutil"
	"github.com/lox/pusoy/internal/simulator"
)

// SimulateCmd plays many auto-arranged rounds and reports how seats fared.
type SimulateCmd struct {
	Rounds   int           `short:"n" default:"1000" help:"Number of rounds to play"`
	Seats    int           `short:"s" default:"4" help:"Players at the table"`
	Seed     *int64        `help:"Seed of the first round; round i uses seed+i"`
	Workers  int           `short:"w" help:"Rounds played at once (default GOMAXPROCS)"`
	Timeout  time.Duration `default:"30s" help:"Time limit for a single round"`
	Specials bool          `default:"true" negatable:"" help:"Confirm special hands when dealt"`
}

type simulateJSON struct {
	Variant     string     `json:"variant"`
	Seats       int        `json:"seats"`
	Rounds      int        `json:"rounds"`
	Seed        int64      `json:"seed"`
	StdDev      float64    `json:"stddev"`
	CI95        [2]float64 `json:"ci95"`
	FoulRate    float64    `json:"foul_rate"`
	SpecialRate float64    `json:"special_rate"`
	MaxWin      int        `json:"max_win"`
	MaxLoss     int        `json:"max_loss"`
	SeatMeans   []float64  `json:"seat_means"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	v, err := g.variant()
	if err != nil {
		return err
	}
	seed := randutil.RandomSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, err := simulator.New(simulator.Config{
		Variant:  v,
		Seats:    c.Seats,
		Rounds:   c.Rounds,
		Seed:     seed,
		Workers:  c.Workers,
		Timeout:  c.Timeout,
		Specials: c.Specials,
		Logger:   g.logger(),
	}).Run(ctx)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	low, high := stats.ConfidenceInterval95()
	g.printf("%s %s  %d seats  %d rounds  seed %d  (%v)\n\n",
		headerStyle.Render("simulated"), v.Name, c.Seats, c.Rounds, seed, duration.Truncate(time.Millisecond))

	tw := newTable(g.stdout)
	fmt.Fprintf(tw, "std dev\t%.2f points\n", stats.StdDev())
	fmt.Fprintf(tw, "95%% CI\t[%.3f, %.3f] points/round\n", low, high)
	fmt.Fprintf(tw, "percentiles\tP5=%.1f  P50=%.1f  P95=%.1f\n",
		stats.Percentile(0.05), stats.Median(), stats.Percentile(0.95))
	fmt.Fprintf(tw, "swing\t%s / %s\n", signed(stats.MaxWin), signed(stats.MaxLoss))
	fmt.Fprintf(tw, "fouls\t%d (%.2f%%)\n", stats.Fouls, stats.FoulRate()*100)
	fmt.Fprintf(tw, "specials\t%d (%.2f%%)\n", stats.Specials, stats.SpecialRate()*100)
	for i := range stats.Seats {
		fmt.Fprintf(tw, "seat%d\t%.3f points/round\n", i+1, stats.SeatMean(i))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	out := simulateJSON{
		Variant:     v.Name,
		Seats:       c.Seats,
		Rounds:      c.Rounds,
		Seed:        seed,
		StdDev:      stats.StdDev(),
		CI95:        [2]float64{low, high},
		FoulRate:    stats.FoulRate(),
		SpecialRate: stats.SpecialRate(),
		MaxWin:      stats.MaxWin,
		MaxLoss:     stats.MaxLoss,
	}
	for i := range stats.Seats {
		out.SeatMeans = append(out.SeatMeans, stats.SeatMean(i))
	}
	return g.writeOut(out)
}
