package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lox/pusoy/round"
)

// DealCmd plays one round with every seat auto-arranged.
type DealCmd struct {
	Players  []string `short:"p" default:"north,east,south,west" help:"Player names, comma separated"`
	Seed     *int64   `help:"Seed for a reproducible deal"`
	Specials bool     `default:"true" negatable:"" help:"Confirm special hands when dealt"`
}

type playerJSON struct {
	ID      string     `json:"id"`
	Hand    []string   `json:"hand"`
	Areas   []areaJSON `json:"areas"`
	Foul    bool       `json:"foul"`
	Special string     `json:"special,omitempty"`
	Net     int        `json:"net"`
}

type roundJSON struct {
	ID      string       `json:"id"`
	Variant string       `json:"variant"`
	Seed    int64        `json:"seed"`
	DealtAt time.Time    `json:"dealt_at"`
	Players []playerJSON `json:"players"`
	Pairs   [][]int      `json:"pairs"`
}

func (c *DealCmd) Run(g *Globals) error {
	v, err := g.variant()
	if err != nil {
		return err
	}

	opts := []round.Option{round.WithLogger(g.logger())}
	if c.Seed != nil {
		opts = append(opts, round.WithSeed(*c.Seed))
	}
	r, err := round.New(v, c.Players, opts...)
	if err != nil {
		return err
	}

	if c.Specials {
		for _, p := range r.Players() {
			if p.Special == nil {
				continue
			}
			if err := r.ConfirmSpecial(p.ID); err != nil {
				return err
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := r.AutoArrange(ctx); err != nil {
		return err
	}
	m, err := r.Finalize()
	if err != nil {
		return err
	}

	g.printf("%s %s  variant %s  seed %d\n\n", headerStyle.Render("round"), r.ID, v.Name, r.Seed)

	out := roundJSON{ID: r.ID, Variant: v.Name, Seed: r.Seed, DealtAt: r.DealtAt, Pairs: m.Pairs}
	for _, p := range r.Players() {
		status := ""
		switch {
		case p.SpecialConfirmed:
			status = specialStyle.Render(p.Special.Pattern.String())
		case p.Foul:
			status = lossStyle.Render("foul")
		}
		g.printf("%s  %s  %s\n", headerStyle.Render(p.ID), signed(m.Net[p.ID]), status)
		printAreas(g.stdout, v, p.Arrangement, p.Hands)
		g.printf("\n")

		pj := playerJSON{
			ID:    p.ID,
			Hand:  cardStrings(p.Hand),
			Areas: areasJSON(v, p.Arrangement, p.Hands),
			Foul:  p.Foul,
			Net:   m.Net[p.ID],
		}
		if p.SpecialConfirmed {
			pj.Special = string(p.Special.Pattern)
		}
		out.Players = append(out.Players, pj)
	}

	tw := newTable(g.stdout)
	fmt.Fprintf(tw, "%s", headerStyle.Render("vs"))
	for _, id := range m.IDs {
		fmt.Fprintf(tw, "\t%s", headerStyle.Render(id))
	}
	fmt.Fprintln(tw)
	for i, id := range m.IDs {
		fmt.Fprintf(tw, "%s", headerStyle.Render(id))
		for j := range m.IDs {
			if i == j {
				fmt.Fprintf(tw, "\t-")
				continue
			}
			fmt.Fprintf(tw, "\t%s", signed(m.Pairs[i][j]))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	return g.writeOut(out)
}
