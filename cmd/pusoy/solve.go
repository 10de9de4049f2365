package main

import (
	"time"

	"github.com/lox/pusoy/arrange"
	"github.com/lox/pusoy/poker"
)

// SolveCmd arranges a hand as strongly as the rules allow.
type SolveCmd struct {
	Hand string `arg:"" help:"The full hand, e.g. 'As Ks Qs Js Ts 9h 9d 9c 9s 2h 3d 4c 5d'"`
}

type solveJSON struct {
	Variant  string     `json:"variant"`
	Hand     []string   `json:"hand"`
	Areas    []areaJSON `json:"areas"`
	Fallback bool       `json:"fallback,omitempty"`
	Examined int        `json:"examined"`
}

func (c *SolveCmd) Run(g *Globals) error {
	v, err := g.variant()
	if err != nil {
		return err
	}
	hand, err := poker.ParseCards(c.Hand)
	if err != nil {
		return err
	}

	start := time.Now()
	sol, err := arrange.NewSolver(v, g.logger()).Solve(hand)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	printAreas(g.stdout, v, sol.Arrangement, sol.Hands)
	if sol.Fallback {
		g.printf("\n%s\n", lossStyle.Render("no legal arrangement exists; cards dealt low to high"))
	}
	g.printf("\n%d legal arrangements compared in %v\n", sol.Examined, duration.Truncate(time.Microsecond))

	return g.writeOut(solveJSON{
		Variant:  v.Name,
		Hand:     cardStrings(hand),
		Areas:    areasJSON(v, sol.Arrangement, sol.Hands),
		Fallback: sol.Fallback,
		Examined: sol.Examined,
	})
}
