package main

import (
	"fmt"
	"strings"

	"github.com/lox/pusoy/arrange"
	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/special"
)

// EvalCmd classifies hands and, given two, compares them.
type EvalCmd struct {
	Hands []string `arg:"" help:"Hands to classify, one per argument, e.g. 'As Ks Qs' '2h 2d 9c'"`
	Area  string   `short:"a" help:"Evaluate as this area of the variant and show its points"`
}

func (c *EvalCmd) Run(g *Globals) error {
	v, err := g.variant()
	if err != nil {
		return err
	}
	area := -1
	if c.Area != "" {
		if area = v.AreaIndex(c.Area); area < 0 {
			return fmt.Errorf("variant %s has no area %q (areas: %s)", v.Name, c.Area, strings.Join(v.AreaNames(), ", "))
		}
	}

	hands := make([]poker.Hand, len(c.Hands))
	for i, s := range c.Hands {
		cards, err := poker.ParseCards(s)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		if area >= 0 {
			hands[i], err = v.Evaluate(area, cards)
		} else {
			hands[i], err = v.Evaluator().Evaluate(cards)
		}
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}

	tw := newTable(g.stdout)
	fmt.Fprintf(tw, "%s\t%s\t%s", headerStyle.Render("hand"), headerStyle.Render("category"), headerStyle.Render("ranks"))
	if area >= 0 {
		fmt.Fprintf(tw, "\t%s", headerStyle.Render("points"))
	}
	fmt.Fprintln(tw)
	for _, h := range hands {
		fmt.Fprintf(tw, "%s\t%s\t%s", prettyCards(h.Cards), categoryStyle.Render(h.Category.String()), ranks(h))
		if area >= 0 {
			fmt.Fprintf(tw, "\t%d", v.Points(area, h))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	if len(hands) == 2 {
		switch poker.Compare(hands[0], hands[1]) {
		case 1:
			g.printf("\nfirst hand wins\n")
		case -1:
			g.printf("\nsecond hand wins\n")
		default:
			g.printf("\nhands tie\n")
		}
	}
	return nil
}

// CheckCmd validates a player's arrangement.
type CheckCmd struct {
	Arrangement string `arg:"" help:"Areas front first, separated by '|', e.g. '2d 2s | 7h 9h Jh | Kh Ah 2c'"`
}

type checkJSON struct {
	Variant  string     `json:"variant"`
	Foul     bool       `json:"foul"`
	Boundary int        `json:"boundary"`
	Areas    []areaJSON `json:"areas"`
}

func (c *CheckCmd) Run(g *Globals) error {
	v, err := g.variant()
	if err != nil {
		return err
	}
	arr, err := arrange.Parse(c.Arrangement)
	if err != nil {
		return err
	}
	verdict, err := arrange.Validate(v, arr.Cards(), arr)
	if err != nil {
		return err
	}

	printAreas(g.stdout, v, arr, verdict.Hands)
	if verdict.Foul {
		g.printf("\n%s\n", lossStyle.Render(verdict.Describe(v)))
	} else {
		g.printf("\n%s\n", winStyle.Render(verdict.Describe(v)))
	}
	return g.writeOut(checkJSON{
		Variant:  v.Name,
		Foul:     verdict.Foul,
		Boundary: verdict.Boundary,
		Areas:    areasJSON(v, arr, verdict.Hands),
	})
}

// SpecialCmd reports the special pattern a hand holds.
type SpecialCmd struct {
	Hand string `arg:"" help:"The full hand"`
}

type specialJSON struct {
	Variant string     `json:"variant"`
	Pattern string     `json:"pattern,omitempty"`
	Score   int        `json:"score,omitempty"`
	Witness []areaJSON `json:"witness,omitempty"`
}

func (c *SpecialCmd) Run(g *Globals) error {
	v, err := g.variant()
	if err != nil {
		return err
	}
	hand, err := poker.ParseCards(c.Hand)
	if err != nil {
		return err
	}
	res, err := special.Detect(v, hand)
	if err != nil {
		return err
	}

	out := specialJSON{Variant: v.Name}
	if res == nil {
		g.printf("no special pattern\n")
		return g.writeOut(out)
	}

	g.printf("%s scores %d from each opponent\n", specialStyle.Render(res.Pattern.String()), res.Score)
	out.Pattern, out.Score = string(res.Pattern), res.Score
	if res.Witness != nil {
		verdict, err := arrange.Validate(v, hand, res.Witness)
		if err != nil {
			return err
		}
		g.printf("\n")
		printAreas(g.stdout, v, res.Witness, verdict.Hands)
		out.Witness = areasJSON(v, res.Witness, verdict.Hands)
	}
	return g.writeOut(out)
}

// VariantsCmd lists the built-in and configured variants.
type VariantsCmd struct{}

func (c *VariantsCmd) Run(g *Globals) error {
	r, err := g.registry()
	if err != nil {
		return err
	}

	tw := newTable(g.stdout)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("variant"),
		headerStyle.Render("cards"),
		headerStyle.Render("areas"),
		headerStyle.Render("specials"))
	for _, name := range r.Names() {
		v, err := r.Get(name)
		if err != nil {
			return err
		}
		areas := make([]string, len(v.Areas))
		for i, a := range v.Areas {
			areas[i] = fmt.Sprintf("%s %d", a.Name, a.Size)
		}
		specials := make([]string, len(v.Specials))
		for i, s := range v.Specials {
			specials[i] = fmt.Sprintf("%s %d", s.Pattern, s.Score)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			areaStyle.Render(v.Name), v.HandSize, strings.Join(areas, ", "), strings.Join(specials, ", "))
	}
	return tw.Flush()
}
