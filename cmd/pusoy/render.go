package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pusoy/arrange"
	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	areaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	redStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	specialStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13"))
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// prettyCards renders cards with suit symbols, red suits coloured.
func prettyCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit().IsRed() {
			parts[i] = redStyle.Render(c.Pretty())
		} else {
			parts[i] = c.Pretty()
		}
	}
	return strings.Join(parts, " ")
}

func signed(n int) string {
	switch {
	case n > 0:
		return winStyle.Render(fmt.Sprintf("+%d", n))
	case n < 0:
		return lossStyle.Render(fmt.Sprintf("%d", n))
	}
	return "0"
}

func ranks(h poker.Hand) string {
	parts := make([]string, len(h.Ranks))
	for i, r := range h.Ranks {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// printAreas lists each area with its category and the points it pays.
func printAreas(w io.Writer, v *variant.Variant, arr arrange.Arrangement, hands []poker.Hand) {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("area"),
		headerStyle.Render("cards"),
		headerStyle.Render("category"),
		headerStyle.Render("points"))
	for i, a := range v.Areas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			areaStyle.Render(a.Name),
			prettyCards(arr[i]),
			categoryStyle.Render(hands[i].Category.String()),
			v.Points(i, hands[i]))
	}
	tw.Flush()
}

// areaJSON is one area in JSON output.
type areaJSON struct {
	Name     string   `json:"name"`
	Cards    []string `json:"cards"`
	Category string   `json:"category"`
	Points   int      `json:"points"`
}

func areasJSON(v *variant.Variant, arr arrange.Arrangement, hands []poker.Hand) []areaJSON {
	if arr == nil {
		return nil
	}
	out := make([]areaJSON, len(v.Areas))
	for i, a := range v.Areas {
		out[i] = areaJSON{
			Name:     a.Name,
			Cards:    cardStrings(arr[i]),
			Category: hands[i].Category.Key(),
			Points:   v.Points(i, hands[i]),
		}
	}
	return out
}

func cardStrings(cards []poker.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
