package arrange

import (
	"sort"

	"github.com/lox/pusoy/poker"
	"github.com/lox/pusoy/variant"
)

// Partition is the walker's view of the areas filled so far.
type Partition struct {
	Sets     []poker.CardSet
	Assigned []bool
}

// Arrangement returns the filled areas with each area's cards in descending
// order.
func (p *Partition) Arrangement() Arrangement {
	out := make(Arrangement, len(p.Sets))
	for i, s := range p.Sets {
		out[i] = s.Cards()
	}
	return out
}

// AcceptFunc is consulted each time an area is filled. Returning false
// abandons every partition that extends the current one.
type AcceptFunc func(area int, set poker.CardSet, p *Partition) bool

// VisitFunc receives each complete partition. Returning false stops the walk.
type VisitFunc func(p *Partition) bool

// Enumerate walks every way of splitting hand into the variant's areas. The
// largest areas are filled first, later areas first among equals, and the
// last area filled takes the remaining cards. The partition passed to accept
// and visit is reused; copy what must outlive the call.
func Enumerate(v *variant.Variant, hand []poker.Card, accept AcceptFunc, visit VisitFunc) error {
	if _, err := CheckHand(v, hand); err != nil {
		return err
	}

	order := make([]int, len(v.Areas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := v.Areas[order[i]], v.Areas[order[j]]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return order[i] > order[j]
	})

	w := &walker{
		variant: v,
		order:   order,
		accept:  accept,
		visit:   visit,
		p: &Partition{
			Sets:     make([]poker.CardSet, len(v.Areas)),
			Assigned: make([]bool, len(v.Areas)),
		},
	}
	sorted := append([]poker.Card(nil), hand...)
	poker.SortCards(sorted)
	w.fill(0, sorted)
	return nil
}

type walker struct {
	variant *variant.Variant
	order   []int
	accept  AcceptFunc
	visit   VisitFunc
	p       *Partition
}

func (w *walker) assign(area int, set poker.CardSet) bool {
	w.p.Sets[area] = set
	w.p.Assigned[area] = true
	return w.accept == nil || w.accept(area, set, w.p)
}

func (w *walker) release(area int) {
	w.p.Sets[area] = 0
	w.p.Assigned[area] = false
}

// fill assigns the area at depth from the remaining cards and recurses. It
// returns false once the visitor has asked to stop.
func (w *walker) fill(depth int, remaining []poker.Card) bool {
	area := w.order[depth]

	if depth == len(w.order)-1 {
		set, _ := poker.NewCardSet(remaining)
		cont := true
		if w.assign(area, set) {
			cont = w.visit(w.p)
		}
		w.release(area)
		return cont
	}

	k := w.variant.Areas[area].Size
	n := len(remaining)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	rest := make([]poker.Card, 0, n-k)

	for {
		var set poker.CardSet
		for _, i := range idx {
			set.Add(remaining[i])
		}
		rest = rest[:0]
		for _, c := range remaining {
			if !set.Contains(c) {
				rest = append(rest, c)
			}
		}

		if w.assign(area, set) {
			if !w.fill(depth+1, append([]poker.Card(nil), rest...)) {
				w.release(area)
				return false
			}
		}
		w.release(area)

		if !nextCombination(idx, n) {
			return true
		}
	}
}

// nextCombination advances idx to the next k-subset of [0, n) in
// lexicographic order, reporting false after the last one.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}
