package sim

import (
	"ballast/internal/date"
	"ballast/internal/panel"
)

// Gap records a missing close that entered the arithmetic while a position
// was held. Gaps are surfaced, never fatal; the affected period's PnL is
// the missing sentinel.
type Gap struct {
	Date   date.Date `json:"date"`
	Symbol string    `json:"symbol"`
}

// Fill is one executed order with its fill price and charged cost.
type Fill struct {
	Date   date.Date `json:"date"`
	Symbol string    `json:"symbol"`
	Qty    float64   `json:"qty"`
	Price  float64   `json:"price"`
	Cost   float64   `json:"cost"`
}

// Result is the outcome of one simulation. All panels share the run's date
// axis. PnL entries touched by a gap are missing and poison the equity tail;
// nothing here repairs that, downstream consumers decide.
type Result struct {
	PnL       *panel.Series // net portfolio PnL per period
	BySymbol  *panel.Frame  // net PnL per period and symbol
	Equity    *panel.Series // capital plus cumulative net PnL
	Costs     *panel.Series // charged costs per period
	Positions *panel.Frame  // shares held after each period's fills
	Fills     []Fill
	Gaps      []Gap
}

// TotalCost returns the sum of all charged costs.
func (r *Result) TotalCost() float64 {
	var total float64
	for _, f := range r.Fills {
		total += f.Cost
	}
	return total
}

// gapSet dedupes gap records; the same missing close is touched once as the
// current mark and once as the previous mark.
type gapSet struct {
	seen map[Gap]struct{}
	list []Gap
}

func newGapSet() *gapSet {
	return &gapSet{seen: make(map[Gap]struct{})}
}

func (g *gapSet) add(d date.Date, sym string) {
	k := Gap{Date: d, Symbol: sym}
	if _, dup := g.seen[k]; dup {
		return
	}
	g.seen[k] = struct{}{}
	g.list = append(g.list, k)
}
