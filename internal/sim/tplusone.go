package sim

import (
	"ballast/internal/core"
	"ballast/internal/panel"
	"ballast/internal/rebalance"
)

// TPlusOne compounds. Each date the current weights are sized against
// running equity at that date's close; the resulting rebalance fills one
// period later, at the next date's close. Lot handling is the same two-step
// arithmetic the schedule pipeline uses: targets floor to whole lots,
// fill deltas round to the nearest lot. The final date's decision never
// executes.
//
// Equity that goes missing or non-positive sizes the next target flat
// rather than short; the equity series itself still carries the damage.
func TPlusOne(weights, closes *panel.Frame, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if weights == nil || closes == nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "nil weight or close panel")
	}
	if !weights.SameAxes(closes) {
		return nil, core.Wrapf(core.ErrUnalignedPanels,
			"weights %dx%d vs closes %dx%d", weights.Len(), weights.NumSymbols(), closes.Len(), closes.NumSymbols())
	}

	n := closes.Len()
	syms := closes.Symbols()
	bySymbol, err := panel.NewFrame(closes.Dates(), syms)
	if err != nil {
		return nil, err
	}
	positions := bySymbol.Clone()
	pnl := make([]float64, n)
	costs := make([]float64, n)
	equity := make([]float64, n)
	pos := make([]float64, len(syms))
	pending := make([]float64, len(syms))
	havePending := false
	equityPrev := cfg.Capital
	gaps := newGapSet()
	var fills []Fill

	for i := 0; i < n; i++ {
		if i > 0 {
			markRow(closes, i, pos, bySymbol, gaps)
		}
		// fill the decision taken at the previous close
		if havePending {
			for j := range pos {
				qty := rebalance.RoundLot(pending[j]-pos[j], cfg.LotSize)
				if qty == 0 {
					continue
				}
				price := closes.ValueAt(i, j)
				if panel.IsMissing(price) {
					return nil, core.Wrapf(core.ErrExecutionGap, "%s on %s", syms[j], closes.DateAt(i))
				}
				charge := cfg.Costs.Charge(qty, price)
				pos[j] += qty
				costs[i] += charge
				bySymbol.SetAt(i, j, bySymbol.ValueAt(i, j)-charge)
				fills = append(fills, Fill{Date: closes.DateAt(i), Symbol: syms[j], Qty: qty, Price: price, Cost: charge})
			}
		}
		pnl[i] = rowSum(bySymbol, i)
		equity[i] = equityPrev + pnl[i]
		for j := range pos {
			positions.SetAt(i, j, pos[j])
		}
		// size the next fill from today's equity and closes
		eq := equity[i]
		for j := range pending {
			if panel.IsMissing(eq) || eq <= 0 {
				pending[j] = 0
				continue
			}
			raw := weights.ValueAt(i, j) * eq / closes.ValueAt(i, j)
			pending[j] = rebalance.FloorLot(raw, cfg.LotSize)
		}
		havePending = true
		equityPrev = equity[i]
	}
	return assemble(closes.Dates(), bySymbol, positions, pnl, costs, equity, fills, gaps)
}
