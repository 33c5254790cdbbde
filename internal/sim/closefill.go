package sim

import (
	"ballast/internal/core"
	"ballast/internal/date"
	"ballast/internal/panel"
	"ballast/internal/rebalance"
)

// CloseFill trades the order book against a fixed capital base. Every order
// fills at its own date's close; each period marks the previously held
// position from the prior close to the current one and subtracts that
// period's fill costs. An order dated on a missing close is fatal, a missing
// close under a held position only poisons that period's PnL.
func CloseFill(closes *panel.Frame, book *rebalance.Book, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if closes == nil || book == nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "nil closes or order book")
	}
	if !axesEqual(closes, book.Dates(), book.Symbols()) {
		return nil, core.Wrapf(core.ErrUnalignedPanels, "order book axes do not match the close panel")
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
	gaps := newGapSet()
	var fills []Fill

	for i := 0; i < n; i++ {
		if i > 0 {
			markRow(closes, i, pos, bySymbol, gaps)
		}
		for _, o := range book.Row(i) {
			j, _ := closes.SymbolIndex(o.Symbol)
			price := closes.ValueAt(i, j)
			if panel.IsMissing(price) {
				return nil, core.Wrapf(core.ErrExecutionGap, "%s on %s", o.Symbol, o.Date)
			}
			charge := cfg.Costs.Charge(o.Qty, price)
			pos[j] += o.Qty
			costs[i] += charge
			bySymbol.SetAt(i, j, bySymbol.ValueAt(i, j)-charge)
			fills = append(fills, Fill{Date: o.Date, Symbol: o.Symbol, Qty: o.Qty, Price: price, Cost: charge})
		}
		pnl[i] = rowSum(bySymbol, i)
		if i == 0 {
			equity[i] = cfg.Capital + pnl[i]
		} else {
			equity[i] = equity[i-1] + pnl[i]
		}
		for j := range pos {
			positions.SetAt(i, j, pos[j])
		}
	}
	return assemble(closes.Dates(), bySymbol, positions, pnl, costs, equity, fills, gaps)
}

// markRow marks every held position from the previous close to the current
// one. Flat positions contribute nothing no matter what the data looks
// like; held positions with a missing close on either side poison the cell
// and record the gap.
func markRow(closes *panel.Frame, i int, pos []float64, bySymbol *panel.Frame, gaps *gapSet) {
	for j := range pos {
		if pos[j] == 0 {
			continue
		}
		prev := closes.ValueAt(i-1, j)
		cur := closes.ValueAt(i, j)
		if panel.IsMissing(prev) {
			gaps.add(closes.DateAt(i-1), closes.SymbolAt(j))
		}
		if panel.IsMissing(cur) {
			gaps.add(closes.DateAt(i), closes.SymbolAt(j))
		}
		bySymbol.SetAt(i, j, pos[j]*(cur-prev))
	}
}

func rowSum(f *panel.Frame, i int) float64 {
	var total float64
	for j := 0; j < f.NumSymbols(); j++ {
		total += f.ValueAt(i, j)
	}
	return total
}

func axesEqual(f *panel.Frame, ds []date.Date, syms []string) bool {
	if f.Len() != len(ds) || f.NumSymbols() != len(syms) {
		return false
	}
	for i, d := range ds {
		if f.DateAt(i) != d {
			return false
		}
	}
	for j, s := range syms {
		if f.SymbolAt(j) != s {
			return false
		}
	}
	return true
}

func assemble(ds []date.Date, bySymbol, positions *panel.Frame, pnl, costs, equity []float64, fills []Fill, gaps *gapSet) (*Result, error) {
	pnlS, err := panel.NewSeries(ds, pnl)
	if err != nil {
		return nil, err
	}
	costS, err := panel.NewSeries(ds, costs)
	if err != nil {
		return nil, err
	}
	eqS, err := panel.NewSeries(ds, equity)
	if err != nil {
		return nil, err
	}
	return &Result{
		PnL:       pnlS,
		BySymbol:  bySymbol,
		Equity:    eqS,
		Costs:     costS,
		Positions: positions,
		Fills:     fills,
		Gaps:      gaps.list,
	}, nil
}
