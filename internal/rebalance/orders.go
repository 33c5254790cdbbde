package rebalance

import (
	"ballast/internal/core"
	"ballast/internal/date"
	"ballast/internal/panel"
)

// Order is one dated instruction to change a position: positive Qty buys,
// negative sells.
type Order struct {
	Date   date.Date `json:"date"`
	Symbol string    `json:"symbol"`
	Qty    float64   `json:"qty"`
}

// Book holds generated orders together with the axes they were generated
// over. The axes are kept even when every delta collapsed to zero, so
// downstream consumers always see the full schedule.
type Book struct {
	dates   []date.Date
	symbols []string
	rows    [][]Order // one slice per date, column order within
	total   int
}

// Dates returns a copy of the date axis.
func (b *Book) Dates() []date.Date { return append([]date.Date(nil), b.dates...) }

// Symbols returns a copy of the symbol axis.
func (b *Book) Symbols() []string { return append([]string(nil), b.symbols...) }

// Len returns the total number of orders.
func (b *Book) Len() int { return b.total }

// Empty reports whether no order survived generation.
func (b *Book) Empty() bool { return b.total == 0 }

// Row returns the orders of date row i.
func (b *Book) Row(i int) []Order { return append([]Order(nil), b.rows[i]...) }

// At returns the orders for d, nil when d is off the axis or order-free.
func (b *Book) At(d date.Date) []Order {
	for i, x := range b.dates {
		if x == d {
			return b.Row(i)
		}
	}
	return nil
}

// All returns every order, ascending by date, column order within a date.
func (b *Book) All() []Order {
	out := make([]Order, 0, b.total)
	for i := range b.rows {
		out = append(out, b.rows[i]...)
	}
	return out
}

// Orders diffs consecutive target rows into dated orders. It folds over the
// rows in the order given, carrying a previous-position vector that starts
// at zero and is set to each row's target after processing, so the first
// row emits the full position. Missing targets count as zero before the
// diff, deltas are rounded with RoundLot, and zero deltas are dropped.
//
// The carried vector tracks the row target, not the rounded delta, so when
// rounding changes a delta the realized position drifts from the target;
// that drift is accepted, not corrected.
func Orders(target *panel.Frame, lotSize int) (*Book, error) {
	if target == nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "nil target panel")
	}
	if lotSize < 1 {
		return nil, core.Wrapf(core.ErrInvalidInput, "lot size must be at least 1, got %d", lotSize)
	}

	b := &Book{
		dates:   target.Dates(),
		symbols: target.Symbols(),
		rows:    make([][]Order, target.Len()),
	}
	prev := make([]float64, target.NumSymbols())
	for i := 0; i < target.Len(); i++ {
		d := target.DateAt(i)
		for j := 0; j < target.NumSymbols(); j++ {
			want := target.ValueAt(i, j)
			if panel.IsMissing(want) {
				want = 0
			}
			qty := RoundLot(want-prev[j], lotSize)
			if qty != 0 {
				b.rows[i] = append(b.rows[i], Order{Date: d, Symbol: target.SymbolAt(j), Qty: qty})
				b.total++
			}
			prev[j] = want
		}
	}
	return b, nil
}
