// Package panel holds the tabular data model shared by the rebalancing and
// simulation code: a Frame is a date-by-symbol table of float64 cells, a
// Series is a date-indexed vector. Missing values are IEEE NaN and pass
// through Missing and IsMissing at every call site.
package panel

import (
	"math"

	"ballast/internal/core"
	"ballast/internal/date"
)

// Missing returns the missing-value sentinel.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Frame is a date-by-symbol table. The date axis is strictly ascending and
// the symbol axis is unique; both are fixed at construction. Cells default
// to zero.
type Frame struct {
	dates   []date.Date
	symbols []string
	cells   [][]float64 // row per date, column per symbol
	dateIdx map[date.Date]int
	symIdx  map[string]int
}

// NewFrame builds an empty Frame over the given axes. Dates must be strictly
// ascending (hence unique) and symbols unique and non-empty; violations are
// input errors. Empty axes are legal and produce an empty frame.
func NewFrame(dates []date.Date, symbols []string) (*Frame, error) {
	f := &Frame{
		dates:   append([]date.Date(nil), dates...),
		symbols: append([]string(nil), symbols...),
		dateIdx: make(map[date.Date]int, len(dates)),
		symIdx:  make(map[string]int, len(symbols)),
	}
	for i, d := range f.dates {
		if i > 0 && !f.dates[i-1].Before(d) {
			return nil, core.Wrapf(core.ErrInvalidInput, "date axis not strictly ascending at %s", d)
		}
		f.dateIdx[d] = i
	}
	for j, s := range f.symbols {
		if s == "" {
			return nil, core.Wrapf(core.ErrInvalidInput, "empty symbol at column %d", j)
		}
		if _, dup := f.symIdx[s]; dup {
			return nil, core.Wrapf(core.ErrInvalidInput, "duplicate symbol %s", s)
		}
		f.symIdx[s] = j
	}
	f.cells = make([][]float64, len(f.dates))
	for i := range f.cells {
		f.cells[i] = make([]float64, len(f.symbols))
	}
	return f, nil
}

// MustFrame is NewFrame that panics on error; for fixtures.
func MustFrame(dates []date.Date, symbols []string) *Frame {
	f, err := NewFrame(dates, symbols)
	if err != nil {
		panic(err.Error())
	}
	return f
}

// Len returns the number of dates (rows).
func (f *Frame) Len() int { return len(f.dates) }

// NumSymbols returns the number of symbols (columns).
func (f *Frame) NumSymbols() int { return len(f.symbols) }

// DateAt returns the date of row i.
func (f *Frame) DateAt(i int) date.Date { return f.dates[i] }

// SymbolAt returns the symbol of column j.
func (f *Frame) SymbolAt(j int) string { return f.symbols[j] }

// Dates returns a copy of the date axis.
func (f *Frame) Dates() []date.Date { return append([]date.Date(nil), f.dates...) }

// Symbols returns a copy of the symbol axis.
func (f *Frame) Symbols() []string { return append([]string(nil), f.symbols...) }

// DateIndex returns the row index of d.
func (f *Frame) DateIndex(d date.Date) (int, bool) {
	i, ok := f.dateIdx[d]
	return i, ok
}

// SymbolIndex returns the column index of sym.
func (f *Frame) SymbolIndex(sym string) (int, bool) {
	j, ok := f.symIdx[sym]
	return j, ok
}

// At returns the cell for (d, sym), or the missing sentinel when either
// label is absent from the axes.
func (f *Frame) At(d date.Date, sym string) float64 {
	i, ok := f.dateIdx[d]
	if !ok {
		return Missing()
	}
	j, ok := f.symIdx[sym]
	if !ok {
		return Missing()
	}
	return f.cells[i][j]
}

// ValueAt returns the cell at row i, column j.
func (f *Frame) ValueAt(i, j int) float64 { return f.cells[i][j] }

// SetAt stores v at row i, column j.
func (f *Frame) SetAt(i, j int, v float64) { f.cells[i][j] = v }

// Set stores v for (d, sym) and reports whether the cell exists.
func (f *Frame) Set(d date.Date, sym string, v float64) bool {
	i, ok := f.dateIdx[d]
	if !ok {
		return false
	}
	j, ok := f.symIdx[sym]
	if !ok {
		return false
	}
	f.cells[i][j] = v
	return true
}

// Fill overwrites every cell with v.
func (f *Frame) Fill(v float64) {
	for i := range f.cells {
		for j := range f.cells[i] {
			f.cells[i][j] = v
		}
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	g, _ := NewFrame(f.dates, f.symbols)
	for i := range f.cells {
		copy(g.cells[i], f.cells[i])
	}
	return g
}

// FillNA returns a copy with every missing cell replaced by v.
func (f *Frame) FillNA(v float64) *Frame {
	g := f.Clone()
	for i := range g.cells {
		for j := range g.cells[i] {
			if IsMissing(g.cells[i][j]) {
				g.cells[i][j] = v
			}
		}
	}
	return g
}

// Reindex projects the frame onto new axes by exact label match. Cells with
// no counterpart in f become the missing sentinel; no interpolation or
// forward-fill of any kind happens here.
func (f *Frame) Reindex(dates []date.Date, symbols []string) (*Frame, error) {
	g, err := NewFrame(dates, symbols)
	if err != nil {
		return nil, err
	}
	g.Fill(Missing())
	for i, d := range g.dates {
		si, ok := f.dateIdx[d]
		if !ok {
			continue
		}
		for j, sym := range g.symbols {
			sj, ok := f.symIdx[sym]
			if !ok {
				continue
			}
			g.cells[i][j] = f.cells[si][sj]
		}
	}
	return g, nil
}

// SameAxes reports whether g has identical date and symbol axes, in order.
func (f *Frame) SameAxes(g *Frame) bool {
	if len(f.dates) != len(g.dates) || len(f.symbols) != len(g.symbols) {
		return false
	}
	for i := range f.dates {
		if f.dates[i] != g.dates[i] {
			return false
		}
	}
	for j := range f.symbols {
		if f.symbols[j] != g.symbols[j] {
			return false
		}
	}
	return true
}
