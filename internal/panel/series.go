package panel

import (
	"ballast/internal/core"
	"ballast/internal/date"
)

// Series is a date-indexed float64 vector with a strictly ascending axis.
type Series struct {
	dates []date.Date
	vals  []float64
}

// NewSeries builds a Series over the given axis. Dates must be strictly
// ascending and len(vals) must match.
func NewSeries(dates []date.Date, vals []float64) (*Series, error) {
	if len(dates) != len(vals) {
		return nil, core.Wrapf(core.ErrInvalidInput, "series axis/value length mismatch: %d vs %d", len(dates), len(vals))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			return nil, core.Wrapf(core.ErrInvalidInput, "series axis not strictly ascending at %s", dates[i])
		}
	}
	return &Series{
		dates: append([]date.Date(nil), dates...),
		vals:  append([]float64(nil), vals...),
	}, nil
}

// MustSeries is NewSeries that panics on error; for fixtures.
func MustSeries(dates []date.Date, vals []float64) *Series {
	s, err := NewSeries(dates, vals)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// Len returns the number of entries.
func (s *Series) Len() int { return len(s.dates) }

// DateAt returns the date of entry i.
func (s *Series) DateAt(i int) date.Date { return s.dates[i] }

// ValueAt returns the value of entry i.
func (s *Series) ValueAt(i int) float64 { return s.vals[i] }

// At returns the value for d and whether d is on the axis.
func (s *Series) At(d date.Date) (float64, bool) {
	for i, x := range s.dates {
		if x == d {
			return s.vals[i], true
		}
	}
	return Missing(), false
}

// Dates returns a copy of the axis.
func (s *Series) Dates() []date.Date { return append([]date.Date(nil), s.dates...) }

// Values returns a copy of the values.
func (s *Series) Values() []float64 { return append([]float64(nil), s.vals...) }

// Sum returns the plain sum; any missing entry makes the sum missing.
func (s *Series) Sum() float64 {
	var total float64
	for _, v := range s.vals {
		total += v
	}
	return total
}

// CumSum returns the running sum as a new series. A missing entry poisons
// every later entry, which is intended: consumers that want gaps skipped
// must do so explicitly.
func (s *Series) CumSum() *Series {
	vals := make([]float64, len(s.vals))
	var run float64
	for i, v := range s.vals {
		run += v
		vals[i] = run
	}
	out, _ := NewSeries(s.dates, vals)
	return out
}
