// Package market holds quoted price history and the CSV ingestion for it.
// The engine consumes history only through close-price panels aligned onto
// the weight axes; everything else here exists to build those panels.
package market

import (
	"sort"

	"ballast/internal/date"
	"ballast/internal/panel"
)

// Bar is one daily quote for one symbol. Close drives every calculation;
// the remaining fields are carried for reporting and archives.
type Bar struct {
	Symbol string    `json:"symbol"`
	Date   date.Date `json:"date"`
	Open   float64   `json:"open,omitempty"`
	High   float64   `json:"high,omitempty"`
	Low    float64   `json:"low,omitempty"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume,omitempty"`
}

// History is quoted bars keyed by symbol and date. Later bars for the same
// symbol and date overwrite earlier ones.
type History struct {
	bars map[string]map[date.Date]Bar
}

// NewHistory indexes the given bars.
func NewHistory(bars []Bar) *History {
	h := &History{bars: make(map[string]map[date.Date]Bar)}
	for _, b := range bars {
		h.Add(b)
	}
	return h
}

// Add inserts or replaces one bar.
func (h *History) Add(b Bar) {
	bySym, ok := h.bars[b.Symbol]
	if !ok {
		bySym = make(map[date.Date]Bar)
		h.bars[b.Symbol] = bySym
	}
	bySym[b.Date] = b
}

// Len returns the total number of bars held.
func (h *History) Len() int {
	n := 0
	for _, bySym := range h.bars {
		n += len(bySym)
	}
	return n
}

// Bar returns the bar for (sym, d) if quoted.
func (h *History) Bar(sym string, d date.Date) (Bar, bool) {
	b, ok := h.bars[sym][d]
	return b, ok
}

// Close returns the close for (sym, d) if quoted.
func (h *History) Close(sym string, d date.Date) (float64, bool) {
	b, ok := h.bars[sym][d]
	if !ok {
		return panel.Missing(), false
	}
	return b.Close, true
}

// Symbols returns the quoted symbols, sorted.
func (h *History) Symbols() []string {
	out := make([]string, 0, len(h.bars))
	for sym := range h.bars {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Dates returns every quoted date across all symbols, ascending.
func (h *History) Dates() []date.Date {
	seen := make(map[date.Date]struct{})
	for _, bySym := range h.bars {
		for d := range bySym {
			seen[d] = struct{}{}
		}
	}
	out := make([]date.Date, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ClosePanel projects close prices onto the given axes by exact date and
// symbol match. Dates or symbols the history never quoted come back as
// missing cells, which is how price gaps enter the pipeline.
func (h *History) ClosePanel(dates []date.Date, symbols []string) (*panel.Frame, error) {
	f, err := panel.NewFrame(dates, symbols)
	if err != nil {
		return nil, err
	}
	f.Fill(panel.Missing())
	for _, sym := range symbols {
		bySym, ok := h.bars[sym]
		if !ok {
			continue
		}
		for _, d := range dates {
			if b, ok := bySym[d]; ok {
				f.Set(d, sym, b.Close)
			}
		}
	}
	return f, nil
}
