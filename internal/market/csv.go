package market

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"ballast/internal/core"
	"ballast/internal/date"
	"ballast/internal/panel"
)

// Bar files carry one row per symbol and day:
//
//	symbol,date,open,high,low,close,volume
//
// symbol, date and close are required columns; the rest are optional and
// default to zero. A blank or NA close cell is kept as a missing quote.
//
// Weight files carry one row per rebalance date, one column per symbol:
//
//	date,AAA,BBB,...
//
// Blank and NA cells are missing weights. Rows must already be in
// chronological order; ordering is never repaired here.

// ReadBars parses a bar CSV from r.
func ReadBars(r io.Reader) ([]Bar, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return nil, core.Wrapf(core.ErrNoData, "bar file is empty")
	}

	col := headerIndex(records[0])
	if _, ok := col["close"]; !ok {
		return nil, core.Wrapf(core.ErrMissingClose, "bar file header %v", records[0])
	}
	for _, required := range []string{"symbol", "date"} {
		if _, ok := col[required]; !ok {
			return nil, core.Wrapf(core.ErrInvalidInput, "bar file missing column %q", required)
		}
	}
	if len(records) == 1 {
		return nil, core.Wrapf(core.ErrNoData, "bar file has a header but no rows")
	}

	bars := make([]Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		sym := strings.TrimSpace(rec[col["symbol"]])
		if sym == "" {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: empty symbol", line)
		}
		d, err := date.Parse(strings.TrimSpace(rec[col["date"]]))
		if err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: %v", line, err)
		}
		b := Bar{Symbol: sym, Date: d}
		if b.Close, err = cell(rec, col, "close"); err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: close: %v", line, err)
		}
		if b.Open, err = optionalCell(rec, col, "open"); err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: open: %v", line, err)
		}
		if b.High, err = optionalCell(rec, col, "high"); err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: high: %v", line, err)
		}
		if b.Low, err = optionalCell(rec, col, "low"); err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: low: %v", line, err)
		}
		vol, err := optionalCell(rec, col, "volume")
		if err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: volume: %v", line, err)
		}
		b.Volume = int64(vol)
		bars = append(bars, b)
	}
	return bars, nil
}

// LoadBars reads a bar CSV from disk.
func LoadBars(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, err)
	}
	defer f.Close()
	return ReadBars(f)
}

// ReadWeights parses a weight CSV from r into a date-by-symbol frame.
func ReadWeights(r io.Reader) (*panel.Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return nil, core.Wrapf(core.ErrNoData, "weight file is empty")
	}

	header := records[0]
	if len(header) < 2 || strings.ToLower(strings.TrimSpace(header[0])) != "date" {
		return nil, core.Wrapf(core.ErrInvalidInput, "weight file header must be date,SYMBOL,... got %v", header)
	}
	symbols := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		symbols = append(symbols, strings.TrimSpace(h))
	}
	if len(records) == 1 {
		return nil, core.Wrapf(core.ErrNoData, "weight file has a header but no rows")
	}

	dates := make([]date.Date, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(header) {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: %d cells, want %d", line, len(rec), len(header))
		}
		d, err := date.Parse(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "line %d: %v", line, err)
		}
		row := make([]float64, len(symbols))
		for j := range symbols {
			row[j], err = parseCell(rec[j+1])
			if err != nil {
				return nil, core.Wrapf(core.ErrInvalidInput, "line %d: %s: %v", line, symbols[j], err)
			}
		}
		dates = append(dates, d)
		rows = append(rows, row)
	}

	f, err := panel.NewFrame(dates, symbols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		for j, v := range row {
			f.SetAt(i, j, v)
		}
	}
	return f, nil
}

// LoadWeights reads a weight CSV from disk.
func LoadWeights(path string) (*panel.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, err)
	}
	defer f.Close()
	return ReadWeights(f)
}

func headerIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

// parseCell reads one numeric cell; blank and NA spellings are missing.
func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return panel.Missing(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func cell(rec []string, col map[string]int, name string) (float64, error) {
	return parseCell(rec[col[name]])
}

func optionalCell(rec []string, col map[string]int, name string) (float64, error) {
	i, ok := col[name]
	if !ok {
		return 0, nil
	}
	v, err := parseCell(rec[i])
	if err != nil {
		return 0, err
	}
	if panel.IsMissing(v) {
		return 0, nil
	}
	return v, nil
}
