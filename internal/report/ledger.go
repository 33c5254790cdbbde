package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"ballast/internal/panel"
	"ballast/internal/sim"
)

// WriteLedger writes one row per period: pnl, running pnl, charged cost
// and equity. Periods poisoned by a data gap render as empty cells.
func WriteLedger(out io.Writer, res *sim.Result) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"index",
		"date",
		"pnl",
		"cum_pnl",
		"cost",
		"equity",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	cum := res.PnL.CumSum()
	for i := 0; i < res.PnL.Len(); i++ {
		row := []string{
			strconv.Itoa(i),
			res.PnL.DateAt(i).String(),
			fmtCell(res.PnL.ValueAt(i)),
			fmtCell(cum.ValueAt(i)),
			fmtCell(res.Costs.ValueAt(i)),
			fmtCell(res.Equity.ValueAt(i)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteLedgerCSV writes the ledger to a file.
func WriteLedgerCSV(path string, res *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteLedger(f, res)
}

// WriteFills writes one row per executed order.
func WriteFills(out io.Writer, res *sim.Result) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"date",
		"symbol",
		"qty",
		"price",
		"cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fl := range res.Fills {
		row := []string{
			fl.Date.String(),
			fl.Symbol,
			fmtCell(fl.Qty),
			fmtCell(fl.Price),
			fmtCell(fl.Cost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteFillsCSV writes the fills to a file.
func WriteFillsCSV(path string, res *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFills(f, res)
}

func fmtCell(x float64) string {
	if panel.IsMissing(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
