// Package report renders run results for humans and files: a text
// scorecard, an order plan table, per-period ledger CSVs and an equity
// curve PNG.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"ballast/internal/perf"
	"ballast/internal/rebalance"
)

// WriteSummary renders the scorecard as an aligned two-column table.
func WriteSummary(out io.Writer, s perf.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE\t")
	fmt.Fprintln(w, "------\t-----\t")
	for _, m := range s.Metrics() {
		fmt.Fprintf(w, "%s\t%s\t\n", m.Name, formatMetric(m))
	}
	return w.Flush()
}

func formatMetric(m perf.Metric) string {
	switch m.Name {
	case "periods", "gap_periods", "winning_periods", "losing_periods":
		return strconv.Itoa(int(m.Value))
	case "win_rate", "total_return", "annual_return", "annual_volatility", "max_drawdown":
		return fmt.Sprintf("%.2f%%", m.Value*100)
	case "sharpe":
		return fmt.Sprintf("%.2f", m.Value)
	default:
		return fmt.Sprintf("%.2f", m.Value)
	}
}

// WriteOrders renders the order plan as a table, one row per order in
// date then symbol order.
func WriteOrders(out io.Writer, book *rebalance.Book) error {
	if book == nil || book.Empty() {
		_, err := fmt.Fprintln(out, "No orders.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSYMBOL\tSIDE\tQTY\t")
	fmt.Fprintln(w, "----\t------\t----\t---\t")

	for _, o := range book.All() {
		side, qty := "BUY", o.Qty
		if qty < 0 {
			side, qty = "SELL", -qty
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t\n", o.Date, o.Symbol, side, qty)
	}
	return w.Flush()
}
