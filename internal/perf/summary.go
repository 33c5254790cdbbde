// Package perf condenses a simulated PnL series into the usual scorecard:
// returns, volatility, Sharpe, drawdown and win counts. Summarize never
// errors; inputs it cannot score produce a zeroed summary.
package perf

import (
	"math"

	"ballast/internal/panel"
)

// TradingDays is the annualization base for daily periods.
const TradingDays = 252

// Summary is the condensed scorecard of one run. Ratios are fractions, not
// percentages; MaxDrawdown is the deepest peak-to-trough fall as a fraction
// of the peak and can exceed 1 when equity goes negative.
type Summary struct {
	Periods          int     `json:"periods"`
	GapPeriods       int     `json:"gap_periods"`
	WinningPeriods   int     `json:"winning_periods"`
	LosingPeriods    int     `json:"losing_periods"`
	WinRate          float64 `json:"win_rate"`
	TotalPnL         float64 `json:"total_pnl"`
	TotalReturn      float64 `json:"total_return"`
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
	Sharpe           float64 `json:"sharpe"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	FinalEquity      float64 `json:"final_equity"`
}

// Summarize scores a per-period PnL series against the starting capital.
// rfAnnual is the annual risk-free rate used for the Sharpe excess.
//
// Missing periods count as gaps: they contribute nothing to the cumulative
// figures and are excluded from the return moments, but the elapsed time
// still annualizes. Per-period returns are taken against running equity,
// and periods whose running equity is not positive are left out of the
// moments entirely.
func Summarize(pnl *panel.Series, capital, rfAnnual float64) Summary {
	if pnl == nil || pnl.Len() == 0 || capital <= 0 {
		return Summary{}
	}

	s := Summary{Periods: pnl.Len()}
	var cum float64
	var returns []float64
	prevEquity := capital
	peak := capital
	for i := 0; i < pnl.Len(); i++ {
		v := pnl.ValueAt(i)
		if panel.IsMissing(v) {
			s.GapPeriods++
			continue
		}
		if v > 0 {
			s.WinningPeriods++
		} else if v < 0 {
			s.LosingPeriods++
		}
		if prevEquity > 0 {
			returns = append(returns, v/prevEquity)
		}
		cum += v
		equity := capital + cum
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}
		prevEquity = equity
	}

	s.TotalPnL = cum
	s.TotalReturn = cum / capital
	s.FinalEquity = capital + cum
	if decided := s.WinningPeriods + s.LosingPeriods; decided > 0 {
		s.WinRate = float64(s.WinningPeriods) / float64(decided)
	}

	// Compound the whole-run return over the elapsed periods.
	if growth := 1 + s.TotalReturn; growth > 0 {
		s.AnnualReturn = math.Pow(growth, TradingDays/float64(s.Periods)) - 1
	} else {
		s.AnnualReturn = -1
	}

	if sd := stdDev(returns); sd > 0 {
		s.AnnualVolatility = sd * math.Sqrt(TradingDays)
		excess := mean(returns) - rfAnnual/TradingDays
		s.Sharpe = excess * TradingDays / s.AnnualVolatility
	}
	return s
}

// Metric is one named summary figure, for rendering in a fixed order.
type Metric struct {
	Name  string
	Value float64
}

// Metrics returns the summary as ordered name/value pairs.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{"periods", float64(s.Periods)},
		{"gap_periods", float64(s.GapPeriods)},
		{"winning_periods", float64(s.WinningPeriods)},
		{"losing_periods", float64(s.LosingPeriods)},
		{"win_rate", s.WinRate},
		{"total_pnl", s.TotalPnL},
		{"total_return", s.TotalReturn},
		{"annual_return", s.AnnualReturn},
		{"annual_volatility", s.AnnualVolatility},
		{"sharpe", s.Sharpe},
		{"max_drawdown", s.MaxDrawdown},
		{"final_equity", s.FinalEquity},
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the sample standard deviation; fewer than two samples score 0.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var variance float64
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	return math.Sqrt(variance / float64(len(xs)-1))
}
