package engine

import (
	"os"
	"path/filepath"
	"strings"

	"ballast/internal/config"
	"ballast/internal/market"
	"ballast/internal/report"
)

// LoadInputs reads the configured CSV inputs and aligns the close panel
// onto the weight axes. The run label is the weights file's base name.
func LoadInputs(cfg config.DataConfig) (Inputs, error) {
	weights, err := market.LoadWeights(cfg.Weights)
	if err != nil {
		return Inputs{}, err
	}
	bars, err := market.LoadBars(cfg.Prices)
	if err != nil {
		return Inputs{}, err
	}
	closes, err := market.NewHistory(bars).ClosePanel(weights.Dates(), weights.Symbols())
	if err != nil {
		return Inputs{}, err
	}

	label := strings.TrimSuffix(filepath.Base(cfg.Weights), filepath.Ext(cfg.Weights))
	return Inputs{Label: label, Weights: weights, Closes: closes}, nil
}

// WriteOutputs writes the configured local artifacts for a finished run
// and returns the paths it wrote.
func (e *Engine) WriteOutputs(r *Result) ([]string, error) {
	out := e.cfg.Output
	if out.Dir == "" || (!out.Ledger && !out.Chart) {
		return nil, nil
	}
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	if out.Ledger {
		p := filepath.Join(out.Dir, r.Label+"-ledger.csv")
		if err := report.WriteLedgerCSV(p, r.Sim); err != nil {
			return paths, err
		}
		paths = append(paths, p)

		p = filepath.Join(out.Dir, r.Label+"-fills.csv")
		if err := report.WriteFillsCSV(p, r.Sim); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	if out.Chart {
		png, err := report.RenderEquityChart(r.Sim.Equity, e.cfg.Backtest.Capital)
		if err != nil {
			return paths, err
		}
		p := filepath.Join(out.Dir, r.Label+"-equity.png")
		if err := os.WriteFile(p, png, 0644); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}
