// Package engine drives one backtest end to end: align the input
// panels, plan orders, simulate fills, score the result and hand the
// artifacts to whatever sinks are attached.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ballast/internal/commentary"
	"ballast/internal/config"
	"ballast/internal/core"
	"ballast/internal/logger"
	"ballast/internal/metrics"
	"ballast/internal/panel"
	"ballast/internal/perf"
	"ballast/internal/rebalance"
	"ballast/internal/report"
	"ballast/internal/sim"
	"ballast/internal/storage/archive"
)

// Inputs are the panels one run consumes. Weights define the run's
// axes; Closes is realigned onto them before anything executes, so a
// close the weights never reference is dropped and a referenced close
// that is absent becomes a data gap.
type Inputs struct {
	Label   string
	Weights *panel.Frame
	Closes  *panel.Frame
}

// Result is everything one run produced.
type Result struct {
	RunID      string          `json:"run_id"`
	Label      string          `json:"label"`
	Mode       core.Mode       `json:"mode"`
	Plan       *rebalance.Book `json:"-"` // nil in tplus1 mode
	Sim        *sim.Result     `json:"-"`
	Summary    perf.Summary    `json:"summary"`
	Gaps       []sim.Gap       `json:"gaps,omitempty"`
	Commentary string          `json:"commentary,omitempty"`
	ArchivedAt string          `json:"archived_at,omitempty"`
	Elapsed    time.Duration   `json:"-"`
}

// Engine runs backtests against one configuration. Metrics, archive
// and commentary sinks are optional; a bare Engine just computes.
type Engine struct {
	cfg     *config.Config
	log     *zap.Logger
	reg     *metrics.Registry
	store   archive.Storage
	comment *commentary.Generator
	now     func() time.Time
}

// New creates an Engine.
func New(cfg *config.Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log, now: time.Now}
}

// Mode returns the configured fill mode.
func (e *Engine) Mode() core.Mode { return e.cfg.Mode() }

// Backtest returns the configured sizing and cost parameters.
func (e *Engine) Backtest() config.BacktestConfig { return e.cfg.Backtest }

// WithBacktest returns a copy of the engine using bt for sizing and
// costs. Logger and sinks are shared with the original.
func (e *Engine) WithBacktest(bt config.BacktestConfig) *Engine {
	clone := *e
	cfg := *e.cfg
	cfg.Backtest = bt
	clone.cfg = &cfg
	return &clone
}

// SetMetrics attaches a metrics registry.
func (e *Engine) SetMetrics(reg *metrics.Registry) { e.reg = reg }

// SetArchive attaches an artifact store.
func (e *Engine) SetArchive(store archive.Storage) { e.store = store }

// SetCommentary attaches a commentary generator.
func (e *Engine) SetCommentary(g *commentary.Generator) { e.comment = g }

// Plan converts weights into an order plan without simulating fills.
func (e *Engine) Plan(in Inputs) (*rebalance.Book, error) {
	bt := e.cfg.Backtest
	closes, err := alignCloses(in)
	if err != nil {
		return nil, err
	}
	target, err := rebalance.TargetShares(in.Weights, closes, bt.Capital, bt.LotSize)
	if err != nil {
		return nil, err
	}
	return rebalance.Orders(target, bt.LotSize)
}

// Run executes the full pipeline using the configured fill mode.
func (e *Engine) Run(ctx context.Context, in Inputs) (*Result, error) {
	return e.RunMode(ctx, in, e.cfg.Mode())
}

// RunMode executes the full pipeline with an explicit fill mode.
func (e *Engine) RunMode(ctx context.Context, in Inputs, mode core.Mode) (*Result, error) {
	start := e.now()
	if in.Weights == nil || in.Closes == nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "weights and closes are both required")
	}
	runID := uuid.NewString()
	log := logger.ForRun(e.log, runID, string(mode))

	log.Info("run starting",
		zap.String("label", in.Label),
		zap.Int("periods", in.Weights.Len()),
		zap.Int("symbols", in.Weights.NumSymbols()))

	simRes, plan, err := e.simulate(in, mode)
	if err != nil {
		e.observeRun(mode, "error", time.Since(start))
		log.Error("run failed", zap.Error(err))
		return nil, err
	}

	bt := e.cfg.Backtest
	out := &Result{
		RunID:   runID,
		Label:   in.Label,
		Mode:    mode,
		Plan:    plan,
		Sim:     simRes,
		Summary: perf.Summarize(simRes.PnL, bt.Capital, bt.RFAnnual),
		Gaps:    simRes.Gaps,
	}

	for _, g := range simRes.Gaps {
		log.Warn("data gap during held position",
			zap.String("symbol", g.Symbol),
			zap.Stringer("date", g.Date))
	}

	if e.comment != nil {
		text, err := e.comment.Generate(ctx, in.Label, string(mode), out.Summary)
		if err != nil {
			log.Warn("commentary failed", zap.Error(err))
		} else {
			out.Commentary = text
		}
	}

	if e.store != nil {
		prefix, err := e.archiveRun(ctx, out)
		if err != nil {
			log.Warn("archive failed", zap.Error(err))
		} else {
			out.ArchivedAt = prefix
		}
	}

	out.Elapsed = time.Since(start)
	e.observeRun(mode, "ok", out.Elapsed)
	if e.reg != nil {
		e.reg.AddOrders(len(simRes.Fills))
		e.reg.AddGaps(len(simRes.Gaps))
	}

	log.Info("run complete",
		zap.Int("fills", len(simRes.Fills)),
		zap.Int("gaps", len(simRes.Gaps)),
		zap.Float64("total_pnl", out.Summary.TotalPnL),
		zap.Duration("elapsed", out.Elapsed))
	return out, nil
}

func (e *Engine) simulate(in Inputs, mode core.Mode) (*sim.Result, *rebalance.Book, error) {
	bt := e.cfg.Backtest
	simCfg := sim.Config{
		Capital: bt.Capital,
		LotSize: bt.LotSize,
		Costs: sim.Costs{
			FeeBP:     bt.FeeBP,
			SlipBP:    bt.SlipBP,
			SellTaxBP: bt.TaxBPSell,
		},
	}

	closes, err := alignCloses(in)
	if err != nil {
		return nil, nil, err
	}

	switch mode {
	case core.ModeClose:
		target, err := rebalance.TargetShares(in.Weights, closes, bt.Capital, bt.LotSize)
		if err != nil {
			return nil, nil, err
		}
		book, err := rebalance.Orders(target, bt.LotSize)
		if err != nil {
			return nil, nil, err
		}
		res, err := sim.CloseFill(closes, book, simCfg)
		if err != nil {
			return nil, nil, err
		}
		return res, book, nil
	case core.ModeTPlus1:
		res, err := sim.TPlusOne(in.Weights, closes, simCfg)
		if err != nil {
			return nil, nil, err
		}
		return res, nil, nil
	default:
		return nil, nil, core.Wrapf(core.ErrInvalidInput, "unknown mode %q", mode)
	}
}

func alignCloses(in Inputs) (*panel.Frame, error) {
	if in.Weights == nil || in.Closes == nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "weights and closes are both required")
	}
	if in.Closes.SameAxes(in.Weights) {
		return in.Closes, nil
	}
	return in.Closes.Reindex(in.Weights.Dates(), in.Weights.Symbols())
}

func (e *Engine) archiveRun(ctx context.Context, r *Result) (string, error) {
	summaryJSON, err := json.MarshalIndent(r.Summary, "", "  ")
	if err != nil {
		return "", err
	}

	var ledger, fills bytes.Buffer
	if err := report.WriteLedger(&ledger, r.Sim); err != nil {
		return "", err
	}
	if err := report.WriteFills(&fills, r.Sim); err != nil {
		return "", err
	}

	art := archive.RunArtifacts{
		Summary:    summaryJSON,
		Ledger:     ledger.Bytes(),
		Fills:      fills.Bytes(),
		Commentary: []byte(r.Commentary),
	}
	if png, err := report.RenderEquityChart(r.Sim.Equity, e.cfg.Backtest.Capital); err != nil {
		e.log.Debug("equity chart skipped", zap.Error(err))
	} else {
		art.Chart = png
	}

	return archive.SaveRun(ctx, e.store, r.Label, e.now(), art)
}

func (e *Engine) observeRun(mode core.Mode, status string, d time.Duration) {
	if e.reg == nil {
		return
	}
	e.reg.RecordRun(string(mode), status, d.Seconds())
}
