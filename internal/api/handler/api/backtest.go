// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ballast/internal/api/job"
	"ballast/internal/api/response"
	"ballast/internal/core"
	"ballast/internal/date"
	"ballast/internal/engine"
	"ballast/internal/metrics"
	"ballast/internal/panel"
)

const runTimeout = 5 * time.Minute

// BacktestRequest is the request body for starting a backtest. Panels
// arrive row-major: weights[i][j] and closes[i][j] belong to dates[i]
// and symbols[j]. A null close marks a missing price. Sizing and cost
// fields are optional and fall back to the server's configuration.
type BacktestRequest struct {
	Label   string       `json:"label,omitempty"`
	Mode    string       `json:"mode,omitempty"`
	Dates   []string     `json:"dates"`
	Symbols []string     `json:"symbols"`
	Weights [][]float64  `json:"weights"`
	Closes  [][]*float64 `json:"closes"`

	Capital   *float64 `json:"capital,omitempty"`
	LotSize   *int     `json:"lot_size,omitempty"`
	FeeBP     *float64 `json:"fee_bp,omitempty"`
	SlipBP    *float64 `json:"slip_bp,omitempty"`
	TaxBPSell *float64 `json:"tax_bp_sell,omitempty"`
}

// BacktestHandler serves the async backtest endpoints.
type BacktestHandler struct {
	jobs *job.Store
	eng  *engine.Engine
	reg  *metrics.Registry
	log  *zap.Logger
}

// NewBacktestHandler creates a new backtest handler. The metrics
// registry may be nil.
func NewBacktestHandler(jobs *job.Store, eng *engine.Engine, reg *metrics.Registry, log *zap.Logger) *BacktestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BacktestHandler{jobs: jobs, eng: eng, reg: reg, log: log}
}

// Create starts a new backtest job.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, err))
		return
	}

	mode := h.eng.Mode()
	if req.Mode != "" {
		var err error
		mode, err = core.ParseMode(req.Mode)
		if err != nil {
			response.FromError(w, err)
			return
		}
	}

	eng, err := h.engineFor(&req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	in, err := req.inputs()
	if err != nil {
		response.FromError(w, err)
		return
	}

	j := h.jobs.Create("backtest")
	h.syncJobs()

	go h.run(eng, j.ID, in, mode)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": j.ID,
		"status": j.Status,
	})
}

// engineFor applies the request's sizing and cost overrides, if any.
func (h *BacktestHandler) engineFor(req *BacktestRequest) (*engine.Engine, error) {
	if req.Capital == nil && req.LotSize == nil && req.FeeBP == nil &&
		req.SlipBP == nil && req.TaxBPSell == nil {
		return h.eng, nil
	}

	bt := h.eng.Backtest()
	if req.Capital != nil {
		bt.Capital = *req.Capital
	}
	if req.LotSize != nil {
		bt.LotSize = *req.LotSize
	}
	if req.FeeBP != nil {
		bt.FeeBP = *req.FeeBP
	}
	if req.SlipBP != nil {
		bt.SlipBP = *req.SlipBP
	}
	if req.TaxBPSell != nil {
		bt.TaxBPSell = *req.TaxBPSell
	}
	if err := bt.Validate(); err != nil {
		return nil, err
	}
	return h.eng.WithBacktest(bt), nil
}

// run executes the backtest and updates job status.
func (h *BacktestHandler) run(eng *engine.Engine, jobID string, in engine.Inputs, mode core.Mode) {
	h.jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})
	h.syncJobs()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	result, err := eng.RunMode(ctx, in, mode)

	if err != nil {
		h.log.Warn("backtest job failed",
			zap.String("job_id", jobID), zap.Error(err))
		h.jobs.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		h.syncJobs()
		return
	}

	h.jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = result
	})
	h.syncJobs()
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobs.Get(jobID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// List returns a summary line per known job, oldest first.
func (h *BacktestHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.List()
	items := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, map[string]any{
			"job_id":     j.ID,
			"status":     j.Status,
			"progress":   j.Progress,
			"created_at": j.CreatedAt,
		})
	}
	response.JSON(w, http.StatusOK, items)
}

// inputs converts the wire panels into engine inputs.
func (req *BacktestRequest) inputs() (engine.Inputs, error) {
	if len(req.Dates) == 0 || len(req.Symbols) == 0 {
		return engine.Inputs{}, core.Wrapf(core.ErrInvalidInput,
			"dates and symbols are required")
	}
	if len(req.Weights) != len(req.Dates) || len(req.Closes) != len(req.Dates) {
		return engine.Inputs{}, core.Wrapf(core.ErrInvalidInput,
			"weights and closes need one row per date")
	}

	ds := make([]date.Date, len(req.Dates))
	for i, s := range req.Dates {
		d, err := date.Parse(s)
		if err != nil {
			return engine.Inputs{}, core.WrapError(core.ErrInvalidInput, err)
		}
		ds[i] = d
	}

	weights, err := panel.NewFrame(ds, req.Symbols)
	if err != nil {
		return engine.Inputs{}, err
	}
	closes, err := panel.NewFrame(ds, req.Symbols)
	if err != nil {
		return engine.Inputs{}, err
	}

	for i := range ds {
		if len(req.Weights[i]) != len(req.Symbols) || len(req.Closes[i]) != len(req.Symbols) {
			return engine.Inputs{}, core.Wrapf(core.ErrInvalidInput,
				"row %d needs one cell per symbol", i)
		}
		for j := range req.Symbols {
			weights.SetAt(i, j, req.Weights[i][j])
			if c := req.Closes[i][j]; c != nil {
				closes.SetAt(i, j, *c)
			} else {
				closes.SetAt(i, j, panel.Missing())
			}
		}
	}

	label := req.Label
	if label == "" {
		label = "api"
	}
	return engine.Inputs{Label: label, Weights: weights, Closes: closes}, nil
}

func (h *BacktestHandler) syncJobs() {
	if h.reg != nil {
		h.reg.SetJobsActive(h.jobs.Active())
	}
}

func asCoreError(err error) *core.Error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce
	}
	return core.WrapError(core.ErrRunFailed, err)
}
