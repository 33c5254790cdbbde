// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apihandler "ballast/internal/api/handler/api"
	"ballast/internal/api/job"
	"ballast/internal/api/middleware"
	"ballast/internal/api/response"
	"ballast/internal/core"
	"ballast/internal/engine"
	"ballast/internal/metrics"
)

const jobsRoute = "/api/v1/backtests"

// Server is the HTTP front end: async backtest jobs, health and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	backtests  *apihandler.BacktestHandler
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string // empty disables auth
	MetricsPath string // empty disables the scrape endpoint
}

// Dependencies are the collaborators the server routes to. Metrics is
// optional.
type Dependencies struct {
	Engine  *engine.Engine
	Jobs    *job.Store
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Engine == nil || deps.Jobs == nil {
		return nil, core.Wrapf(core.ErrConfigInvalid, "server needs an engine and a job store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:    logger,
		mux:       mux,
		backtests: apihandler.NewBacktestHandler(deps.Jobs, deps.Engine, deps.Metrics, logger),
	}

	s.setupRoutes(cfg, deps)
	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	if deps.Metrics != nil && cfg.MetricsPath != "" {
		s.mux.Handle(cfg.MetricsPath, deps.Metrics.Handler())
	}

	chain := func(h http.Handler) http.Handler {
		h = middleware.APIKeyAuth(cfg.APIKey)(h)
		if deps.Metrics != nil {
			h = metrics.HTTPMiddleware(deps.Metrics)(h)
		}
		return metrics.LoggingMiddleware(s.logger)(h)
	}

	s.mux.Handle(jobsRoute, chain(http.HandlerFunc(s.handleBacktests)))
	s.mux.Handle(jobsRoute+"/", chain(http.HandlerFunc(s.handleBacktestByID)))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleBacktests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.backtests.Create(w, r)
	case http.MethodGet:
		s.backtests.List(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed,
			core.Wrapf(core.ErrInvalidInput, "method %s not allowed", r.Method))
	}
}

func (s *Server) handleBacktestByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed,
			core.Wrapf(core.ErrInvalidInput, "method %s not allowed", r.Method))
		return
	}
	id := strings.TrimPrefix(r.URL.Path, jobsRoute+"/")
	if id == "" || strings.Contains(id, "/") {
		response.FromError(w, core.Wrapf(core.ErrJobNotFound, "job %q", id))
		return
	}
	s.backtests.GetStatus(w, r, id)
}
