package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ballast/internal/api"
	"ballast/internal/api/job"
	"ballast/internal/engine"
	"ballast/internal/logger"
	"ballast/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the backtest API server",
	Long: `Serve exposes backtests over HTTP: POST a weight and close panel to
/api/v1/backtests and poll the returned job ID for the result. Health
lives at /healthz and Prometheus metrics at the configured path.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := setup(log)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	eng := engine.New(cfg, log)
	attachSinks(eng, cfg, log)

	var reg *metrics.Registry
	metricsPath := ""
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		metricsPath = cfg.Metrics.Path
		eng.SetMetrics(reg)
	}

	jobs := job.NewStore(cfg.Server.MaxJobs,
		time.Duration(cfg.Server.JobTTLHours)*time.Hour)

	log.Info("starting ballast server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Backtest.Mode),
	)

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: metricsPath,
	}, api.Dependencies{
		Engine:  eng,
		Jobs:    jobs,
		Metrics: reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down ballast server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
