package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ballast/internal/commentary"
	"ballast/internal/config"
	"ballast/internal/engine"
	"ballast/internal/llm/factory"
	"ballast/internal/storage/archive"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ballast",
	Short: "Ballast - portfolio backtesting and rebalancing engine",
	Long: `Ballast turns a panel of target portfolio weights into lot-sized orders,
simulates their fills against daily closes and reports the performance
of the resulting book. Fills execute same-day at the close or next-day
against dynamic equity.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

// setup loads the configuration without validating it, so commands can
// layer flag overrides on top before calling Validate.
func setup(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
		return config.Defaults(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// attachSinks wires the optional archive and commentary sinks onto the
// engine. A sink that fails to construct is logged and skipped; runs
// proceed without it.
func attachSinks(eng *engine.Engine, cfg *config.Config, log *zap.Logger) {
	if cfg.Archive.Enabled {
		store, err := archive.Open(archive.Config{
			Type: cfg.Archive.Type,
			Path: cfg.Archive.Path,
			S3: archive.S3Config{
				Bucket:    cfg.Archive.S3.Bucket,
				Endpoint:  cfg.Archive.S3.Endpoint,
				Region:    cfg.Archive.S3.Region,
				AccessKey: cfg.Archive.S3.AccessKey,
				SecretKey: cfg.Archive.S3.SecretKey,
				Prefix:    cfg.Archive.S3.Prefix,
			},
		})
		if err != nil {
			log.Warn("archive unavailable", zap.Error(err))
		} else {
			eng.SetArchive(store)
		}
	}

	if cfg.Commentary.Enabled {
		provider, err := factory.New(cfg.Commentary)
		if err != nil {
			log.Warn("commentary unavailable", zap.Error(err))
		} else {
			eng.SetCommentary(commentary.New(provider, log))
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
