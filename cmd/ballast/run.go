package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ballast/internal/core"
	"ballast/internal/engine"
	"ballast/internal/logger"
	"ballast/internal/report"
)

var (
	runWeights string
	runPrices  string
	runMode    string
	runOutDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest and print the performance summary",
	Long: `Run loads the weight and price CSVs, simulates the configured fill
mode over them and prints the performance scorecard. Ledger, fills and
chart artifacts land in the output directory when enabled.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runWeights, "weights", "", "weights CSV path (overrides config)")
	runCmd.Flags().StringVar(&runPrices, "prices", "", "prices CSV path (overrides config)")
	runCmd.Flags().StringVar(&runMode, "mode", "", `fill mode: "close" or "tplus1" (overrides config)`)
	runCmd.Flags().StringVar(&runOutDir, "out", "", "output directory (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := setup(log)
	if err != nil {
		return err
	}
	if runWeights != "" {
		cfg.Data.Weights = runWeights
	}
	if runPrices != "" {
		cfg.Data.Prices = runPrices
	}
	if runMode != "" {
		cfg.Backtest.Mode = runMode
	}
	if runOutDir != "" {
		cfg.Output.Dir = runOutDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Data.Weights == "" || cfg.Data.Prices == "" {
		return core.Wrapf(core.ErrConfigMissing,
			"run needs data.weights and data.prices (or --weights/--prices)")
	}

	in, err := engine.LoadInputs(cfg.Data)
	if err != nil {
		return err
	}

	eng := engine.New(cfg, log)
	attachSinks(eng, cfg, log)

	res, err := eng.Run(cmd.Context(), in)
	if err != nil {
		return err
	}

	if err := report.WriteSummary(os.Stdout, res.Summary); err != nil {
		return err
	}
	if res.Commentary != "" {
		fmt.Println()
		fmt.Println(res.Commentary)
	}

	paths, err := eng.WriteOutputs(res)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Info("artifact written", zap.String("path", p))
	}
	if res.ArchivedAt != "" {
		log.Info("run archived", zap.String("prefix", res.ArchivedAt))
	}
	return nil
}
