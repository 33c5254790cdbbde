package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ballast/internal/core"
	"ballast/internal/engine"
	"ballast/internal/logger"
	"ballast/internal/report"
)

var (
	planWeights string
	planPrices  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the order plan without simulating fills",
	Long: `Plan converts the weight panel into lot-sized target share counts and
prints the per-day order deltas. Nothing is simulated and nothing is
written besides the table.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planWeights, "weights", "", "weights CSV path (overrides config)")
	planCmd.Flags().StringVar(&planPrices, "prices", "", "prices CSV path (overrides config)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := setup(log)
	if err != nil {
		return err
	}
	if planWeights != "" {
		cfg.Data.Weights = planWeights
	}
	if planPrices != "" {
		cfg.Data.Prices = planPrices
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Data.Weights == "" || cfg.Data.Prices == "" {
		return core.Wrapf(core.ErrConfigMissing,
			"plan needs data.weights and data.prices (or --weights/--prices)")
	}

	in, err := engine.LoadInputs(cfg.Data)
	if err != nil {
		return err
	}

	book, err := engine.New(cfg, log).Plan(in)
	if err != nil {
		return err
	}
	return report.WriteOrders(os.Stdout, book)
}
