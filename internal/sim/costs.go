// Package sim executes rebalance schedules against close prices. Two modes
// exist: CloseFill trades a precomputed order book against a fixed capital
// base, TPlusOne re-sizes every period from running equity and fills one
// period late. Both charge costs in basis points of traded notional and
// surface price gaps instead of repairing them.
package sim

import (
	"math"

	"ballast/internal/core"
)

// Costs prices order execution in basis points of traded notional. Fee and
// slippage apply to every fill, the tax leg applies to sells only.
type Costs struct {
	FeeBP     float64 `json:"fee_bp"`
	SlipBP    float64 `json:"slip_bp"`
	SellTaxBP float64 `json:"tax_bp_sell"`
}

// Charge returns the cost of filling qty shares at price.
func (c Costs) Charge(qty, price float64) float64 {
	notional := math.Abs(qty * price)
	charge := notional * (c.FeeBP + c.SlipBP) / 10000
	if qty < 0 {
		charge += notional * c.SellTaxBP / 10000
	}
	return charge
}

// Validate rejects negative basis points.
func (c Costs) Validate() error {
	if c.FeeBP < 0 || c.SlipBP < 0 || c.SellTaxBP < 0 {
		return core.Wrapf(core.ErrInvalidInput, "negative cost rate: fee=%g slip=%g tax=%g", c.FeeBP, c.SlipBP, c.SellTaxBP)
	}
	return nil
}

// Config carries the sizing and cost parameters shared by both modes.
type Config struct {
	Capital float64
	LotSize int
	Costs   Costs
}

// Validate rejects unusable capital, lot size or cost rates.
func (c Config) Validate() error {
	if c.Capital <= 0 {
		return core.Wrapf(core.ErrInvalidInput, "capital must be positive, got %g", c.Capital)
	}
	if c.LotSize < 1 {
		return core.Wrapf(core.ErrInvalidInput, "lot size must be at least 1, got %d", c.LotSize)
	}
	return c.Costs.Validate()
}
