package sim

import (
	"errors"
	"testing"

	"ballast/internal/core"
)

func TestCosts_Charge(t *testing.T) {
	c := Costs{FeeBP: 10, SlipBP: 5, SellTaxBP: 20}

	// Buys pay fee and slippage only.
	if got := c.Charge(100, 10); !approx(got, 1.5, 1e-12) {
		t.Errorf("buy charge = %f, want 1.5", got)
	}
	// Sells additionally pay the tax leg.
	if got := c.Charge(-100, 10); !approx(got, 3.5, 1e-12) {
		t.Errorf("sell charge = %f, want 3.5", got)
	}
	if got := (Costs{}).Charge(-1000, 50); got != 0 {
		t.Errorf("zero rates should charge nothing, got %f", got)
	}
	if got := c.Charge(0, 10); got != 0 {
		t.Errorf("zero qty should charge nothing, got %f", got)
	}
}

func TestCosts_Validate(t *testing.T) {
	if err := (Costs{FeeBP: 1, SlipBP: 2, SellTaxBP: 3}).Validate(); err != nil {
		t.Errorf("valid costs rejected: %v", err)
	}
	for _, c := range []Costs{{FeeBP: -1}, {SlipBP: -1}, {SellTaxBP: -1}} {
		if err := c.Validate(); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("%+v: err = %v, want ErrInvalidInput", c, err)
		}
	}
}
