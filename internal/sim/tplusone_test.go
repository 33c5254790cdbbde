package sim

import (
	"errors"
	"testing"

	"ballast/internal/core"
	"ballast/internal/panel"
)

func TestTPlusOne(t *testing.T) {
	ds := dates("2024-01-02", "2024-01-03", "2024-01-04")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}, {110}, {105}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{1}, {1}, {1}})

	res, err := TPlusOne(weights, closes, Config{Capital: 100_000, LotSize: 1})
	if err != nil {
		t.Fatalf("TPlusOne: %v", err)
	}

	// Day one decides 1000 shares but fills nothing.
	if got := res.Positions.ValueAt(0, 0); got != 0 {
		t.Errorf("position[0] = %f, want 0", got)
	}
	if res.PnL.ValueAt(0) != 0 || res.Equity.ValueAt(0) != 100_000 {
		t.Errorf("day one should be flat: pnl %f equity %f", res.PnL.ValueAt(0), res.Equity.ValueAt(0))
	}
	// Day two fills 1000@110; the position was flat through the move.
	if got := res.Positions.ValueAt(1, 0); got != 1000 {
		t.Errorf("position[1] = %f, want 1000", got)
	}
	if res.PnL.ValueAt(1) != 0 {
		t.Errorf("pnl[1] = %f, want 0", res.PnL.ValueAt(1))
	}
	// Day two also re-decides: floor(100000/110) = 909, filled day three.
	if got := res.Positions.ValueAt(2, 0); got != 909 {
		t.Errorf("position[2] = %f, want 909", got)
	}
	// Day three marks 1000*(105-110).
	if res.PnL.ValueAt(2) != -5000 {
		t.Errorf("pnl[2] = %f, want -5000", res.PnL.ValueAt(2))
	}
	if res.Equity.ValueAt(2) != 95_000 {
		t.Errorf("equity[2] = %f, want 95000", res.Equity.ValueAt(2))
	}
	if len(res.Fills) != 2 {
		t.Fatalf("fills = %+v, want 2", res.Fills)
	}
	if res.Fills[0].Qty != 1000 || res.Fills[0].Price != 110 {
		t.Errorf("fill[0] = %+v, want +1000@110", res.Fills[0])
	}
	if res.Fills[1].Qty != -91 || res.Fills[1].Price != 105 {
		t.Errorf("fill[1] = %+v, want -91@105", res.Fills[1])
	}
}

func TestTPlusOne_CompoundsEquityIntoSizing(t *testing.T) {
	ds := dates("2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}, {100}, {125}, {125}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{0.5}, {0.5}, {0.5}, {0.5}})

	res, err := TPlusOne(weights, closes, Config{Capital: 100_000, LotSize: 1})
	if err != nil {
		t.Fatalf("TPlusOne: %v", err)
	}

	wantEquity := []float64{100_000, 100_000, 112_500, 112_500}
	for i, w := range wantEquity {
		if res.Equity.ValueAt(i) != w {
			t.Errorf("equity[%d] = %f, want %f", i, res.Equity.ValueAt(i), w)
		}
	}
	// Half of 112500 at 125 is 450 shares: the rally shrinks the target
	// even under a constant weight, so day four sells 50.
	if got := res.Positions.ValueAt(3, 0); got != 450 {
		t.Errorf("final position = %f, want 450", got)
	}
	last := res.Fills[len(res.Fills)-1]
	if last.Qty != -50 || last.Price != 125 {
		t.Errorf("last fill = %+v, want -50@125", last)
	}
}

func TestTPlusOne_CostsFlowIntoNextSizing(t *testing.T) {
	ds := dates("2024-01-02", "2024-01-03", "2024-01-04")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}, {100}, {100}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{1}, {1}, {1}})
	cfg := Config{Capital: 100_000, LotSize: 1, Costs: Costs{FeeBP: 10}}

	res, err := TPlusOne(weights, closes, cfg)
	if err != nil {
		t.Fatalf("TPlusOne: %v", err)
	}

	// Day two buys 1000@100 and pays 100; day two's decision sizes against
	// 99900 and lands on 999, so day three sells the single share back.
	if !approx(res.Equity.ValueAt(1), 99_900, 1e-9) {
		t.Errorf("equity[1] = %f, want 99900", res.Equity.ValueAt(1))
	}
	if len(res.Fills) != 2 {
		t.Fatalf("fills = %+v, want 2", res.Fills)
	}
	if res.Fills[1].Qty != -1 {
		t.Errorf("fill[1] = %+v, want -1 share", res.Fills[1])
	}
	if !approx(res.Equity.ValueAt(2), 99_899.9, 1e-6) {
		t.Errorf("equity[2] = %f, want 99899.9", res.Equity.ValueAt(2))
	}
}

func TestTPlusOne_LotSizedDecisions(t *testing.T) {
	ds := dates("2024-01-02", "2024-01-03")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{37}, {37}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{0.5}, {0.5}})

	res, err := TPlusOne(weights, closes, Config{Capital: 1_000_000, LotSize: 100})
	if err != nil {
		t.Fatalf("TPlusOne: %v", err)
	}
	// floor(500000/37 in lots) = 13500 shares, filled on day two.
	if got := res.Positions.ValueAt(1, 0); got != 13500 {
		t.Errorf("position = %f, want 13500", got)
	}
}

func TestTPlusOne_SingleDateNeverFills(t *testing.T) {
	ds := dates("2024-01-02")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{1}})

	res, err := TPlusOne(weights, closes, Config{Capital: 100_000, LotSize: 1})
	if err != nil {
		t.Fatalf("TPlusOne: %v", err)
	}
	if len(res.Fills) != 0 {
		t.Errorf("fills = %+v, want none", res.Fills)
	}
	if res.Equity.ValueAt(0) != 100_000 {
		t.Errorf("equity = %f, want capital", res.Equity.ValueAt(0))
	}
}

func TestTPlusOne_ExecutionGapIsFatal(t *testing.T) {
	ds := dates("2024-01-02", "2024-01-03")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}, {panel.Missing()}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{1}, {1}})

	_, err := TPlusOne(weights, closes, Config{Capital: 100_000, LotSize: 1})
	if !errors.Is(err, core.ErrExecutionGap) {
		t.Errorf("err = %v, want ErrExecutionGap", err)
	}
}

func TestTPlusOne_RuinFlattensInsteadOfShorting(t *testing.T) {
	// A 10x weight loses 5x the equity when the price halves; the sizer
	// must go flat on negative equity, not floor into a short.
	ds := dates("2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}, {100}, {50}, {50}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{10}, {10}, {10}, {10}})

	res, err := TPlusOne(weights, closes, Config{Capital: 100, LotSize: 1})
	if err != nil {
		t.Fatalf("TPlusOne: %v", err)
	}
	if res.Equity.ValueAt(2) != -400 {
		t.Errorf("equity[2] = %f, want -400", res.Equity.ValueAt(2))
	}
	if got := res.Positions.ValueAt(3, 0); got != 0 {
		t.Errorf("final position = %f, want 0 (flat, not short)", got)
	}
	if res.Equity.ValueAt(3) != -400 {
		t.Errorf("equity[3] = %f, want -400", res.Equity.ValueAt(3))
	}
}

func TestTPlusOne_Validation(t *testing.T) {
	ds := dates("2024-01-02")
	closes := frame(t, ds, []string{"AAA"}, [][]float64{{100}})
	weights := frame(t, ds, []string{"AAA"}, [][]float64{{1}})

	if _, err := TPlusOne(weights, closes, Config{Capital: 0, LotSize: 1}); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("zero capital: err = %v", err)
	}
	if _, err := TPlusOne(nil, closes, Config{Capital: 1, LotSize: 1}); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("nil weights: err = %v", err)
	}
	other := frame(t, dates("2024-02-01"), []string{"AAA"}, [][]float64{{1}})
	if _, err := TPlusOne(other, closes, Config{Capital: 1, LotSize: 1}); !errors.Is(err, core.ErrUnalignedPanels) {
		t.Errorf("axis mismatch: err = %v, want ErrUnalignedPanels", err)
	}
}
