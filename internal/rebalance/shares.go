// Package rebalance turns portfolio weight panels into whole-lot share
// targets and dated orders. Sizing floors toward zero exposure; order
// deltas round to the nearest lot. Orders never re-floors its input, so a
// share matrix that skipped FloorLot trades at its raw deltas.
package rebalance

import (
	"math"

	"ballast/internal/core"
	"ballast/internal/panel"
)

// FloorLot converts a raw (possibly fractional) share count into a whole
// number of lots, flooring toward negative infinity. Non-finite input,
// which is how missing weights and zero prices surface, becomes zero.
func FloorLot(shares float64, lotSize int) float64 {
	lot := float64(lotSize)
	out := math.Floor(shares/lot) * lot
	if panel.IsMissing(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// RoundLot rounds a share delta to the nearest lot multiple, ties away from
// zero. Deltas pass through untouched when lotSize is 1.
func RoundLot(delta float64, lotSize int) float64 {
	if lotSize <= 1 {
		return delta
	}
	lot := float64(lotSize)
	return math.Round(delta/lot) * lot
}

// TargetShares sizes each weight cell into shares of the corresponding
// symbol: weight times capital buys value, value at the close buys raw
// shares, and FloorLot makes the count tradeable. Cells that cannot be
// sized (missing weight, missing or zero close) become zero, never an
// error. Both panels must share identical axes.
func TargetShares(weights, closes *panel.Frame, capital float64, lotSize int) (*panel.Frame, error) {
	if weights == nil || closes == nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "nil panel")
	}
	if capital <= 0 {
		return nil, core.Wrapf(core.ErrInvalidInput, "capital must be positive, got %g", capital)
	}
	if lotSize < 1 {
		return nil, core.Wrapf(core.ErrInvalidInput, "lot size must be at least 1, got %d", lotSize)
	}
	if !weights.SameAxes(closes) {
		return nil, core.Wrapf(core.ErrUnalignedPanels,
			"weights %dx%d vs closes %dx%d", weights.Len(), weights.NumSymbols(), closes.Len(), closes.NumSymbols())
	}

	out, err := panel.NewFrame(weights.Dates(), weights.Symbols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < weights.Len(); i++ {
		for j := 0; j < weights.NumSymbols(); j++ {
			raw := weights.ValueAt(i, j) * capital / closes.ValueAt(i, j)
			out.SetAt(i, j, FloorLot(raw, lotSize))
		}
	}
	return out, nil
}
