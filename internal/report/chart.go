package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ballast/internal/core"
	"ballast/internal/panel"
)

// RenderEquityChart renders a PNG line chart of the equity curve with a
// dashed baseline at starting capital. Periods poisoned by data gaps are
// dropped from the curve. Returns raw PNG bytes.
func RenderEquityChart(equity *panel.Series, capital float64) ([]byte, error) {
	var xs []time.Time
	var ys []float64
	for i := 0; i < equity.Len(); i++ {
		v := equity.ValueAt(i)
		if panel.IsMissing(v) {
			continue
		}
		xs = append(xs, equity.DateAt(i).Time())
		ys = append(ys, v)
	}
	if len(xs) < 2 {
		return nil, core.Wrapf(core.ErrNoData, "need at least 2 equity points, got %d", len(xs))
	}

	baseline := make([]float64, len(xs))
	for i := range baseline {
		baseline[i] = capital
	}

	equitySeries := chart.TimeSeries{
		Name: "Equity",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xs,
		YValues: ys,
	}

	capitalSeries := chart.TimeSeries{
		Name: "Capital",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xs,
		YValues: baseline,
	}

	graph := chart.Chart{
		Title:  "Equity Curve",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			equitySeries,
			capitalSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
