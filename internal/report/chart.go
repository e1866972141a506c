// Package report renders a fusion run's trajectories — ground truth, raw
// measurements, and filter estimates — as an interactive HTML chart or a
// static PNG.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/fusion.report/internal/db"
)

// WriteTrajectoryHTML renders the run's three point series as an echarts
// scatter plot. Measurements are charted at their Cartesian reduction
// (radar readings were converted to x/y when the run was recorded).
func WriteTrajectoryHTML(w io.Writer, title string, estimates []db.Estimate) error {
	if len(estimates) == 0 {
		return fmt.Errorf("no estimates to chart")
	}

	truth := make([]opts.ScatterData, 0, len(estimates))
	measured := make([]opts.ScatterData, 0, len(estimates))
	estimated := make([]opts.ScatterData, 0, len(estimates))
	for _, e := range estimates {
		truth = append(truth, opts.ScatterData{Value: []any{e.TruthX, e.TruthY}})
		measured = append(measured, opts.ScatterData{Value: []any{e.MeasuredX, e.MeasuredY}})
		estimated = append(estimated, opts.ScatterData{Value: []any{e.PX, e.PY}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (m)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (m)", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	scatter.AddSeries("ground truth", truth, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	scatter.AddSeries("measurements", measured, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("estimate", estimated, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	return scatter.Render(w)
}
