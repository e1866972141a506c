package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/fusion.report/internal/db"
)

// SaveTrajectoryPNG writes the run's trajectories to a PNG at path, for
// reports where an HTML chart is not wanted.
func SaveTrajectoryPNG(path, title string, estimates []db.Estimate) error {
	if len(estimates) == 0 {
		return fmt.Errorf("no estimates to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	truth := make(plotter.XYs, len(estimates))
	measured := make(plotter.XYs, len(estimates))
	estimated := make(plotter.XYs, len(estimates))
	for i, e := range estimates {
		truth[i] = plotter.XY{X: e.TruthX, Y: e.TruthY}
		measured[i] = plotter.XY{X: e.MeasuredX, Y: e.MeasuredY}
		estimated[i] = plotter.XY{X: e.PX, Y: e.PY}
	}

	series := []struct {
		name   string
		points plotter.XYs
		color  color.RGBA
	}{
		{"ground truth", truth, color.RGBA{G: 160, A: 255}},
		{"measurements", measured, color.RGBA{R: 200, G: 200, B: 200, A: 255}},
		{"estimate", estimated, color.RGBA{B: 200, A: 255}},
	}
	for _, s := range series {
		sc, err := plotter.NewScatter(s.points)
		if err != nil {
			return fmt.Errorf("building %s series: %w", s.name, err)
		}
		sc.GlyphStyle.Color = s.color
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving trajectory plot: %w", err)
	}
	return nil
}
