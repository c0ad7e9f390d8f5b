package pipeline

import (
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/pkg/errors"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 5 * vg.Inch
)

func toXY(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return pts
}

// PlotRegression draws every observation with the fitted line across the
// observed temperature range.
func PlotRegression(ds *dataset.Dataset, m *model.FittedModel, path string) error {
	if ds.Rows() == 0 {
		return errors.NewDataError("pipeline.PlotRegression", "nothing to plot")
	}
	x := ds.Temperatures()

	p := plot.New()
	p.Title.Text = "Ice cream sales vs temperature"
	p.X.Label.Text = "Temperature (°C)"
	p.Y.Label.Text = "Sales"
	p.Add(plotter.NewGrid())

	observed, err := plotter.NewScatter(toXY(x, ds.Sales()))
	if err != nil {
		return errors.Wrap(err, "failed to build scatter")
	}
	observed.GlyphStyle.Color = plotutil.Color(0)
	observed.GlyphStyle.Shape = draw.CircleGlyph{}

	line := plotter.NewFunction(m.Predict)
	line.XMin, line.XMax = floats.Min(x), floats.Max(x)
	line.Samples = 2
	line.Color = plotutil.Color(1)
	line.Width = vg.Points(2)

	p.Add(observed, line)
	p.Legend.Add("observed", observed)
	p.Legend.Add(m.String(), line)
	p.Legend.Top = true
	p.Legend.Left = true

	return savePlot(p, path)
}

// PlotActualVsPredicted draws holdout actuals against predictions with the
// identity line for reference.
func PlotActualVsPredicted(holdout *dataset.Dataset, m *model.FittedModel, path string) error {
	if holdout.Rows() == 0 {
		return errors.NewDataError("pipeline.PlotActualVsPredicted", "nothing to plot")
	}
	actual := holdout.Sales()
	predicted := m.PredictAll(holdout.Temperatures())

	p := plot.New()
	p.Title.Text = "Actual vs predicted sales (holdout)"
	p.X.Label.Text = "Actual sales"
	p.Y.Label.Text = "Predicted sales"
	p.Add(plotter.NewGrid())

	points, err := plotter.NewScatter(toXY(actual, predicted))
	if err != nil {
		return errors.Wrap(err, "failed to build scatter")
	}
	points.GlyphStyle.Color = plotutil.Color(2)
	points.GlyphStyle.Shape = draw.CircleGlyph{}

	lo := min(floats.Min(actual), floats.Min(predicted))
	hi := max(floats.Max(actual), floats.Max(predicted))
	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "failed to build identity line")
	}
	identity.Color = plotutil.Color(1)
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(points, identity)
	p.Legend.Add("holdout", points)
	p.Legend.Add("perfect prediction", identity)
	p.Legend.Top = true
	p.Legend.Left = true

	return savePlot(p, path)
}

func savePlot(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError("pipeline.savePlot", path, err)
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.NewIOError("pipeline.savePlot", path, err)
	}
	return nil
}
