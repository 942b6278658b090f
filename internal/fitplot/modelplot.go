package fitplot

import (
	"image/color"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/gof"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

const curveSamples = 500

var (
	dataColor  = color.Black
	modelColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// ModelPlot draws the data histogram as points with error bars, overlays
// the named components of m in the given colors and the total model on top.
// Components without a color take the run palette. Curves are scaled by the
// width of the bin under them, so uneven binning overlays correctly.
func ModelPlot(
	m model.Model,
	h *hbook.H1D,
	components []string,
	colors []color.Color,
	frame Frame,
) (
	*plot.Plot, error,
) {
	if m == nil || h == nil || len(h.Binning.Bins) == 0 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "model and a non-empty data histogram are required")
	}

	curves := make([]model.Model, len(components))
	for i, name := range components {
		comp, ok := model.Find(m, name)
		if !ok {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "model %q has no component %q", m.Name(), name)
		}
		curves[i] = comp
	}

	p := NewFrame(frame)

	xy, errs := binPoints(h)
	points, err := plotter.NewScatter(xy)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "data points")
	}
	points.GlyphStyle.Color = dataColor
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(4)

	bars, err := plotter.NewYErrorBars(errorPoints{xy, errs})
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "data error bars")
	}
	bars.LineStyle.Color = dataColor
	bars.LineStyle.Width = vg.Points(1.5)

	p.Add(points, bars)
	p.Legend.Add("data", points)

	edges := Edges(h)

	for i, comp := range curves {
		var col color.Color = Palette(i, true)
		if i < len(colors) && colors[i] != nil {
			col = colors[i]
		}
		f := curve(comp, edges, col)
		p.Add(f)
		p.Legend.Add(comp.Name(), f)
	}

	total := curve(m, edges, modelColor)
	total.LineStyle.Width = vg.Points(4)
	p.Add(total)
	p.Legend.Add(m.Name(), total)

	if err := enclose(p); err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "frame edges")
	}

	chi2, err := gof.ReducedChi2(m, h, 0)
	if err != nil {
		return nil, err
	}
	logger.Log.Infow("chi2/bins", "model", m.Name(), "value", chi2)

	return p, nil
}

func curve(
	m model.Model,
	edges []float64,
	col color.Color,
) *plotter.Function {
	f := plotter.NewFunction(model.Binned(m, edges))
	f.XMin, f.XMax = edges[0], edges[len(edges)-1]
	f.Samples = curveSamples
	f.LineStyle.Color = col
	f.LineStyle.Width = vg.Points(3)
	return f
}
