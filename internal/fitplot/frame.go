// Package fitplot draws fit results: the model over the data, pulls,
// covariance ellipses and correlation maps. It also prints fit summaries.
package fitplot

import (
	"image/color"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Frame sets the titles and, optionally, the axis ranges of a plot. A zero
// range lets the axis follow the data.
type Frame struct {
	Title  string
	XLabel string
	YLabel string

	XMin, XMax float64
	YMin, YMax float64

	// Slide enlarges every font for presentation slides.
	Slide bool
}

func NewFrame(
	f Frame,
) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.RGBA{A: 0}
	p.Title.Text = f.Title
	p.Title.TextStyle.Font.Typeface = "liberation"
	p.Title.TextStyle.Font.Variant = "Sans"

	p.X.Label.Text = f.XLabel
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.LineStyle.Width = vg.Points(1.5)
	p.X.Tick.LineStyle.Width = vg.Points(1.5)
	p.X.Tick.Label.Font.Variant = "Sans"

	p.Y.Label.Text = f.YLabel
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.LineStyle.Width = vg.Points(1.5)
	p.Y.Tick.LineStyle.Width = vg.Points(1.5)
	p.Y.Tick.Label.Font.Variant = "Sans"

	if f.XMin < f.XMax {
		p.X.Min, p.X.Max = f.XMin, f.XMax
	}
	if f.YMin < f.YMax {
		p.Y.Min, p.Y.Max = f.YMin, f.YMax
	}

	p.Legend.TextStyle.Font.Variant = "Sans"
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-25)
	p.Legend.YOffs = vg.Points(25)
	p.Legend.Padding = vg.Points(10)
	p.Legend.ThumbnailWidth = vg.Points(50)

	if f.Slide {
		p.Title.TextStyle.Font.Size = 80
		p.Title.Padding = font.Length(80)
		p.X.Label.TextStyle.Font.Size = 56
		p.X.Label.Padding = font.Length(40)
		p.X.Tick.Label.Font.Size = 56
		p.Y.Label.TextStyle.Font.Size = 56
		p.Y.Label.Padding = font.Length(40)
		p.Y.Tick.Label.Font.Size = 56
		p.Legend.TextStyle.Font.Size = 56
	} else {
		p.Title.TextStyle.Font.Size = 50
		p.Title.Padding = font.Length(50)
		p.X.Label.TextStyle.Font.Size = 36
		p.X.Label.Padding = font.Length(20)
		p.X.Tick.Label.Font.Size = 36
		p.Y.Label.TextStyle.Font.Size = 36
		p.Y.Label.Padding = font.Length(20)
		p.Y.Tick.Label.Font.Size = 36
		p.Legend.TextStyle.Font.Size = 28
	}

	return p
}

// enclose draws the top and right edges of the frame once its ranges are
// final.
func enclose(
	p *plot.Plot,
) error {
	top := plotter.XYs{{X: p.X.Min, Y: p.Y.Max}, {X: p.X.Max, Y: p.Y.Max}}
	right := plotter.XYs{{X: p.X.Max, Y: p.Y.Min}, {X: p.X.Max, Y: p.Y.Max}}

	for _, edge := range []plotter.XYs{top, right} {
		l, err := plotter.NewLine(edge)
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
	}
	return nil
}

// binPoints returns bin centres and contents of h with their errors.
func binPoints(
	h *hbook.H1D,
) (
	plotter.XYs, plotter.YErrors,
) {
	xy := make(plotter.XYs, len(h.Binning.Bins))
	errs := make(plotter.YErrors, len(h.Binning.Bins))

	for i := range h.Binning.Bins {
		bin := &h.Binning.Bins[i]
		xy[i].X = bin.XMid()
		xy[i].Y = bin.SumW()
		errs[i].Low, errs[i].High = bin.ErrW(), bin.ErrW()
	}

	return xy, errs
}

// Edges returns the bin edges of h, lowest first.
func Edges(
	h *hbook.H1D,
) []float64 {
	bins := h.Binning.Bins
	if len(bins) == 0 {
		return nil
	}
	edges := make([]float64, 0, len(bins)+1)
	for i := range bins {
		edges = append(edges, bins[i].XMin())
	}
	return append(edges, bins[len(bins)-1].XMax())
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}
