package fitplot

import (
	"image/color"
	"math"
	"strconv"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/gof"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// PullHist bins the pulls of m against h into a histogram with h's edges.
// Each bin's content is its pull.
func PullHist(
	m model.Model,
	h *hbook.H1D,
) (
	*hbook.H1D, []gof.Pull, error,
) {
	pulls, err := gof.Pulls(m, h)
	if err != nil {
		return nil, nil, err
	}

	hp := hbook.NewH1DFromEdges(Edges(h))
	for _, p := range pulls {
		hp.Fill(p.Mid(), p.Value)
	}
	return hp, pulls, nil
}

// PullPlot draws the per-bin pulls of m against h as black bars, meant to
// sit in a thin pad under the ModelPlot frame.
func PullPlot(
	m model.Model,
	h *hbook.H1D,
	slide bool,
) (
	*plot.Plot, error,
) {
	hp, pulls, err := PullHist(m, h)
	if err != nil {
		return nil, err
	}

	if summary, err := gof.Summarize(pulls); err == nil {
		logger.Log.Infow("pulls", "model", m.Name(), "mean", summary.Mean, "stddev", summary.StdDev)
	}

	p := NewFrame(Frame{YLabel: "Pulls", Slide: slide})

	bars := hplot.NewH1D(hp)
	bars.FillColor = color.Black
	bars.LineStyle.Width = 0
	bars.Infos.Style = hplot.HInfoNone
	p.Add(bars)

	p.X.Min, p.X.Max = pulls[0].Lo, pulls[len(pulls)-1].Hi
	p.X.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		for i := range ticks {
			ticks[i].Label = ""
		}
		return ticks
	})

	limit := pullLimit(pulls)
	p.Y.Min, p.Y.Max = -limit, limit
	p.Y.Tick.Marker = divisions(-limit, limit, 5)
	p.Y.Label.Padding = font.Length(5)
	p.Y.Tick.Label.Font.Size = p.Y.Tick.Label.Font.Size / 2
	p.Y.Label.TextStyle.Font.Size = p.Y.Label.TextStyle.Font.Size / 2

	if err := enclose(p); err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "frame edges")
	}
	return p, nil
}

// pullLimit is the smallest whole number of sigmas, at least 3, that holds
// every pull.
func pullLimit(
	pulls []gof.Pull,
) float64 {
	limit := 3.
	for _, p := range pulls {
		limit = math.Max(limit, math.Ceil(math.Abs(p.Value)))
	}
	return limit
}

func divisions(
	min, max float64,
	n int,
) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, n)
	step := (max - min) / float64(n-1)
	for i := range ticks {
		v := min + step*float64(i)
		ticks[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', 3, 64)}
	}
	return ticks
}

// pullPadRatio is the share of a stacked figure's height given to pulls.
const pullPadRatio = 0.25

// Stack draws top above bottom on one canvas, the way a model frame and its
// pull frame share a figure.
func Stack(
	c vg.CanvasSizer,
	top, bottom *plot.Plot,
) {
	dc := draw.New(c)
	_, height := c.Size()
	split := vg.Length(float64(height) * pullPadRatio)

	top.Draw(draw.Crop(dc, 0, 0, split, 0))
	bottom.Draw(draw.Crop(dc, 0, 0, 0, split-height))
}
