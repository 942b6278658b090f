// Package preview renders a quick gnuplot look at data and a fitted model.
//
// Rendering needs gnuplot on PATH and the gnuplot build tag:
//
//	go build -tags gnuplot ./cmd/fitplot
//
// Without the tag Render reports that the preview is unavailable and the
// binary does not depend on gnuplot at all.
package preview

import (
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitplot"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

const samples = 500

// Data returns the histogram as {x, y} columns of bin centres and contents,
// and the model curve sampled over the same range, each point scaled by the
// width of the bin under it.
func Data(
	m model.Model,
	h *hbook.H1D,
) (
	[][]float64, [][]float64, error,
) {
	if m == nil || h == nil || len(h.Binning.Bins) == 0 {
		return nil, nil, fiterrors.New(fiterrors.KindInvalidInput, "model and a non-empty data histogram are required")
	}

	bins := h.Binning.Bins
	x := make([]float64, len(bins))
	y := make([]float64, len(bins))
	for i := range bins {
		x[i], y[i] = bins[i].XMid(), bins[i].SumW()
	}

	edges := fitplot.Edges(h)
	xmin, xmax := edges[0], edges[len(edges)-1]
	f := model.Binned(m, edges)

	fx := make([]float64, samples)
	fy := make([]float64, samples)
	step := (xmax - xmin) / float64(samples-1)
	for i := range fx {
		fx[i] = xmin + step*float64(i)
		fy[i] = f(fx[i])
	}

	return [][]float64{x, y}, [][]float64{fx, fy}, nil
}
