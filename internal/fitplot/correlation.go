package fitplot

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
)

// Correlation prints the correlation coefficient of par1 and par2. With
// draw set it also returns the correlation map of every floating parameter.
func Correlation(
	w io.Writer,
	r *fitresult.Result,
	par1, par2 string,
	name1, name2 string,
	draw bool,
) (
	*plot.Plot, error,
) {
	rho, err := r.Correlation(par1, par2)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(w, "Correlation between "+name1+" and "+name2, rho); err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindPersistence, "print correlation")
	}

	if !draw {
		return nil, nil
	}
	return CorrelationMap(r)
}

// CorrelationMap draws the correlation matrix of r as a color map running
// from -1 (blue) to +1 (red).
func CorrelationMap(
	r *fitresult.Result,
) (
	*plot.Plot, error,
) {
	if len(r.Final) == 0 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "fit result has no floating parameters")
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	heat := plotter.NewHeatMap(corrGrid{r.CorrelationMatrix()}, cm.Palette(255))
	heat.Min, heat.Max = -1, 1

	p := NewFrame(Frame{Title: "Correlation matrix"})
	p.Add(heat)

	ticks := make(plot.ConstantTicks, len(r.Final))
	for i, par := range r.Final {
		ticks[i] = plot.Tick{Value: float64(i), Label: par.Name}
	}
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -1

	return p, nil
}

type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
