package fitplot

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
)

const ellipseSamples = 200

// CovarianceEllipse draws the 1 sigma covariance ellipse of the floating
// parameters par1 and par2 of r, with their central values and error bars.
// Each axis spans the central value +/- n errors.
func CovarianceEllipse(
	r *fitresult.Result,
	par1, par2 string,
	name1, name2 string,
	n float64,
	slide bool,
) (
	*plot.Plot, error,
) {
	if n <= 0 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "ellipse range must be positive, got %g errors", n)
	}
	p1, ok := r.Param(par1)
	if !ok {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "%q is not a floating parameter", par1)
	}
	p2, ok := r.Param(par2)
	if !ok {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "%q is not a floating parameter", par2)
	}
	if p1.Error <= 0 || p2.Error <= 0 {
		return nil, fiterrors.New(fiterrors.KindComputation, "%s and %s need positive errors to frame an ellipse", par1, par2)
	}

	sub, err := r.Sub(par1, par2)
	if err != nil {
		return nil, err
	}
	contour, err := EllipsePoints(sub, p1.Value, p2.Value, ellipseSamples)
	if err != nil {
		return nil, err
	}

	p := NewFrame(Frame{
		Title:  "Covariance between " + name1 + " and " + name2,
		XLabel: name1,
		YLabel: name2,
		XMin:   p1.Value - n*p1.Error,
		XMax:   p1.Value + n*p1.Error,
		YMin:   p2.Value - n*p2.Error,
		YMax:   p2.Value + n*p2.Error,
		Slide:  slide,
	})

	ellipse, err := plotter.NewLine(contour)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "ellipse")
	}
	ellipse.LineStyle.Width = vg.Points(3)
	ellipse.LineStyle.Color = modelColor

	horizontal, err := plotter.NewLine(plotter.XYs{
		{X: p1.Value - p1.Error, Y: p2.Value},
		{X: p1.Value + p1.Error, Y: p2.Value},
	})
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "error bar")
	}
	vertical, err := plotter.NewLine(plotter.XYs{
		{X: p1.Value, Y: p2.Value - p2.Error},
		{X: p1.Value, Y: p2.Value + p2.Error},
	})
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "error bar")
	}
	for _, bar := range []*plotter.Line{horizontal, vertical} {
		bar.LineStyle.Width = vg.Points(2)
		bar.LineStyle.Color = dataColor
	}

	centre, err := plotter.NewScatter(plotter.XYs{{X: p1.Value, Y: p2.Value}})
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "central value")
	}
	centre.GlyphStyle.Shape = draw.CircleGlyph{}
	centre.GlyphStyle.Radius = vg.Points(6)
	centre.GlyphStyle.Color = dataColor

	p.Add(ellipse, horizontal, vertical, centre)

	// Adding plotters widens the axes to their data; restore the frame.
	p.X.Min, p.X.Max = p1.Value-n*p1.Error, p1.Value+n*p1.Error
	p.Y.Min, p.Y.Max = p2.Value-n*p2.Error, p2.Value+n*p2.Error

	if err := enclose(p); err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "frame edges")
	}
	return p, nil
}

// EllipsePoints samples the closed curve (x-c)^T cov^-1 (x-c) = 1 around
// (cx, cy) for a 2x2 covariance.
func EllipsePoints(
	cov mat.Symmetric,
	cx, cy float64,
	samples int,
) (
	plotter.XYs, error,
) {
	if cov.SymmetricDim() != 2 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "ellipse needs a 2x2 covariance, got %dx%d", cov.SymmetricDim(), cov.SymmetricDim())
	}
	if samples < 3 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "ellipse needs at least 3 samples, got %d", samples)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, fiterrors.New(fiterrors.KindComputation, "covariance eigen decomposition failed")
	}
	values := eig.Values(nil)
	if values[0] < 0 || values[1] < 0 {
		return nil, fiterrors.New(fiterrors.KindComputation, "covariance is not positive semi-definite")
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	a, b := math.Sqrt(values[0]), math.Sqrt(values[1])
	xy := make(plotter.XYs, samples+1)
	for i := range xy {
		t := 2 * math.Pi * float64(i) / float64(samples)
		u, v := a*math.Cos(t), b*math.Sin(t)
		xy[i].X = cx + u*vectors.At(0, 0) + v*vectors.At(0, 1)
		xy[i].Y = cy + u*vectors.At(1, 0) + v*vectors.At(1, 1)
	}
	return xy, nil
}
