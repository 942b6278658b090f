package fitplot

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/mat"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// peak is a Gaussian on a flat background, with a histogram filled at its
// expectation so pulls are exactly zero.
func peak() (model.Model, *hbook.H1D) {
	sig := model.NewGaussian("sig",
		&fitresult.Param{Name: "yield", Value: 500},
		&fitresult.Param{Name: "mean", Value: 5},
		&fitresult.Param{Name: "sigma", Value: 1},
	)
	bkg := model.NewConstant("bkg", &fitresult.Param{Name: "level", Value: 10})
	m := model.NewSum("model", sig, bkg)

	h := hbook.NewH1D(20, 0, 10)
	for i := range h.Binning.Bins {
		bin := &h.Binning.Bins[i]
		h.Fill(bin.XMid(), model.Expected(m, bin.XMin(), bin.XMax()))
	}
	return m, h
}

func result() *fitresult.Result {
	return &fitresult.Result{
		Final: []fitresult.Param{
			{Name: "mean", Value: 5, Error: 0.1},
			{Name: "sigma", Value: 1, Error: 0.2},
			{Name: "yield", Value: 500, Error: 20},
		},
		Cov: mat.NewSymDense(3, []float64{
			0.01, 0.01, 0,
			0.01, 0.04, 1,
			0, 1, 400,
		}),
		EDM:    1e-7,
		MinNLL: 42.5,
		Status: "StepConvergence",
	}
}

func TestModelPlot(t *testing.T) {
	m, h := peak()

	p, err := ModelPlot(m, h, []string{"sig", "bkg"}, []color.Color{color.RGBA{R: 255, A: 255}}, Frame{
		Title:  "Mass fit",
		XLabel: "m",
		YLabel: "Events",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mass fit", p.Title.Text)
	assert.Equal(t, "m", p.X.Label.Text)
	assert.LessOrEqual(t, p.X.Min, 0.25)
	assert.GreaterOrEqual(t, p.X.Max, 9.75)

	_, err = ModelPlot(m, h, []string{"signal"}, nil, Frame{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))

	_, err = ModelPlot(m, nil, nil, nil, Frame{})
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))
}

func TestModelPlotUnevenBins(t *testing.T) {
	m, _ := peak()
	h := hbook.NewH1DFromEdges([]float64{0, 1, 3, 4.5, 5.5, 10})
	for i := range h.Binning.Bins {
		bin := &h.Binning.Bins[i]
		h.Fill(bin.XMid(), model.Expected(m, bin.XMin(), bin.XMax()))
	}

	edges := Edges(h)
	assert.Equal(t, []float64{0, 1, 3, 4.5, 5.5, 10}, edges)

	_, err := ModelPlot(m, h, []string{"sig"}, nil, Frame{})
	require.NoError(t, err)

	f := curve(m, edges, color.Black)
	assert.Equal(t, 0.0, f.XMin)
	assert.Equal(t, 10.0, f.XMax)
	assert.InDelta(t, m.Density(2)*2, f.F(2), 1e-12)
	assert.InDelta(t, m.Density(5)*1, f.F(5), 1e-12)
	assert.InDelta(t, m.Density(8)*4.5, f.F(8), 1e-12)

	hp, pulls, err := PullHist(m, h)
	require.NoError(t, err)
	require.Len(t, pulls, 5)
	assert.Equal(t, edges, Edges(hp))
}

func TestPullHist(t *testing.T) {
	m, h := peak()

	hp, pulls, err := PullHist(m, h)
	require.NoError(t, err)
	require.Len(t, pulls, 20)
	require.Len(t, hp.Binning.Bins, 20)

	for i, p := range pulls {
		assert.InDelta(t, 0, p.Value, 1e-9)
		assert.InDelta(t, h.Binning.Bins[i].XMid(), hp.Binning.Bins[i].XMid(), 1e-12)
	}
}

func TestPullPlot(t *testing.T) {
	m, h := peak()

	p, err := PullPlot(m, h, false)
	require.NoError(t, err)
	assert.Equal(t, "Pulls", p.Y.Label.Text)
	assert.Equal(t, -3.0, p.Y.Min)
	assert.Equal(t, 3.0, p.Y.Max)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 10.0, p.X.Max)

	for _, tick := range p.X.Tick.Marker.Ticks(0, 10) {
		assert.Empty(t, tick.Label)
	}
	assert.Len(t, p.Y.Tick.Marker.Ticks(-3, 3), 5)
}

func TestDivisions(t *testing.T) {
	ticks := divisions(-4, 4, 5)
	require.Len(t, ticks, 5)
	assert.Equal(t, []string{"-4", "-2", "0", "2", "4"}, []string{
		ticks[0].Label, ticks[1].Label, ticks[2].Label, ticks[3].Label, ticks[4].Label,
	})
}

func TestEllipsePoints(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{4, 1.5, 1.5, 1})
	var inv mat.Dense
	require.NoError(t, inv.Inverse(cov))

	xy, err := EllipsePoints(cov, 2, -1, 64)
	require.NoError(t, err)
	require.Len(t, xy, 65)

	for _, pt := range xy {
		d := mat.NewVecDense(2, []float64{pt.X - 2, pt.Y + 1})
		assert.InDelta(t, 1, mat.Inner(d, &inv, d), 1e-9)
	}
	assert.InDelta(t, xy[0].X, xy[64].X, 1e-12)
	assert.InDelta(t, xy[0].Y, xy[64].Y, 1e-12)

	_, err = EllipsePoints(mat.NewSymDense(3, nil), 0, 0, 64)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))

	_, err = EllipsePoints(mat.NewSymDense(2, []float64{1, 2, 2, 1}), 0, 0, 64)
	assert.True(t, errors.Is(err, fiterrors.ErrComputation))
}

func TestCovarianceEllipse(t *testing.T) {
	p, err := CovarianceEllipse(result(), "mean", "sigma", "#mu", "#sigma", 3, false)
	require.NoError(t, err)

	assert.Equal(t, "Covariance between #mu and #sigma", p.Title.Text)
	assert.InDelta(t, 4.7, p.X.Min, 1e-12)
	assert.InDelta(t, 5.3, p.X.Max, 1e-12)
	assert.InDelta(t, 0.4, p.Y.Min, 1e-12)
	assert.InDelta(t, 1.6, p.Y.Max, 1e-12)

	_, err = CovarianceEllipse(result(), "mean", "width", "a", "b", 3, false)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))

	_, err = CovarianceEllipse(result(), "mean", "sigma", "a", "b", 0, false)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))
}

func TestCorrelation(t *testing.T) {
	var buf bytes.Buffer

	p, err := Correlation(&buf, result(), "mean", "sigma", "mu", "sigma", false)
	require.NoError(t, err)
	assert.Nil(t, p)
	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "Correlation between mu and sigma "), line)
	rho, err := strconv.ParseFloat(strings.TrimPrefix(line, "Correlation between mu and sigma "), 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rho, 1e-12)

	p, err = Correlation(&buf, result(), "mean", "sigma", "mu", "sigma", true)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Len(t, p.Y.Tick.Marker.Ticks(0, 2), 3)

	_, err = Correlation(&buf, result(), "mean", "nope", "mu", "nope", true)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))
}

func TestCorrGrid(t *testing.T) {
	g := corrGrid{result().CorrelationMatrix()}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 3, r)
	assert.InDelta(t, 1, g.Z(1, 1), 1e-12)
	assert.InDelta(t, 0.25, g.Z(2, 1), 1e-12)
	assert.Equal(t, 2.0, g.X(2))
}

func TestFitResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FitResult(&buf, result()))

	out := buf.String()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "EDM= 1e-07", lines[0])
	assert.Equal(t, "-log(L) minimum= 42.5", lines[1])
	assert.Equal(t, "final value of floating parameters", lines[2])
	assert.Equal(t, "  1) mean = 5 +/- 0.1", lines[3])
	assert.Contains(t, out, "correlation matrix")
	assert.Contains(t, out, "covariance matrix")
	assert.Less(t, strings.Index(out, "correlation matrix"), strings.Index(out, "covariance matrix"))
}

func TestPalette(t *testing.T) {
	assert.Equal(t, Palette(0, false), Palette(len(lightColors), false))
	assert.NotEqual(t, Palette(0, false), Palette(0, true))
	assert.Equal(t, uint8(255), Palette(-3, true).A)
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	m, h := peak()

	top, err := ModelPlot(m, h, nil, nil, Frame{Title: "fit"})
	require.NoError(t, err)
	bottom, err := PullPlot(m, h, false)
	require.NoError(t, err)

	require.NoError(t, Save(top, dir, "model"))
	require.NoError(t, SaveStack(top, bottom, dir, "model+pulls"))

	for _, name := range []string{"model", "model+pulls"} {
		for _, format := range Formats {
			info, err := os.Stat(filepath.Join(dir, name+"."+format))
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
	}
}
