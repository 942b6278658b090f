package fit

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

func gaussianSample(seed int64, n int, mean, sigma float64) *hbook.H1D {
	rnd := rand.New(rand.NewSource(seed))
	h := hbook.NewH1D(40, 0, 10)
	for i := 0; i < n; i++ {
		h.Fill(rnd.NormFloat64()*sigma+mean, 1)
	}
	return h
}

func TestHistogramRecoversGaussian(t *testing.T) {
	h := gaussianSample(12345, 20000, 5, 0.8)

	yield := fitresult.NewParam("yield", 15000, 0, 1e6)
	mean := fitresult.NewParam("mean", 4.5, 0, 10)
	sigma := fitresult.NewParam("sigma", 1.2, 0.05, 5)
	g := model.NewGaussian("sig", yield, mean, sigma)

	r, err := Histogram(g, h, nil)
	require.NoError(t, err)

	assert.InDelta(t, 5, mean.Val(), 0.05)
	assert.InDelta(t, 0.8, sigma.Val(), 0.05)
	assert.InDelta(t, 20000, yield.Val(), 500)

	require.Len(t, r.Final, 3)
	assert.Equal(t, "mean", r.Final[1].Name)
	assert.Equal(t, mean.Val(), r.Final[1].Value)
	assert.Greater(t, mean.Err(), 0.0)
	assert.Less(t, mean.Err(), 0.05)
	assert.Equal(t, mean.Err(), r.Final[1].Error)

	n := r.Cov.SymmetricDim()
	assert.Equal(t, 3, n)
	assert.Greater(t, r.MinNLL, 0.0)
	assert.GreaterOrEqual(t, r.EDM, 0.0)
	assert.NotEmpty(t, r.Status)
	assert.Greater(t, r.Evaluations, 0)

	corr := r.CorrelationMatrix()
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1, corr.At(i, i), 1e-9)
	}
}

func TestHistogramSkipsConstantParams(t *testing.T) {
	h := gaussianSample(7, 5000, 5, 1)

	yield := fitresult.NewParam("yield", 4000, 0, 1e5)
	mean := fitresult.NewParam("mean", 5.3, 0, 10)
	sigma := &fitresult.Param{Name: "sigma", Value: 1, Constant: true}
	g := model.NewGaussian("sig", yield, mean, sigma)

	r, err := Histogram(g, h, DefaultSettings())
	require.NoError(t, err)

	require.Len(t, r.Final, 2)
	assert.Equal(t, -1, r.Index("sigma"))
	assert.Equal(t, 1.0, sigma.Val())
	assert.Equal(t, 0.0, sigma.Err())
	assert.InDelta(t, 5, mean.Val(), 0.1)
}

func TestHistogramRejects(t *testing.T) {
	h := hbook.NewH1D(2, 0, 2)
	fixed := model.NewConstant("flat", &fitresult.Param{Name: "level", Value: 1, Constant: true})

	_, err := Histogram(fixed, h, nil)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))

	_, err = Histogram(nil, h, nil)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))

	g := model.NewGaussian("sig",
		fitresult.NewParam("yield", 1, 0, 0),
		fitresult.NewParam("mean", 1, 0, 0),
		fitresult.NewParam("sigma", 1, 0, 0),
	)
	_, err = Histogram(g, h, nil)
	assert.True(t, errors.Is(err, fiterrors.ErrInvalidInput))
}

func TestHistogramDegenerate(t *testing.T) {
	// two copies of the same parameter make J^T J singular
	h := hbook.NewH1D(5, 0, 5)
	for x := 0.5; x < 5; x++ {
		h.Fill(x, 3)
	}
	a := fitresult.NewParam("a", 1, 0, 0)
	b := fitresult.NewParam("b", 1, 0, 0)
	m := model.NewSum("model", model.NewConstant("ca", a), model.NewConstant("cb", b))

	_, err := Histogram(m, h, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fiterrors.ErrComputation))
}
