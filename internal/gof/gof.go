// Package gof measures how well a model describes a binned data histogram.
package gof

import (
	"math"

	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// Statistic is anything that can report a goodness-of-fit value for a model
// and a data histogram.
type Statistic interface {
	Compute(m model.Model, h *hbook.H1D) (float64, error)
}

// StatisticFunc adapts a plain function to Statistic.
type StatisticFunc func(m model.Model, h *hbook.H1D) (float64, error)

func (f StatisticFunc) Compute(m model.Model, h *hbook.H1D) (float64, error) {
	return f(m, h)
}

// Chi2 sums (observed - expected)^2 / sigma^2 over the histogram bins.
type Chi2 struct{}

func (Chi2) Compute(
	m model.Model,
	h *hbook.H1D,
) (
	float64, error,
) {
	bins, err := compare(m, h)
	if err != nil {
		return 0, err
	}

	chi2 := 0.
	for _, b := range bins {
		if b.σ == 0 {
			continue
		}
		chi2 += math.Pow((b.observed-b.expected)/b.σ, 2)
	}
	return chi2, nil
}

// ReducedChi2 divides the chi-square by nBins - nFloat.
func ReducedChi2(
	m model.Model,
	h *hbook.H1D,
	nFloat int,
) (
	float64, error,
) {
	chi2, err := Chi2{}.Compute(m, h)
	if err != nil {
		return 0, err
	}
	ndf := len(h.Binning.Bins) - nFloat
	if ndf <= 0 {
		return 0, fiterrors.New(fiterrors.KindInvalidInput, "%d bins leave no degrees of freedom for %d parameters", len(h.Binning.Bins), nFloat)
	}
	return chi2 / float64(ndf), nil
}

type binComparison struct {
	lo, hi   float64
	observed float64
	expected float64
	σ        float64
}

func compare(
	m model.Model,
	h *hbook.H1D,
) (
	[]binComparison, error,
) {
	if m == nil || h == nil {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "model and data histogram are required")
	}
	if len(h.Binning.Bins) == 0 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "data histogram has no bins")
	}

	bins := make([]binComparison, len(h.Binning.Bins))
	for i := range h.Binning.Bins {
		bin := &h.Binning.Bins[i]
		b := binComparison{
			lo:       bin.XMin(),
			hi:       bin.XMax(),
			observed: bin.SumW(),
		}
		b.expected = model.Expected(m, b.lo, b.hi)
		if math.IsNaN(b.expected) || math.IsInf(b.expected, 0) {
			return nil, fiterrors.New(fiterrors.KindComputation, "model %q is not finite in bin [%g, %g)", m.Name(), b.lo, b.hi)
		}
		b.σ = binError(bin.ErrW(), b.expected)
		bins[i] = b
	}
	return bins, nil
}

// Empty bins carry no error of their own; use the Poisson error of the
// expectation instead.
func binError(
	dataErr, expected float64,
) float64 {
	if dataErr > 0 {
		return dataErr
	}
	if expected > 0 {
		return math.Sqrt(expected)
	}
	return 0
}
