package gof

import (
	"github.com/montanaflynn/stats"
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// Pull is the standardised residual of one bin.
type Pull struct {
	Lo, Hi float64
	Value  float64
}

func (p Pull) Mid() float64 {
	return (p.Lo + p.Hi) / 2
}

// Pulls returns (observed - expected) / sigma for every bin. Bins without
// any error get a pull of zero.
func Pulls(
	m model.Model,
	h *hbook.H1D,
) (
	[]Pull, error,
) {
	bins, err := compare(m, h)
	if err != nil {
		return nil, err
	}

	pulls := make([]Pull, len(bins))
	for i, b := range bins {
		pulls[i] = Pull{Lo: b.lo, Hi: b.hi}
		if b.σ != 0 {
			pulls[i].Value = (b.observed - b.expected) / b.σ
		}
	}
	return pulls, nil
}

// Summary describes the pull distribution. A good fit has a mean near 0
// and a standard deviation near 1.
type Summary struct {
	Mean   float64
	StdDev float64
}

func Summarize(
	pulls []Pull,
) (
	Summary, error,
) {
	values := make([]float64, len(pulls))
	for i, p := range pulls {
		values[i] = p.Value
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return Summary{}, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "pull mean")
	}
	sd, err := stats.StandardDeviation(values)
	if err != nil {
		return Summary{}, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "pull standard deviation")
	}
	return Summary{Mean: mean, StdDev: sd}, nil
}
