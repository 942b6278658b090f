//go:build !gnuplot

package preview

import (
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

const Available = false

// Render checks its input and reports that this build cannot draw.
func Render(
	m model.Model,
	h *hbook.H1D,
	title, path string,
) error {
	if _, _, err := Data(m, h); err != nil {
		return err
	}
	return fiterrors.New(fiterrors.KindComputation, "gnuplot preview of %s not built in, rebuild with -tags gnuplot", path)
}
