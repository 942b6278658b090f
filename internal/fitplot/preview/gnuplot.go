//go:build gnuplot

package preview

import (
	"github.com/Arafatk/glot"
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// Available reports whether Render can draw.
const Available = true

// Render draws the data points and the model curve through gnuplot into
// path.
func Render(
	m model.Model,
	h *hbook.H1D,
	title, path string,
) error {
	data, fit, err := Data(m, h)
	if err != nil {
		return err
	}

	plot, err := glot.NewPlot(2, false, false)
	if err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "start gnuplot")
	}
	defer plot.Close()

	if err := plot.AddPointGroup("data", "points", data); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindInvalidInput, "preview data")
	}
	if err := plot.AddPointGroup(m.Name(), "lines", fit); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindInvalidInput, "preview model")
	}
	if err := plot.SetTitle(title); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "preview title")
	}
	if err := plot.SavePlot(path); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "save preview %s", path)
	}
	return nil
}
