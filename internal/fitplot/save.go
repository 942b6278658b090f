package fitplot

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
)

const figureSize = 15 * vg.Inch

// Formats lists the file types every figure is saved as.
var Formats = []string{"png", "svg", "pdf"}

// Save writes p to dir/name.<format> for every format in Formats,
// creating dir if needed.
func Save(
	p *plot.Plot,
	dir, name string,
) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "create %s", dir)
	}

	for _, format := range Formats {
		path := filepath.Join(dir, name+"."+format)
		if err := p.Save(figureSize, figureSize, path); err != nil {
			return fiterrors.Wrap(err, fiterrors.KindPersistence, "save %s", path)
		}
	}
	logger.Log.Debugw("saved figure", "dir", dir, "name", name)
	return nil
}

// SaveStack writes top over bottom as one figure, see Stack.
func SaveStack(
	top, bottom *plot.Plot,
	dir, name string,
) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "create %s", dir)
	}

	for _, format := range Formats {
		path := filepath.Join(dir, name+"."+format)

		c, err := draw.NewFormattedCanvas(figureSize, figureSize, format)
		if err != nil {
			return fiterrors.Wrap(err, fiterrors.KindInvalidInput, "canvas for %s", path)
		}
		Stack(c, top, bottom)

		if err := writeCanvas(c, path); err != nil {
			return err
		}
	}
	logger.Log.Debugw("saved stacked figure", "dir", dir, "name", name)
	return nil
}

func writeCanvas(
	c vg.CanvasWriterTo,
	path string,
) error {
	f, err := os.Create(path)
	if err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "create %s", path)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "close %s", path)
	}
	return nil
}
