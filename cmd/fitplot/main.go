// Command fitplot fits the model described by a YAML job to binned CSV data,
// draws the result and saves the fitted parameters.
package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/config"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/dataset"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fit"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitplot"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitplot/preview"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/gof"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/paramsave"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/runlog"
)

type options struct {
	config  string
	note    string
	slide   bool
	preview bool
}

func main() {

	opts := flags()

	// LOG_LEVEL may come from a local .env
	_ = godotenv.Load()

	// results go to stdout, structured logs to stderr
	log := logger.Init(os.Stderr)
	defer logger.Sync()

	logpath, err := run(opts, os.Stdout, time.Now())
	if err != nil {
		log.Errorw("fitplot failed", "config", opts.config, "error", err)
		logger.Sync()
		os.Exit(1)
	}
	log.Infow("run complete", "output", logpath)
}

func flags() options {

	var opts options

	flag.StringVar(&opts.config, "config", "fit.yaml", "YAML job describing data, model and plots")
	flag.StringVar(&opts.note, "note", "", "note to append folder name")
	flag.BoolVar(&opts.slide, "slide", false, "format figures for slide presentation")
	flag.BoolVar(&opts.preview, "preview", false, "also render a quick gnuplot preview (needs -tags gnuplot)")
	flag.Parse()

	return opts
}

// run executes the job and returns the folder its output went to.
func run(
	opts options,
	stdout io.Writer,
	now time.Time,
) (
	string, error,
) {

	job, err := config.Load(opts.config)
	if err != nil {
		return "", err
	}

	dataFile := job.Data.File
	if !filepath.IsAbs(dataFile) {
		dataFile = filepath.Join(filepath.Dir(opts.config), dataFile)
	}

	h, err := dataset.Load(dataFile, job.Data.Column, job.Data.Header, dataset.Binning{
		Bins: job.Data.Bins,
		Min:  job.Data.Min,
		Max:  job.Data.Max,
	})
	if err != nil {
		return "", err
	}

	m, err := job.Model.Build()
	if err != nil {
		return "", err
	}

	logpath := runlog.Path(job.Output.Dir, opts.note, now)
	var lg runlog.Log
	logHeader(&lg, opts, job, dataFile)

	settings := fit.DefaultSettings()
	if job.Fit.Iterations > 0 {
		settings.Iterations = job.Fit.Iterations
	}
	if job.Fit.Tolerance > 0 {
		settings.ObjectiveTol = job.Fit.Tolerance
	}

	r, err := fit.Histogram(m, h, settings)
	if err != nil {
		return "", err
	}
	if err := fitplot.FitResult(stdout, r); err != nil {
		return "", err
	}
	logFit(&lg, r)

	if err := plots(job, opts, m, h, r, stdout, logpath); err != nil {
		return "", err
	}

	floating := fitresult.Floating(m.Params())
	names := make([]string, len(floating))
	for i, p := range floating {
		names[i] = p.Name
	}

	archive := filepath.Join(logpath, job.Output.Archive)
	vals, unc, err := paramsave.Parameters(fitresult.Valuers(floating), names, m, h, gof.Chi2{}, archive, job.Output.Save)
	if err != nil {
		return "", err
	}
	if job.Output.Save {
		lg.Printf("\nParameters saved to %s%s and %s%s\n", archive, paramsave.ValuesSuffix, archive, paramsave.UncertaintiesSuffix)
	} else {
		lg.Printf("\nParameter record:\n")
		for i, name := range names {
			lg.Printf("\t%s: %v +/- %v\n", name, vals[i], unc[i])
		}
		lg.Printf("\t%s: %v\n", paramsave.StatisticName, vals[len(vals)-1])
	}

	if opts.preview {
		path := filepath.Join(logpath, "preview.png")
		if err := preview.Render(m, h, job.Plot.Title, path); err != nil {
			logger.Log.Warnw("gnuplot preview skipped", "error", err)
		} else {
			lg.Printf("Preview saved to %s\n", path)
		}
	}

	if err := lg.Write(logpath); err != nil {
		return "", err
	}
	return logpath, nil
}

func plots(
	job *config.Job,
	opts options,
	m model.Model,
	h *hbook.H1D,
	r *fitresult.Result,
	stdout io.Writer,
	logpath string,
) error {

	slide := opts.slide || job.Plot.Slide

	colors, err := job.Plot.ParsedColors()
	if err != nil {
		return err
	}

	top, err := fitplot.ModelPlot(m, h, job.Plot.Components, colors, fitplot.Frame{
		Title:  job.Plot.Title,
		XLabel: job.Plot.XLabel,
		YLabel: job.Plot.YLabel,
		Slide:  slide,
	})
	if err != nil {
		return err
	}

	if job.Plot.Pulls {
		bottom, err := fitplot.PullPlot(m, h, slide)
		if err != nil {
			return err
		}
		if err := fitplot.SaveStack(top, bottom, logpath, "Fit"); err != nil {
			return err
		}
	} else if err := fitplot.Save(top, logpath, "Fit"); err != nil {
		return err
	}

	if e := job.Ellipse; e != nil {
		p, err := fitplot.CovarianceEllipse(r, e.X, e.Y, e.X, e.Y, e.N, slide)
		if err != nil {
			return err
		}
		if err := fitplot.Save(p, logpath, "Covariance "+e.X+" "+e.Y); err != nil {
			return err
		}
	}

	if c := job.Correlation; c != nil {
		p, err := fitplot.Correlation(stdout, r, c.X, c.Y, c.X, c.Y, c.Draw)
		if err != nil {
			return err
		}
		if p != nil {
			if err := fitplot.Save(p, logpath, "Correlation"); err != nil {
				return err
			}
		}
	}

	return nil
}

func logHeader(
	lg *runlog.Log,
	opts options,
	job *config.Job,
	dataFile string,
) {

	if opts.note != "" {
		lg.Printf("Runtime note: %s\n", opts.note)
	}
	if opts.slide || job.Plot.Slide {
		lg.Printf("Figures formatted for slide presentation\n")
	}
	lg.Printf("Config: %s\n", opts.config)
	lg.Printf("Data: %s (column %d)\n", dataFile, job.Data.Column)
	lg.Printf("\tBinning: %d bins over [%g, %g)\n", job.Data.Bins, job.Data.Min, job.Data.Max)
	lg.Printf("Model: %s\n", job.Model.Name)
	for _, c := range job.Model.Components {
		lg.Printf("\t%s (%s)\n", c.Name, c.Kind)
	}
}

func logFit(
	lg *runlog.Log,
	r *fitresult.Result,
) {

	lg.Printf("\nFit Status: %s after %d evaluations\n", r.Status, r.Evaluations)
	lg.Printf("\tEDM: %v\n", r.EDM)
	lg.Printf("\t-log(L) minimum: %v\n", r.MinNLL)
	lg.Printf("\tFit Parameters:\n")
	for i := range r.Final {
		lg.Printf("\t\t%s\n", r.Final[i].String())
	}
}
