// Package dataset loads unbinned samples from CSV files and bins them.
package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
)

type Binning struct {
	Bins     int
	Min, Max float64
}

// Load reads column col of the CSV at path and fills a histogram with it.
func Load(
	path string,
	col int,
	header bool,
	binning Binning,
) (
	*hbook.H1D, error,
) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindPersistence, "open %s", path)
	}
	defer f.Close()

	rows, err := ReadCSV(f, header)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "read %s", path)
	}

	values, err := Column(rows, col)
	if err != nil {
		return nil, err
	}

	return Fill(values, binning)
}

// ReadCSV reads every row of rs, skipping the first line when header is
// set.
func ReadCSV(
	rs io.ReadSeeker,
	header bool,
) (
	[][]string, error,
) {
	if header {
		// Skip first row (line)
		row1, err := bufio.NewReader(rs).ReadSlice('\n')
		if err != nil {
			return nil, err
		}
		_, err = rs.Seek(int64(len(row1)), io.SeekStart)
		if err != nil {
			return nil, err
		}
	}

	// Read remaining rows
	r := csv.NewReader(rs)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func Column(
	rows [][]string,
	col int,
) (
	[]float64, error,
) {
	if col < 0 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "column %d out of range", col)
	}

	values := make([]float64, 0, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "row %d has no column %d", i+1, col)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "row %d column %d", i+1, col)
		}
		values = append(values, v)
	}
	return values, nil
}

// Fill bins values into a histogram. Values outside [Min, Max) land in the
// under/overflow and do not take part in the fit.
func Fill(
	values []float64,
	binning Binning,
) (
	*hbook.H1D, error,
) {
	if binning.Bins <= 0 || !(binning.Min < binning.Max) {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "invalid binning: %d bins over [%g, %g)", binning.Bins, binning.Min, binning.Max)
	}

	h := hbook.NewH1D(binning.Bins, binning.Min, binning.Max)
	outside := 0
	for _, v := range values {
		if v < binning.Min || v >= binning.Max {
			outside++
		}
		h.Fill(v, 1)
	}
	if outside > 0 {
		logger.Log.Warnw("samples outside histogram range", "outside", outside, "total", len(values))
	}
	return h, nil
}
