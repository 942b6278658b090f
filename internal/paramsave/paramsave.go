// Package paramsave extracts fitted parameter values and uncertainties,
// appends the goodness-of-fit statistic and writes them to text files.
//
// For N parameters the values record has N+1 entries (the statistic is last,
// named "chi2") while the uncertainties record has N: the statistic carries
// no uncertainty.
package paramsave

import (
	"math"
	"strings"

	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/gof"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// StatisticName labels the appended goodness-of-fit value.
const StatisticName = "chi2"

const headerPrefix = "order:"

// Record is the ordered output of one extraction. Values holds one entry per
// parameter followed by the statistic; Uncertainties holds one entry per
// parameter only.
type Record struct {
	// Names labels Values and always ends with StatisticName.
	Names         []string
	Values        []float64
	Uncertainties []float64
}

// ValuesHeader lists every name, the statistic last.
func (r *Record) ValuesHeader() string {
	return header(r.Names)
}

// UncertaintiesHeader lists the parameter names without the statistic.
func (r *Record) UncertaintiesHeader() string {
	if len(r.Names) == 0 {
		return header(nil)
	}
	return header(r.Names[:len(r.Names)-1])
}

// check reports whether r has the shape Extract produces.
func (r *Record) check() error {
	n := len(r.Uncertainties)
	if len(r.Values) != n+1 || len(r.Names) != n+1 {
		return fiterrors.New(fiterrors.KindInvalidInput, "record has %d names, %d values and %d uncertainties", len(r.Names), len(r.Values), n)
	}
	if r.Names[n] != StatisticName {
		return fiterrors.New(fiterrors.KindInvalidInput, "record ends with %q, not %q", r.Names[n], StatisticName)
	}
	return nil
}

func header(
	names []string,
) string {
	return strings.Join(append([]string{headerPrefix}, names...), " ")
}

// Extract builds a Record from params, their display names and an already
// computed statistic. names is copied, never modified.
func Extract(
	params []fitresult.Valuer,
	names []string,
	statistic float64,
) (
	*Record, error,
) {
	if len(params) != len(names) {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "got %d names for %d parameters", len(names), len(params))
	}

	rec := &Record{
		Names:         make([]string, 0, len(names)+1),
		Values:        make([]float64, 0, len(params)+1),
		Uncertainties: make([]float64, 0, len(params)),
	}
	for i, p := range params {
		if isNil(p) {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "parameter %q is nil", names[i])
		}
		if strings.ContainsAny(names[i], " \t\n") || names[i] == "" {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "parameter name %q must be a single non-empty word", names[i])
		}
		if names[i] == StatisticName {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "parameter name %q is reserved for the statistic", names[i])
		}
		val, unc := p.Val(), p.Err()
		if !finite(val) || !finite(unc) {
			return nil, fiterrors.New(fiterrors.KindComputation, "parameter %q reports %g +/- %g", names[i], val, unc)
		}
		rec.Names = append(rec.Names, names[i])
		rec.Values = append(rec.Values, val)
		rec.Uncertainties = append(rec.Uncertainties, unc)
	}

	if !finite(statistic) {
		return nil, fiterrors.New(fiterrors.KindComputation, "%s is %g", StatisticName, statistic)
	}
	rec.Names = append(rec.Names, StatisticName)
	rec.Values = append(rec.Values, statistic)

	return rec, nil
}

// Parameters computes stat for m against data and either writes the record
// to <base>_vals.txt and <base>_unc.txt (save true, nothing returned) or
// returns values and uncertainties without touching the disk.
func Parameters(
	params []fitresult.Valuer,
	names []string,
	m model.Model,
	data *hbook.H1D,
	stat gof.Statistic,
	base string,
	save bool,
) (
	[]float64, []float64, error,
) {
	if len(params) != len(names) {
		return nil, nil, fiterrors.New(fiterrors.KindInvalidInput, "got %d names for %d parameters", len(names), len(params))
	}
	if save && base == "" {
		return nil, nil, fiterrors.New(fiterrors.KindInvalidInput, "an archive name is required to save parameters")
	}
	if stat == nil {
		stat = gof.Chi2{}
	}

	chi2, err := stat.Compute(m, data)
	if err != nil {
		if fiterrors.KindOf(err) == "" {
			err = fiterrors.Wrap(err, fiterrors.KindComputation, "compute %s", StatisticName)
		}
		return nil, nil, err
	}

	rec, err := Extract(params, names, chi2)
	if err != nil {
		return nil, nil, err
	}

	if save {
		if err := Write(base, rec); err != nil {
			return nil, nil, err
		}
		logger.Log.Infow("saved fit parameters", "archive", base, "parameters", len(params), StatisticName, chi2)
		return nil, nil, nil
	}
	return rec.Values, rec.Uncertainties, nil
}

func isNil(
	p fitresult.Valuer,
) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *fitresult.Param:
		return v == nil
	}
	return false
}

func finite(
	v float64,
) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
