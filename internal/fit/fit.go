// Package fit adjusts a model's floating parameters to a binned histogram by
// least squares and reports the outcome as a fitresult.Result.
package fit

import (
	"math"

	"github.com/maorshutman/lm"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/logger"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

type Settings struct {
	Iterations   int
	ObjectiveTol float64
}

func DefaultSettings() *Settings {
	return &Settings{Iterations: 1000, ObjectiveTol: 1e-16}
}

// Histogram fits m to h. The model's parameters are left at the best-fit
// values with their errors set from the covariance matrix.
func Histogram(
	m model.Model,
	h *hbook.H1D,
	settings *Settings,
) (
	*fitresult.Result, error,
) {
	if m == nil || h == nil {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "model and data histogram are required")
	}
	if settings == nil {
		settings = DefaultSettings()
	}

	floating := fitresult.Floating(m.Params())
	nBins := len(h.Binning.Bins)
	if len(floating) == 0 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "model %q has no floating parameters", m.Name())
	}
	if nBins < len(floating) {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "%d bins cannot constrain %d parameters", nBins, len(floating))
	}

	obj := newObjective(m, h, floating)

	init := make([]float64, len(floating))
	for i, p := range floating {
		init[i] = p.Value
	}

	problem := lm.LMProblem{
		Dim:        len(floating),
		Size:       nBins,
		Func:       obj.residuals,
		Jac:        obj.jacobian,
		InitParams: init,
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	result, err := minimize(problem, &lm.Settings{Iterations: settings.Iterations, ObjectiveTol: settings.ObjectiveTol})
	if err != nil {
		obj.apply(init)
		return nil, err
	}

	best := result.X
	obj.apply(best)
	// parameters may have been clamped into range
	for i, p := range floating {
		best[i] = p.Value
	}

	res := make([]float64, nBins)
	obj.residuals(res, best)
	jac := mat.NewDense(nBins, len(floating), nil)
	obj.jacobian(jac, best)

	cov, err := covariance(jac)
	if err != nil {
		return nil, err
	}

	final := make([]fitresult.Param, len(floating))
	for i, p := range floating {
		p.Error = math.Sqrt(cov.At(i, i))
		final[i] = *p
	}

	grad := mat.NewVecDense(len(floating), nil)
	grad.MulVec(jac.T(), mat.NewVecDense(nBins, res))

	out := &fitresult.Result{
		Final:       final,
		Cov:         cov,
		EDM:         0.5 * mat.Inner(grad, cov, grad),
		MinNLL:      obj.nll(),
		Status:      result.Status.String(),
		Evaluations: obj.evaluations,
	}

	logger.Log.Debugw("fit finished",
		"model", m.Name(),
		"status", out.Status,
		"chi2", floats.Dot(res, res),
		"edm", out.EDM,
		"evaluations", out.Evaluations,
	)

	return out, nil
}

// The minimiser panics on a singular normal matrix.
func minimize(
	problem lm.LMProblem,
	settings *lm.Settings,
) (
	result *lm.Result, err error,
) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fiterrors.New(fiterrors.KindComputation, "minimisation failed: %v", r)
		}
	}()

	result, err = lm.LM(problem, settings)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "minimisation failed")
	}
	return result, nil
}

const maxCond = 1e12

// covariance inverts J^T J, the normal matrix of the sigma-weighted
// residuals.
func covariance(
	jac *mat.Dense,
) (
	*mat.SymDense, error,
) {
	_, n := jac.Dims()

	var normal mat.SymDense
	normal.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&normal); !ok || chol.Cond() > maxCond {
		return nil, fiterrors.New(fiterrors.KindComputation, "covariance matrix is singular, parameters are degenerate")
	}

	cov := mat.NewSymDense(n, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindComputation, "invert normal matrix")
	}
	return cov, nil
}

type objective struct {
	m        model.Model
	h        *hbook.H1D
	floating []*fitresult.Param

	lo, hi, observed, σ []float64

	evaluations int
}

func newObjective(
	m model.Model,
	h *hbook.H1D,
	floating []*fitresult.Param,
) *objective {
	n := len(h.Binning.Bins)
	o := &objective{
		m:        m,
		h:        h,
		floating: floating,
		lo:       make([]float64, n),
		hi:       make([]float64, n),
		observed: make([]float64, n),
		σ:        make([]float64, n),
	}
	for i := range h.Binning.Bins {
		bin := &h.Binning.Bins[i]
		o.lo[i], o.hi[i] = bin.XMin(), bin.XMax()
		o.observed[i] = bin.SumW()
		// unit weight for empty bins keeps the residual defined
		o.σ[i] = bin.ErrW()
		if o.σ[i] == 0 {
			o.σ[i] = 1
		}
	}
	return o
}

func (o *objective) apply(
	params []float64,
) {
	for i, p := range o.floating {
		p.Set(params[i])
	}
}

func (o *objective) residuals(
	dst, params []float64,
) {
	o.evaluations++
	o.apply(params)
	for i := range dst {
		dst[i] = (o.observed[i] - model.Expected(o.m, o.lo[i], o.hi[i])) / o.σ[i]
	}
}

// Evaluations mutate the shared parameters, so differences are taken one
// at a time.
func (o *objective) jacobian(
	dst *mat.Dense,
	params []float64,
) {
	fd.Jacobian(dst, o.residuals, params, &fd.JacobianSettings{
		Formula: fd.Central,
	})
	o.apply(params)
}

// nll is the Poisson negative log-likelihood of the data at the current
// parameter values.
func (o *objective) nll() float64 {
	nll := 0.
	for i, n := range o.observed {
		mu := model.Expected(o.m, o.lo[i], o.hi[i])
		if mu <= 0 {
			continue
		}
		lgamma, _ := math.Lgamma(n + 1)
		nll += mu - n*math.Log(mu) + lgamma
	}
	return nll
}
