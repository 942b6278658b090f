package fitresult

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
)

// Result is a snapshot of a finished fit.
type Result struct {
	// Final holds copies of the floating parameters at the minimum, in the
	// order used by the covariance matrix.
	Final []Param

	Cov *mat.SymDense

	// EDM is the estimated vertical distance to the minimum.
	EDM    float64
	MinNLL float64

	Status      string
	Evaluations int
}

// Index returns the position of the named floating parameter, or -1.
func (r *Result) Index(
	name string,
) int {
	for i, p := range r.Final {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Param returns a copy of the named floating parameter.
func (r *Result) Param(
	name string,
) (
	Param, bool,
) {
	i := r.Index(name)
	if i < 0 {
		return Param{}, false
	}
	return r.Final[i], true
}

func (r *Result) CovarianceMatrix() *mat.SymDense {
	return r.Cov
}

// CorrelationMatrix normalises the covariance to unit diagonal. Parameters
// with zero variance get zero correlation with everything else.
func (r *Result) CorrelationMatrix() *mat.SymDense {
	n := r.Cov.SymmetricDim()
	sigma := make([]float64, n)
	for i := range sigma {
		sigma[i] = math.Sqrt(r.Cov.At(i, i))
	}

	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				corr.SetSym(i, j, 1)
				continue
			}
			if sigma[i] == 0 || sigma[j] == 0 {
				continue
			}
			corr.SetSym(i, j, r.Cov.At(i, j)/(sigma[i]*sigma[j]))
		}
	}
	return corr
}

func (r *Result) Covariance(
	a, b string,
) (
	float64, error,
) {
	i, j, err := r.pair(a, b)
	if err != nil {
		return 0, err
	}
	return r.Cov.At(i, j), nil
}

func (r *Result) Correlation(
	a, b string,
) (
	float64, error,
) {
	i, j, err := r.pair(a, b)
	if err != nil {
		return 0, err
	}
	return r.CorrelationMatrix().At(i, j), nil
}

// Sub returns the 2x2 covariance block of parameters a and b.
func (r *Result) Sub(
	a, b string,
) (
	*mat.SymDense, error,
) {
	i, j, err := r.pair(a, b)
	if err != nil {
		return nil, err
	}
	return mat.NewSymDense(2, []float64{
		r.Cov.At(i, i), r.Cov.At(i, j),
		r.Cov.At(j, i), r.Cov.At(j, j),
	}), nil
}

func (r *Result) pair(
	a, b string,
) (
	int, int, error,
) {
	i, j := r.Index(a), r.Index(b)
	if i < 0 {
		return 0, 0, fiterrors.New(fiterrors.KindInvalidInput, "%q is not a floating parameter", a)
	}
	if j < 0 {
		return 0, 0, fiterrors.New(fiterrors.KindInvalidInput, "%q is not a floating parameter", b)
	}
	return i, j, nil
}
