package fitplot

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
)

// FitResult prints the fit summary: EDM, the minimum of -log(L), the final
// floating parameters and the correlation and covariance matrices.
func FitResult(
	w io.Writer,
	r *fitresult.Result,
) error {
	out := bufio.NewWriter(w)

	fmt.Fprintln(out, "EDM=", r.EDM)
	fmt.Fprintln(out, "-log(L) minimum=", r.MinNLL)
	fmt.Fprintln(out, "final value of floating parameters")
	for i := range r.Final {
		fmt.Fprintf(out, "  %d) %s\n", i+1, r.Final[i].String())
	}

	fmt.Fprintln(out, "correlation matrix")
	fmt.Fprintf(out, "%.4f\n", mat.Formatted(r.CorrelationMatrix(), mat.Squeeze()))
	fmt.Fprintln(out, "covariance matrix")
	fmt.Fprintf(out, "%.4g\n", mat.Formatted(r.CovarianceMatrix(), mat.Squeeze()))

	if err := out.Flush(); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "print fit result")
	}
	return nil
}
