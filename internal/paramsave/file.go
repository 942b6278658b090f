package paramsave

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
)

const (
	ValuesSuffix        = "_vals.txt"
	UncertaintiesSuffix = "_unc.txt"
)

// Write stores rec as two text files next to base. Each starts with a
// "# order: ..." comment line followed by one value per line. rec must have
// the shape Extract builds.
func Write(
	base string,
	rec *Record,
) error {
	if rec == nil {
		return fiterrors.New(fiterrors.KindInvalidInput, "no record to write")
	}
	if err := rec.check(); err != nil {
		return err
	}
	if err := writeColumn(base+ValuesSuffix, rec.ValuesHeader(), rec.Values); err != nil {
		return err
	}
	return writeColumn(base+UncertaintiesSuffix, rec.UncertaintiesHeader(), rec.Uncertainties)
}

func writeColumn(
	path, header string,
	values []float64,
) error {
	txt, err := os.Create(path)
	if err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "create %s", path)
	}

	w := bufio.NewWriter(txt)
	if _, err := w.WriteString("# " + header + "\n"); err != nil {
		txt.Close()
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "write %s", path)
	}
	for _, v := range values {
		if _, err := w.WriteString(strconv.FormatFloat(v, 'e', 18, 64) + "\n"); err != nil {
			txt.Close()
			return fiterrors.Wrap(err, fiterrors.KindPersistence, "write %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		txt.Close()
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "write %s", path)
	}
	if err := txt.Close(); err != nil {
		return fiterrors.Wrap(err, fiterrors.KindPersistence, "close %s", path)
	}
	return nil
}

// Read parses a file written by Write, returning the names listed in its
// order header and its values.
func Read(
	path string,
) (
	[]string, []float64, error,
) {
	txt, err := os.Open(path)
	if err != nil {
		return nil, nil, fiterrors.Wrap(err, fiterrors.KindPersistence, "open %s", path)
	}
	defer txt.Close()

	var names []string
	var values []float64

	scanner := bufio.NewScanner(txt)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
		case strings.HasPrefix(text, "#"):
			fields := strings.Fields(strings.TrimPrefix(text, "#"))
			if len(fields) > 0 && fields[0] == headerPrefix {
				names = fields[1:]
			}
		default:
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "%s line %d", path, line)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fiterrors.Wrap(err, fiterrors.KindPersistence, "read %s", path)
	}
	return names, values, nil
}
