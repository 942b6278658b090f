package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/paramsave"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/runlog"
)

const jobTemplate = `
data:
  file: samples.csv
  header: true
  bins: 40
  min: 0
  max: 10
model:
  name: model
  components:
    - name: sig
      kind: gaussian
      params:
        yield: {value: 2500, min: 0, max: 100000}
        mean: {value: 4.6, min: 0, max: 10}
        sigma: {value: 0.8, min: 0.05, max: 5}
    - name: bkg
      kind: constant
      params:
        level: {value: 80, min: 0, max: 10000}
plot:
  title: Peak
  xlabel: x
  components: [sig, bkg]
  colors: ["#ff0000", "#00aa00"]
  pulls: true
output:
  dir: %s
  archive: peak
  save: %t
ellipse:
  x: sig_mean
  y: sig_sigma
correlation:
  x: sig_mean
  y: sig_yield
  draw: true
`

func writeJob(t *testing.T, save bool) (string, string) {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "plots")

	rnd := rand.New(rand.NewSource(2024))
	var csv strings.Builder
	csv.WriteString("x\n")
	for i := 0; i < 3000; i++ {
		fmt.Fprintf(&csv, "%v\n", rnd.NormFloat64()*0.7+5)
	}
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&csv, "%v\n", rnd.Float64()*10)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "samples.csv"), []byte(csv.String()), 0644))

	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(jobTemplate, out, save)), 0644))
	return path, out
}

func TestRunSavesEverything(t *testing.T) {
	path, out := writeJob(t, true)
	now := time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC)

	var stdout bytes.Buffer
	logpath, err := run(options{config: path, note: "test"}, &stdout, now)
	require.NoError(t, err)
	assert.Equal(t, runlog.Path(out, "test", now), logpath)

	printed := stdout.String()
	assert.Contains(t, printed, "final value of floating parameters")
	assert.Contains(t, printed, "Correlation between sig_mean and sig_yield")

	for _, name := range []string{"Fit.png", "Fit.pdf", "Covariance sig_mean sig_sigma.svg", "Correlation.png", "log.txt"} {
		_, err := os.Stat(filepath.Join(logpath, name))
		assert.NoError(t, err, name)
	}

	names, values, err := paramsave.Read(filepath.Join(logpath, "peak"+paramsave.ValuesSuffix))
	require.NoError(t, err)
	assert.Equal(t, []string{"sig_yield", "sig_mean", "sig_sigma", "bkg_level", "chi2"}, names)
	require.Len(t, values, 5)
	assert.InDelta(t, 5, values[1], 0.1)
	assert.InDelta(t, 0.7, values[2], 0.1)

	names, values, err = paramsave.Read(filepath.Join(logpath, "peak"+paramsave.UncertaintiesSuffix))
	require.NoError(t, err)
	assert.Len(t, names, 4)
	assert.Len(t, values, 4)

	logTxt, err := os.ReadFile(filepath.Join(logpath, "log.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(logTxt), "Runtime note: test")
	assert.Contains(t, string(logTxt), "Parameters saved to")
}

func TestRunInMemory(t *testing.T) {
	path, out := writeJob(t, false)
	now := time.Date(2024, time.May, 1, 9, 31, 0, 0, time.UTC)

	logpath, err := run(options{config: path}, &bytes.Buffer{}, now)
	require.NoError(t, err)
	assert.Equal(t, runlog.Path(out, "", now), logpath)

	_, err = os.Stat(filepath.Join(logpath, "peak"+paramsave.ValuesSuffix))
	assert.True(t, os.IsNotExist(err))

	logTxt, err := os.ReadFile(filepath.Join(logpath, "log.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(logTxt), "Parameter record:")
	assert.Contains(t, string(logTxt), "\tchi2: ")
}

func TestRunMissingConfig(t *testing.T) {
	_, err := run(options{config: filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{}, time.Now())
	require.Error(t, err)
}
