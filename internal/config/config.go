// Package config reads the YAML job file that drives a fit-and-plot run.
package config

import (
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
)

type Job struct {
	Data        Data         `yaml:"data"`
	Model       Model        `yaml:"model"`
	Fit         Fit          `yaml:"fit"`
	Plot        Plot         `yaml:"plot"`
	Output      Output       `yaml:"output"`
	Ellipse     *Ellipse     `yaml:"ellipse,omitempty"`
	Correlation *Correlation `yaml:"correlation,omitempty"`
}

type Data struct {
	File   string  `yaml:"file"`
	Column int     `yaml:"column"`
	Header bool    `yaml:"header"`
	Bins   int     `yaml:"bins"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

type Model struct {
	Name       string      `yaml:"name"`
	Components []Component `yaml:"components"`
}

type Component struct {
	Name   string               `yaml:"name"`
	Kind   string               `yaml:"kind"`
	Params map[string]ParamSpec `yaml:"params"`
}

type ParamSpec struct {
	// Name defaults to <component>_<role>. Components that name the same
	// parameter share it.
	Name     string  `yaml:"name"`
	Value    float64 `yaml:"value"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Constant bool    `yaml:"constant"`
}

type Fit struct {
	Iterations int     `yaml:"iterations"`
	Tolerance  float64 `yaml:"tolerance"`
}

type Plot struct {
	Title      string   `yaml:"title"`
	XLabel     string   `yaml:"xlabel"`
	YLabel     string   `yaml:"ylabel"`
	Components []string `yaml:"components"`
	Colors     []string `yaml:"colors"`
	Pulls      bool     `yaml:"pulls"`
	Slide      bool     `yaml:"slide"`
}

type Output struct {
	Dir     string `yaml:"dir"`
	Archive string `yaml:"archive"`
	Save    bool   `yaml:"save"`
}

// Ellipse asks for the covariance ellipse of X and Y drawn over N errors.
type Ellipse struct {
	X string  `yaml:"x"`
	Y string  `yaml:"y"`
	N float64 `yaml:"n"`
}

type Correlation struct {
	X    string `yaml:"x"`
	Y    string `yaml:"y"`
	Draw bool   `yaml:"draw"`
}

func Load(
	path string,
) (
	*Job, error,
) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindPersistence, "read config %s", path)
	}
	return Parse(raw)
}

func Parse(
	raw []byte,
) (
	*Job, error,
) {
	job := &Job{}
	if err := yaml.Unmarshal(raw, job); err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "parse config")
	}
	job.defaults()
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *Job) defaults() {
	if j.Model.Name == "" {
		j.Model.Name = "model"
	}
	if j.Output.Dir == "" {
		j.Output.Dir = "plots"
	}
	if j.Output.Archive == "" {
		j.Output.Archive = "fit"
	}
	if j.Plot.YLabel == "" {
		j.Plot.YLabel = "Events"
	}
	if j.Ellipse != nil && j.Ellipse.N == 0 {
		j.Ellipse.N = 3
	}
}

func (j *Job) Validate() error {
	if j.Data.File == "" {
		return fiterrors.New(fiterrors.KindInvalidInput, "data.file is required")
	}
	if j.Data.Bins <= 0 {
		return fiterrors.New(fiterrors.KindInvalidInput, "data.bins must be positive, got %d", j.Data.Bins)
	}
	if !(j.Data.Min < j.Data.Max) {
		return fiterrors.New(fiterrors.KindInvalidInput, "data.min (%g) must be below data.max (%g)", j.Data.Min, j.Data.Max)
	}
	if len(j.Model.Components) == 0 {
		return fiterrors.New(fiterrors.KindInvalidInput, "model needs at least one component")
	}
	if len(j.Plot.Colors) > 0 && len(j.Plot.Colors) != len(j.Plot.Components) {
		return fiterrors.New(fiterrors.KindInvalidInput, "plot lists %d colors for %d components", len(j.Plot.Colors), len(j.Plot.Components))
	}
	for _, c := range j.Plot.Colors {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	if j.Ellipse != nil && (j.Ellipse.X == "" || j.Ellipse.Y == "" || j.Ellipse.N <= 0) {
		return fiterrors.New(fiterrors.KindInvalidInput, "ellipse needs x, y and a positive n")
	}
	if j.Correlation != nil && (j.Correlation.X == "" || j.Correlation.Y == "") {
		return fiterrors.New(fiterrors.KindInvalidInput, "correlation needs x and y")
	}
	return nil
}

func (p Plot) ParsedColors() ([]color.Color, error) {
	colors := make([]color.Color, len(p.Colors))
	for i, c := range p.Colors {
		col, err := ParseColor(c)
		if err != nil {
			return nil, err
		}
		colors[i] = col
	}
	return colors, nil
}

// ParseColor reads "#rrggbb" or "#rrggbbaa".
func ParseColor(
	s string,
) (
	color.Color, error,
) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fiterrors.New(fiterrors.KindInvalidInput, "color %q is not #rrggbb", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fiterrors.Wrap(err, fiterrors.KindInvalidInput, "color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
