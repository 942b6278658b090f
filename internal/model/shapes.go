package model

import (
	"math"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
)

type Gaussian struct {
	name  string
	Yield *fitresult.Param
	Mean  *fitresult.Param
	Sigma *fitresult.Param
}

func NewGaussian(
	name string,
	yield, mean, sigma *fitresult.Param,
) *Gaussian {
	return &Gaussian{name: name, Yield: yield, Mean: mean, Sigma: sigma}
}

func (g *Gaussian) Name() string { return g.name }

func (g *Gaussian) Params() []*fitresult.Param {
	return []*fitresult.Param{g.Yield, g.Mean, g.Sigma}
}

func (g *Gaussian) Density(
	x float64,
) float64 {
	s := g.Sigma.Value
	if s == 0 {
		return 0
	}
	z := (x - g.Mean.Value) / s
	return g.Yield.Value / (math.Abs(s) * math.Sqrt(2*math.Pi)) * math.Exp(-0.5*z*z)
}

// Lorentzian peak of height Amp and full width Wid at Cen, on top of a
// constant C.
type Lorentzian struct {
	name string
	Amp  *fitresult.Param
	Cen  *fitresult.Param
	Wid  *fitresult.Param
	C    *fitresult.Param
}

func NewLorentzian(
	name string,
	amp, cen, wid, c *fitresult.Param,
) *Lorentzian {
	return &Lorentzian{name: name, Amp: amp, Cen: cen, Wid: wid, C: c}
}

func (l *Lorentzian) Name() string { return l.name }

func (l *Lorentzian) Params() []*fitresult.Param {
	return []*fitresult.Param{l.Amp, l.Cen, l.Wid, l.C}
}

func (l *Lorentzian) Density(
	x float64,
) float64 {
	γ2 := .25 * math.Pow(l.Wid.Value, 2)
	if γ2 == 0 {
		return l.C.Value
	}
	return l.Amp.Value*γ2/(math.Pow(x-l.Cen.Value, 2)+γ2) + l.C.Value
}

type Exponential struct {
	name  string
	Amp   *fitresult.Param
	Slope *fitresult.Param
}

func NewExponential(
	name string,
	amp, slope *fitresult.Param,
) *Exponential {
	return &Exponential{name: name, Amp: amp, Slope: slope}
}

func (e *Exponential) Name() string { return e.name }

func (e *Exponential) Params() []*fitresult.Param {
	return []*fitresult.Param{e.Amp, e.Slope}
}

func (e *Exponential) Density(x float64) float64 {
	return e.Amp.Value * math.Exp(e.Slope.Value*x)
}

// Constant is a flat background.
type Constant struct {
	name  string
	Level *fitresult.Param
}

func NewConstant(
	name string,
	level *fitresult.Param,
) *Constant {
	return &Constant{name: name, Level: level}
}

func (c *Constant) Name() string               { return c.name }
func (c *Constant) Params() []*fitresult.Param { return []*fitresult.Param{c.Level} }
func (c *Constant) Density(float64) float64    { return c.Level.Value }
