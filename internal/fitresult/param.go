// Package fitresult describes fitted parameters and the outcome of a fit.
package fitresult

import (
	"fmt"
	"math"
)

// Valuer is anything that can report a fitted value and its uncertainty.
type Valuer interface {
	Val() float64
	Err() float64
}

// Param is a named model parameter. Models hold pointers to their Params and
// a fit writes the best values and errors back into them.
type Param struct {
	Name  string
	Value float64
	Error float64

	// Min == Max means unbounded
	Min, Max float64

	Constant bool
}

func NewParam(
	name string,
	value, min, max float64,
) *Param {
	p := &Param{Name: name, Min: min, Max: max}
	p.Set(value)
	return p
}

func (p *Param) Val() float64 { return p.Value }
func (p *Param) Err() float64 { return p.Error }

// Set assigns v, clamped into [Min, Max] when the parameter has a range.
func (p *Param) Set(
	v float64,
) {
	if p.Bounded() {
		v = math.Max(p.Min, math.Min(p.Max, v))
	}
	p.Value = v
}

func (p *Param) Bounded() bool {
	return p.Min < p.Max
}

func (p *Param) String() string {
	if p.Constant {
		return fmt.Sprintf("%s = %g C", p.Name, p.Value)
	}
	return fmt.Sprintf("%s = %g +/- %g", p.Name, p.Value, p.Error)
}

// Valuers adapts a Param slice for callers that only read values.
func Valuers(
	params []*Param,
) []Valuer {
	v := make([]Valuer, len(params))
	for i, p := range params {
		v[i] = p
	}
	return v
}

// Floating returns the parameters that are not held constant, in order.
func Floating(
	params []*Param,
) []*Param {
	var floating []*Param
	for _, p := range params {
		if !p.Constant {
			floating = append(floating, p)
		}
	}
	return floating
}
