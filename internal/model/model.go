// Package model holds the line shapes that are fitted to binned data. A
// model's Density is the expected number of entries per unit x, so the
// expected content of a bin is its integral over the bin.
package model

import (
	"sort"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
)

type Model interface {
	Name() string
	Density(x float64) float64
	Params() []*fitresult.Param
}

// Composite is a model built out of named components.
type Composite interface {
	Model
	Components() []Model
}

// Gauss-Legendre nodes per bin
const quadPoints = 8

// Expected integrates m's density over [lo, hi].
func Expected(
	m Model,
	lo, hi float64,
) float64 {
	return quad.Fixed(m.Density, lo, hi, quadPoints, nil, 0)
}

// Find returns the model called name: m itself or one of its components,
// searched depth first.
func Find(
	m Model,
	name string,
) (
	Model, bool,
) {
	if m.Name() == name {
		return m, true
	}
	if c, ok := m.(Composite); ok {
		for _, comp := range c.Components() {
			if found, ok := Find(comp, name); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Binned evaluates m's density times the width of the bin holding x, the
// curve that overlays a histogram with the given edges. Bins may have
// different widths; x outside the edges takes the nearest outer bin.
func Binned(
	m Model,
	edges []float64,
) func(float64) float64 {
	last := len(edges) - 2
	return func(x float64) float64 {
		if last < 0 {
			return 0
		}
		i := sort.SearchFloat64s(edges, x) - 1
		if i < 0 {
			i = 0
		}
		if i > last {
			i = last
		}
		return m.Density(x) * (edges[i+1] - edges[i])
	}
}
