package model

import (
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
)

// Sum adds the densities of its components.
type Sum struct {
	name  string
	comps []Model
}

func NewSum(
	name string,
	comps ...Model,
) *Sum {
	return &Sum{name: name, comps: comps}
}

func (s *Sum) Name() string        { return s.name }
func (s *Sum) Components() []Model { return s.comps }

func (s *Sum) Density(
	x float64,
) float64 {
	total := 0.
	for _, c := range s.comps {
		total += c.Density(x)
	}
	return total
}

// Params lists every component parameter once, in component order. A
// parameter shared between components keeps its first position.
func (s *Sum) Params() []*fitresult.Param {
	seen := map[*fitresult.Param]bool{}
	var params []*fitresult.Param
	for _, c := range s.comps {
		for _, p := range c.Params() {
			if seen[p] {
				continue
			}
			seen[p] = true
			params = append(params, p)
		}
	}
	return params
}
