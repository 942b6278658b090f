package config

import (
	"sort"
	"strings"

	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fiterrors"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/fitresult"
	"github.com/HamletTheHamster/Plotting-Fit-Results-in-Go/internal/model"
)

// roles lists the parameters each component kind needs, in model order.
var roles = map[string][]string{
	"gaussian":    {"yield", "mean", "sigma"},
	"lorentzian":  {"amp", "cen", "wid", "c"},
	"exponential": {"amp", "slope"},
	"constant":    {"level"},
}

func Kinds() []string {
	kinds := make([]string, 0, len(roles))
	for k := range roles {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build turns the model description into a Sum of its components.
func (m Model) Build() (*model.Sum, error) {
	shared := map[string]*fitresult.Param{}
	comps := make([]model.Model, 0, len(m.Components))
	seen := map[string]bool{m.Name: true}

	for _, c := range m.Components {
		if c.Name == "" {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "every model component needs a name")
		}
		if seen[c.Name] {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "component name %q is used twice", c.Name)
		}
		seen[c.Name] = true

		kind := strings.ToLower(c.Kind)
		want, ok := roles[kind]
		if !ok {
			return nil, fiterrors.New(fiterrors.KindInvalidInput, "component %q has unknown kind %q, want one of %s", c.Name, c.Kind, strings.Join(Kinds(), ", "))
		}
		for role := range c.Params {
			if !contains(want, role) {
				return nil, fiterrors.New(fiterrors.KindInvalidInput, "component %q (%s) has no parameter %q", c.Name, kind, role)
			}
		}

		params := make([]*fitresult.Param, len(want))
		for i, role := range want {
			spec, ok := c.Params[role]
			if !ok {
				return nil, fiterrors.New(fiterrors.KindInvalidInput, "component %q is missing parameter %q", c.Name, role)
			}
			name := spec.Name
			if name == "" {
				name = c.Name + "_" + role
			}
			if p, ok := shared[name]; ok {
				params[i] = p
				continue
			}
			p := fitresult.NewParam(name, spec.Value, spec.Min, spec.Max)
			p.Constant = spec.Constant
			shared[name] = p
			params[i] = p
		}

		comps = append(comps, component(kind, c.Name, params))
	}

	return model.NewSum(m.Name, comps...), nil
}

func component(
	kind, name string,
	p []*fitresult.Param,
) model.Model {
	switch kind {
	case "gaussian":
		return model.NewGaussian(name, p[0], p[1], p[2])
	case "lorentzian":
		return model.NewLorentzian(name, p[0], p[1], p[2], p[3])
	case "exponential":
		return model.NewExponential(name, p[0], p[1])
	default:
		return model.NewConstant(name, p[0])
	}
}

func contains(
	list []string,
	s string,
) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
