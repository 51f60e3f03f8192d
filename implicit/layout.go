// Package implicit implements the Implicit Integration Scheme lowering
// (spec.md §4.5): unknown-vector layout, Jacobian block views, numerical
// Jacobian cross-checks, partial-Jacobian invert synthesis, and
// tangent-operator synthesis. It is grounded on gofem's per-model Newton
// loop (msolid/dp.go's Update/CalcD pair: trial state, yield check,
// closed-form or iterative correction, consistent tangent), generalised
// from one hand-written model into a template usable for any @Integrator.
package implicit

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/tsize"
)

// UnknownLayout is the flat-vector layout of the implicit scheme's unknown
// (the integration variables' increments, stacked in declaration order),
// spec.md §4.5's "the unknown vector is the concatenation, in declaration
// order, of every integration variable's increment."
type UnknownLayout struct {
	Variables []*behaviour.Variable
	Offsets   []tsize.Size // cumulative size preceding each variable
	Total     tsize.Size
}

// BuildUnknownLayout computes the cumulative offsets of vars, in order.
func BuildUnknownLayout(vars behaviour.List) UnknownLayout {
	layout := UnknownLayout{
		Variables: append([]*behaviour.Variable{}, vars...),
		Offsets:   make([]tsize.Size, len(vars)),
	}
	var cum tsize.Size
	for i, v := range vars {
		layout.Offsets[i] = cum
		cum = cum.Add(tsize.OfType(v.Type).Scale(v.ArraySize))
	}
	layout.Total = cum
	return layout
}

// OffsetOf returns the cumulative offset preceding the named variable, and
// whether it was found.
func (l UnknownLayout) OffsetOf(name string) (tsize.Size, bool) {
	for i, v := range l.Variables {
		if v.Name == name {
			return l.Offsets[i], true
		}
	}
	return tsize.Size{}, false
}

// SizeOf returns the size of the named variable's unknown block.
func (l UnknownLayout) SizeOf(name string) (tsize.Size, bool) {
	for _, v := range l.Variables {
		if v.Name == name {
			return tsize.OfType(v.Type).Scale(v.ArraySize), true
		}
	}
	return tsize.Size{}, false
}
