// Package hypothesis implements the closed Modelling Hypothesis enumeration
// (spec.md §3) shared by behaviour and dsl. Each hypothesis is a geometric
// reduction the implicit scheme and emitter specialise against; Undefined
// is the umbrella sentinel that broadcasts shared declarations.
package hypothesis

import "github.com/cpmech/mfront/mferr"

// Hypothesis is one member of the closed enumeration.
type Hypothesis int

const (
	Undefined Hypothesis = iota
	Tridimensional
	PlaneStrain
	PlaneStress
	GeneralisedPlaneStrain
	Axisymmetrical
	AxisymmetricalGeneralisedPlaneStrain
	AxisymmetricalGeneralisedPlaneStress
)

// names is the canonical keyword spelling of each hypothesis, matching the
// identifiers spec.md §3 names (all upper case, no separators).
var names = map[Hypothesis]string{
	Undefined:                            "UNDEFINED",
	Tridimensional:                       "TRIDIMENSIONAL",
	PlaneStrain:                          "PLANESTRAIN",
	PlaneStress:                          "PLANESTRESS",
	GeneralisedPlaneStrain:               "GENERALISEDPLANESTRAIN",
	Axisymmetrical:                       "AXISYMMETRICAL",
	AxisymmetricalGeneralisedPlaneStrain: "AXISYMMETRICALGENERALISEDPLANESTRAIN",
	AxisymmetricalGeneralisedPlaneStress: "AXISYMMETRICALGENERALISEDPLANESTRESS",
}

var byName = func() map[string]Hypothesis {
	m := make(map[string]Hypothesis, len(names))
	for h, n := range names {
		m[n] = h
	}
	return m
}()

// All lists every concrete (non-Undefined) hypothesis, in declaration
// order, the order "@ModellingHypotheses .+" expands to.
var All = []Hypothesis{
	Tridimensional,
	PlaneStrain,
	PlaneStress,
	GeneralisedPlaneStrain,
	Axisymmetrical,
	AxisymmetricalGeneralisedPlaneStrain,
	AxisymmetricalGeneralisedPlaneStress,
}

func (h Hypothesis) String() string {
	if n, ok := names[h]; ok {
		return n
	}
	return "INVALID"
}

// Parse resolves a keyword token to a Hypothesis, rejecting anything
// outside the closed enumeration (spec.md §7 UnknownEntity).
func Parse(name string) (Hypothesis, error) {
	if h, ok := byName[name]; ok {
		return h, nil
	}
	return Undefined, mferr.New(mferr.UnknownEntity, "@ModellingHypothesis", "unknown modelling hypothesis %q", name)
}

// ExpandWildcard resolves the special ".+" regex token to every supported
// hypothesis not present in reject, matching spec.md §4.3's
// "@ModellingHypothesis(es)" handling of the wildcard.
func ExpandWildcard(reject map[Hypothesis]bool) []Hypothesis {
	var out []Hypothesis
	for _, h := range All {
		if reject != nil && reject[h] {
			continue
		}
		out = append(out, h)
	}
	return out
}

// IsPlaneStress reports whether h is one of the plane-stress family the
// behaviour description's altered/un-altered stiffness invariant applies to.
func IsPlaneStress(h Hypothesis) bool {
	switch h {
	case PlaneStress, AxisymmetricalGeneralisedPlaneStress:
		return true
	}
	return false
}
