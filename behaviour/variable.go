// Package behaviour implements the Behaviour Description IR (spec.md §3,
// §4.4): the typed in-memory model of variables, code blocks, attributes,
// main variables, per-hypothesis data and the umbrella/overlay behaviour
// description. It is grounded on the teacher's (gofem msolid) State struct
// shape -- essential fields plus category-gated optional fields -- and on
// fun.Prm/fun.Prms (github.com/cpmech/gosl/fun) for the name/value/glossary
// shape of a declared quantity.
package behaviour

import "github.com/cpmech/mfront/mferr"

// Category is one of the disjoint per-hypothesis variable sets spec.md §3
// names.
type Category int

const (
	MaterialProperty Category = iota
	IntegrationVariable
	StateVariable // subset of IntegrationVariable: persists across steps
	AuxiliaryStateVariable
	ExternalStateVariable
	LocalVariable
	Parameter
	StaticVariable
	InitialiseFunctionVariable
	PostProcessingVariable
)

func (c Category) String() string {
	switch c {
	case MaterialProperty:
		return "MaterialProperty"
	case IntegrationVariable:
		return "IntegrationVariable"
	case StateVariable:
		return "StateVariable"
	case AuxiliaryStateVariable:
		return "AuxiliaryStateVariable"
	case ExternalStateVariable:
		return "ExternalStateVariable"
	case LocalVariable:
		return "LocalVariable"
	case Parameter:
		return "Parameter"
	case StaticVariable:
		return "StaticVariable"
	case InitialiseFunctionVariable:
		return "InitialiseFunctionVariable"
	case PostProcessingVariable:
		return "PostProcessingVariable"
	}
	return "UnknownCategory"
}

// BoundsKind selects which endpoints of a bounds declaration are set.
type BoundsKind int

const (
	NoBounds BoundsKind = iota
	LowerBound
	UpperBound
	LowerAndUpperBound
)

// Bounds is one @Bounds/@PhysicalBounds declaration attached to a variable.
type Bounds struct {
	Kind  BoundsKind
	Lower float64
	Upper float64
}

// Variable is one declared quantity (spec.md §3).
type Variable struct {
	Type        string // supported-types vocabulary name (tsize.ClassifyType)
	Name        string
	Symbolic    string // optional unicode display name
	ArraySize   int    // >= 1; 1 is the scalar default
	Line        int
	Description string

	GlossaryName string // mutually exclusive with EntryName
	EntryName    string

	Attributes map[string]interface{}

	Bounds         *Bounds
	PhysicalBounds *Bounds

	DefaultValue               []float64 // scalar: len==1; array: len==ArraySize
	NormalisationFactor        string    // expression text, set via .setNormalisationFactor(expr)
	MaxIncrementValuePerIter   *float64
}

// NewVariable returns a Variable with its array-size defaulted to 1, the
// scalar default spec.md §3 names.
func NewVariable(typeName, name string, line int) *Variable {
	return &Variable{Type: typeName, Name: name, ArraySize: 1, Line: line, Attributes: map[string]interface{}{}}
}

// HasExternalName reports whether a glossary or entry name is set.
func (v *Variable) HasExternalName() bool {
	return v.GlossaryName != "" || v.EntryName != ""
}

// SetGlossaryName implements the .setGlossaryName("...") variable method.
// It is rejected if an entry name is already set, enforcing the "glossary
// XOR entry" invariant (spec.md §3).
func (v *Variable) SetGlossaryName(name string) error {
	if v.EntryName != "" {
		return mferr.New(mferr.InconsistentDeclaration, "setGlossaryName",
			"variable %q already has an entry name %q", v.Name, v.EntryName)
	}
	v.GlossaryName = name
	return nil
}

// SetEntryName implements the .setEntryName("...") variable method.
func (v *Variable) SetEntryName(name string) error {
	if v.GlossaryName != "" {
		return mferr.New(mferr.InconsistentDeclaration, "setEntryName",
			"variable %q already has a glossary name %q", v.Name, v.GlossaryName)
	}
	v.EntryName = name
	return nil
}

// SetDefaultValue implements the .setDefaultValue(...) variable method.
func (v *Variable) SetDefaultValue(values []float64) error {
	if v.ArraySize == 1 && len(values) != 1 {
		return mferr.New(mferr.InconsistentDeclaration, "setDefaultValue",
			"variable %q is scalar but %d default values were given", v.Name, len(values))
	}
	if v.ArraySize > 1 && len(values) != v.ArraySize {
		return mferr.New(mferr.InconsistentDeclaration, "setDefaultValue",
			"variable %q has array size %d but %d default values were given", v.Name, v.ArraySize, len(values))
	}
	v.DefaultValue = values
	return nil
}

// SetNormalisationFactor implements .setNormalisationFactor(expr). The
// caller (dsl) is responsible for checking the InconsistentDeclaration
// invariant that this only applies to integration variables (spec.md §7).
func (v *Variable) SetNormalisationFactor(expr string) {
	v.NormalisationFactor = expr
}

// SetMaximumIncrementValuePerIteration implements
// .setMaximumIncrementValuePerIteration(x).
func (v *Variable) SetMaximumIncrementValuePerIteration(x float64) {
	v.MaxIncrementValuePerIter = &x
}

// List is an ordered collection of variables, preserving declaration order
// (the unknown-vector layout in implicit depends on this order).
type List []*Variable

// ByName returns the variable with the given name, or nil.
func (l List) ByName(name string) *Variable {
	for _, v := range l {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Names returns the declared names, in order.
func (l List) Names() []string {
	out := make([]string, len(l))
	for i, v := range l {
		out[i] = v.Name
	}
	return out
}
