package behaviour

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/mferr"
)

// builtinReservedNames are the identifiers the implicit scheme's generated
// code always introduces and which user declarations must never collide
// with (grounded on original_source/mfront/src/ImplicitDSLBase.cxx, which
// reserves these up front: "getPartialJacobianInvert", "TinyMatrixSolve",
// the permutation/jacobian buffer names).
var builtinReservedNames = []string{
	"getPartialJacobianInvert",
	"TinyMatrixSolve",
	"jacobian_permutation",
	"zeros",
	"fzeros",
	"computeFdF",
}

// Data is the per-hypothesis Behaviour Data (spec.md §3).
type Data struct {
	Hypothesis hypothesis.Hypothesis

	MaterialProperties        List
	IntegrationVariables       List // superset; StateVariables is the persisting subset
	StateVariableNames         map[string]bool
	AuxiliaryStateVariables    List
	ExternalStateVariables     List
	LocalVariables             List
	Parameters                 List
	StaticVariables             List
	InitialiseFunctionVariables List
	PostProcessingVariables     List

	MainVariables []MainVariable
	Pending       PendingMainVariables

	CodeBlocks map[string]*CodeBlock // keyed by kind string (spec.md §6)

	ReservedNames   map[string]bool
	RegisteredNames map[string]bool // "used in emitted code" (emitter checks this)

	TangentOperatorBlock TangentOperatorBlock

	// Numerical scheme parameters (spec.md §4.5), defaulted by NewData and
	// overridable via @Epsilon/@Theta/@IterMax/
	// @JacobianComparisonCriterion.
	Epsilon                     float64
	Theta                       float64
	IterMax                     int
	NumericalJacobianEpsilon    float64
	JacobianComparisonCriterion float64

	// NumericalJacobianBlocks names the integration variables whose Jacobian
	// row is computed by numerical differentiation rather than analytically
	// (set via @NumericallyComputedJacobianBlocks, spec.md §4.5's mixed
	// analytic/numerical scheme).
	NumericalJacobianBlocks map[string]bool

	StressFreeExpansions []StressFreeExpansion

	// Algorithm names the nonlinear solver @Algorithm selected (spec.md
	// §4.5/§6), e.g. "NewtonRaphson" or "NewtonRaphson_NumericalJacobian"
	// (implicit.ParseSolver's vocabulary). Empty means the implicit
	// scheme's default (NewtonRaphson); kept as a string here since
	// behaviour cannot import implicit (implicit imports behaviour).
	Algorithm string

	// flags
	IsTangentOperatorSymmetric        bool
	HasPredictionOperator             bool
	HasConsistentTangentOperator      bool
	UsableInPurelyImplicitResolution  bool
	CompareToNumericalJacobian        bool
	Profiling                         bool

	newVariablesDisabled bool
}

// StressFreeExpansion is a gradient contribution subtracted from the total
// gradient before constitutive evaluation (spec.md glossary).
type StressFreeExpansion struct {
	Kind         string // "thermal", "swelling", "relocation", "axialgrowth"
	VariableName string // the already-declared variable driving the expansion
	Model        *ModelDescription
}

// NewData allocates an empty per-hypothesis behaviour data set with the
// builtin names pre-reserved.
func NewData(h hypothesis.Hypothesis) *Data {
	const defaultEpsilon = 1e-8
	d := &Data{
		Hypothesis:                  h,
		StateVariableNames:          map[string]bool{},
		CodeBlocks:                  map[string]*CodeBlock{},
		ReservedNames:               map[string]bool{},
		RegisteredNames:             map[string]bool{},
		NumericalJacobianBlocks:     map[string]bool{},
		Epsilon:                     defaultEpsilon,
		Theta:                       0.5,
		IterMax:                     100,
		NumericalJacobianEpsilon:    defaultEpsilon / 10,
		JacobianComparisonCriterion: 1e-2,
	}
	d.ReserveBuiltinNames()
	return d
}

// ReserveBuiltinNames reserves the implicit scheme's always-present
// identifiers so user variables cannot collide with them.
func (d *Data) ReserveBuiltinNames() {
	for _, n := range builtinReservedNames {
		d.ReservedNames[n] = true
	}
}

// categoryList returns a pointer to the List backing the given category,
// so callers can add/read uniformly.
func (d *Data) categoryList(cat Category) *List {
	switch cat {
	case MaterialProperty:
		return &d.MaterialProperties
	case IntegrationVariable, StateVariable:
		return &d.IntegrationVariables
	case AuxiliaryStateVariable:
		return &d.AuxiliaryStateVariables
	case ExternalStateVariable:
		return &d.ExternalStateVariables
	case LocalVariable:
		return &d.LocalVariables
	case Parameter:
		return &d.Parameters
	case StaticVariable:
		return &d.StaticVariables
	case InitialiseFunctionVariable:
		return &d.InitialiseFunctionVariables
	case PostProcessingVariable:
		return &d.PostProcessingVariables
	}
	return nil
}

// allVariables returns every declared variable across every category, used
// for name-uniqueness and external-name lookup.
func (d *Data) allVariables() []*Variable {
	var out []*Variable
	cats := []Category{MaterialProperty, IntegrationVariable, AuxiliaryStateVariable,
		ExternalStateVariable, LocalVariable, Parameter, StaticVariable,
		InitialiseFunctionVariable, PostProcessingVariable}
	for _, c := range cats {
		if l := d.categoryList(c); l != nil {
			out = append(out, (*l)...)
		}
	}
	return out
}

// checkNameAvailable enforces spec.md §8 property 3: within one hypothesis,
// no two variables share a name or a glossary/entry name.
func (d *Data) checkNameAvailable(v *Variable) error {
	if d.ReservedNames[v.Name] {
		return mferr.New(mferr.InvalidName, "declareVariable", "%q is a reserved name", v.Name)
	}
	for _, existing := range d.allVariables() {
		if existing.Name == v.Name {
			return mferr.New(mferr.DuplicateDeclaration, "declareVariable",
				"variable %q already declared", v.Name)
		}
		if v.HasExternalName() {
			if v.GlossaryName != "" && existing.GlossaryName == v.GlossaryName {
				return mferr.New(mferr.DuplicateDeclaration, "declareVariable",
					"glossary name %q already used by %q", v.GlossaryName, existing.Name)
			}
			if v.EntryName != "" && existing.EntryName == v.EntryName {
				return mferr.New(mferr.DuplicateDeclaration, "declareVariable",
					"entry name %q already used by %q", v.EntryName, existing.Name)
			}
		}
	}
	return nil
}

// AddVariable declares a new variable in the given category, enforcing
// name uniqueness and the "no new variables after the first code block"
// invariant (spec.md §3 Lifecycle).
func (d *Data) AddVariable(cat Category, v *Variable) error {
	if d.newVariablesDisabled {
		return mferr.New(mferr.InconsistentDeclaration, "declareVariable",
			"variable %q declared after user-defined variables were disabled", v.Name)
	}
	if err := d.checkNameAvailable(v); err != nil {
		return err
	}
	l := d.categoryList(cat)
	if l == nil {
		return mferr.New(mferr.UnknownEntity, "declareVariable", "unknown variable category")
	}
	*l = append(*l, v)
	if cat == StateVariable {
		d.StateVariableNames[v.Name] = true
	}
	return nil
}

// IsStateVariable reports whether name is the persisting subset of the
// integration variables (the complement is "pure integration").
func (d *Data) IsStateVariable(name string) bool {
	return d.StateVariableNames[name]
}

// DisableNewUserDefinedVariables is called the first time a code block is
// declared (spec.md §3 Lifecycle: "first code block triggers this").
func (d *Data) DisableNewUserDefinedVariables() {
	d.newVariablesDisabled = true
}

// AddMainVariable registers a gradient/force pair as a main variable. The
// pair is recorded in MainVariables only; neither the gradient nor the force
// is added to a Variable category list. The default tangent-operator block
// is built from the main variables only if no block exists yet.
func (d *Data) AddMainVariable(gradient, force *Variable, incrementKnown bool) error {
	for _, mv := range d.MainVariables {
		if mv.Gradient.Name == gradient.Name || mv.ThermodynamicForce.Name == force.Name {
			return mferr.New(mferr.DuplicateDeclaration, "@Gradient",
				"main variable pair (%s,%s) collides with an existing pair", gradient.Name, force.Name)
		}
	}
	d.MainVariables = append(d.MainVariables, MainVariable{Gradient: gradient, ThermodynamicForce: force, IncrementKnown: incrementKnown})
	if len(d.TangentOperatorBlock) == 0 {
		d.TangentOperatorBlock = DefaultTangentOperatorBlock(d.MainVariables)
	}
	return nil
}

// CodeBlock returns the code block of the given kind, allocating it if
// absent.
func (d *Data) CodeBlock(kind string, line int) *CodeBlock {
	cb, ok := d.CodeBlocks[kind]
	if !ok {
		cb = NewCodeBlock(kind, line)
		d.CodeBlocks[kind] = cb
	}
	return cb
}

// HasCodeBlock reports whether a code block of the given kind has been
// declared.
func (d *Data) HasCodeBlock(kind string) bool {
	_, ok := d.CodeBlocks[kind]
	return ok
}

// RegisterMemberName records name as used in emitted code; the emitter
// checks this set before emitting a helper (spec.md §4.4).
func (d *Data) RegisterMemberName(name string) {
	d.RegisteredNames[name] = true
}

// LookupExternalName finds the variable with the given glossary or entry
// name across all categories, returning nil if none match. An external
// name maps to at most one variable (spec.md §4.4).
func (d *Data) LookupExternalName(name string) *Variable {
	for _, v := range d.allVariables() {
		if v.GlossaryName == name || v.EntryName == name {
			return v
		}
	}
	return nil
}

// LookupVariableName finds the variable declared under the given plain
// name across all categories, returning nil if none match.
func (d *Data) LookupVariableName(name string) *Variable {
	for _, v := range d.allVariables() {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (d *Data) String() string {
	return io.Sf("Data[%s]{material=%d integration=%d aux=%d ext=%d local=%d params=%d}",
		d.Hypothesis, len(d.MaterialProperties), len(d.IntegrationVariables),
		len(d.AuxiliaryStateVariables), len(d.ExternalStateVariables), len(d.LocalVariables), len(d.Parameters))
}
