package behaviour

import (
	"time"

	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/mferr"
)

// Symmetry is the material symmetry type (spec.md §3).
type Symmetry int

const (
	Isotropic Symmetry = iota
	Orthotropic
)

// OrthotropicAxesConvention selects how orthotropic axes are interpreted.
type OrthotropicAxesConvention int

const (
	DefaultAxesConvention OrthotropicAxesConvention = iota
	PipeAxesConvention
	PlateAxesConvention
)

// StrainMeasure is the kinematic strain measure the behaviour is written
// against.
type StrainMeasure int

const (
	Linearised StrainMeasure = iota
	GreenLagrange
	Hencky
)

// IntegrationScheme selects how @Integrator is lowered.
type IntegrationScheme int

const (
	ExplicitScheme IntegrationScheme = iota
	ImplicitScheme
	RungeKuttaScheme
	SpecificScheme
	UserScheme
)

// CrystalStructure names the crystal lattice for slip-system descriptions.
type CrystalStructure int

const (
	NoCrystalStructure CrystalStructure = iota
	FCC
	BCC
	HCP
)

// SlipSystem is one (plane, direction) pair in a crystallographic family.
type SlipSystem struct {
	Plane     [3]float64
	Direction [3]float64
}

// SlipSystemsDescription holds the crystal-plasticity slip-system
// declarations (spec.md §3).
type SlipSystemsDescription struct {
	Structure CrystalStructure
	Families  [][]SlipSystem
}

// HillTensorDescription is an anisotropic plastic-flow tensor parameterised
// by six coefficients in the orthotropic frame (spec.md glossary).
type HillTensorDescription struct {
	Name         string
	Coefficients [6]string // expression text for F,G,H,L,M,N
}

// IntegerConstant is a named compile-time integer constant declared via
// @IntegerConstant (spec.md §6's minimal keyword set).
type IntegerConstant struct {
	Name  string
	Value int64
}

// ParameterOverride records a value set via overrideByAParameter before
// parsing begins (spec.md §4.4 Lifecycle, S5 in §8).
type ParameterOverride struct {
	Name  string
	Value float64
}

// BrickHandle is the three-point lifecycle contract a brick exposes to the
// core (spec.md §1 Out-of-scope, §4.3's @Brick): brick internals are an
// external collaborator, the core only ever calls these two hooks (the
// third, keyword extension, happens at attachment time, not end-of-file).
type BrickHandle interface {
	CompleteVariableDeclaration(desc *Description) error
	EndTreatment(desc *Description) error
}

// InterfaceHandle is the single hand-off hook an interface exposes
// (spec.md §1 Out-of-scope): once the IR is complete, the core calls
// HandOff once and is done with it.
type InterfaceHandle interface {
	HandOff(desc *Description) error
}

// Description is the Behaviour Description (spec.md §3): the umbrella
// object owning the hypothesis -> Data map plus every behaviour-wide
// field. It is grounded on gofem's GetModel database-or-allocate pattern
// (msolid/solid.go): Undefined holds the umbrella Data and Specialise
// copies it into a per-hypothesis slot. The copy is taken once; writes made
// to Undefined afterwards are not propagated to existing specialisations.
type Description struct {
	ClassName    string
	MaterialName string
	Library      string
	Author       string
	Date         string
	Description  string

	Symmetry                Symmetry
	ElasticSymmetryOverride *Symmetry
	AxesConvention          OrthotropicAxesConvention
	StrainMeasureKind       StrainMeasure
	SaveStrain              bool
	SaveStress              bool
	Scheme                  IntegrationScheme

	ComputesStiffnessTensor               bool
	RequiresStiffnessTensor               bool
	PlaneStressAlteredStiffnessChosen     bool
	PlaneStressUsesAlteredStiffness       bool
	ComputeThermalExpansion               bool
	RequiresThermalExpansionCoefficientTensor bool

	Hypotheses map[hypothesis.Hypothesis]bool // set of hypotheses the behaviour is defined on

	data map[hypothesis.Hypothesis]*Data // Undefined always present

	CrystalStructure SlipSystemsDescription
	HillTensors      []HillTensorDescription
	// InteractionMatrix holds the slip-system interaction coefficients
	// declared via @InteractionMatrix, flat in declaration order (spec.md
	// §6).
	InteractionMatrix []float64

	ElasticMaterialProperties []MaterialPropertyExpression
	ThermalExpansionCoeffs    []MaterialPropertyExpression

	// UseQt selects TFEL's quantity (unit-checked numeric type) code path,
	// set via @UseQt (spec.md §6).
	UseQt bool

	// IntegerConstants are compile-time integer constants declared via
	// @IntegerConstant, behaviour-wide rather than per-hypothesis.
	IntegerConstants []IntegerConstant

	EmbeddedModels []*ModelDescription

	// AttachedBrickNames / AttachedInterfaceNames are the weak references
	// by name spec.md §3's Ownership names (the registry owns the actual
	// instances); AttachedBricks / AttachedInterfaces hold the handles the
	// core calls the lifecycle hooks on, parallel-indexed with the name
	// slices.
	AttachedBrickNames    []string
	AttachedBricks        []BrickHandle
	AttachedInterfaceNames []string
	AttachedInterfaces    []InterfaceHandle

	overrides map[string]float64
}

// AttachBrick records a brick instantiated via @Brick (spec.md §4.3).
func (d *Description) AttachBrick(name string, h BrickHandle) {
	d.AttachedBrickNames = append(d.AttachedBrickNames, name)
	d.AttachedBricks = append(d.AttachedBricks, h)
}

// AttachInterface records an interface instantiated via @Interface.
func (d *Description) AttachInterface(name string, h InterfaceHandle) {
	d.AttachedInterfaceNames = append(d.AttachedInterfaceNames, name)
	d.AttachedInterfaces = append(d.AttachedInterfaces, h)
}

// RunBricksCompleteVariableDeclaration calls every attached brick's
// CompleteVariableDeclaration hook, in attachment order (spec.md §5:
// "bricks' completeVariableDeclaration runs before the emitter's
// defaults-fixing pass").
func (d *Description) RunBricksCompleteVariableDeclaration() error {
	for i, b := range d.AttachedBricks {
		if err := b.CompleteVariableDeclaration(d); err != nil {
			return mferr.New(mferr.InconsistentDeclaration, "@Brick",
				"brick %q failed variable-declaration completion: %s", d.AttachedBrickNames[i], err.Error())
		}
	}
	return nil
}

// RunBricksEndTreatment calls every attached brick's EndTreatment hook
// (spec.md §5: "bricks' endTreatment runs at the end of
// endsInputFileProcessing").
func (d *Description) RunBricksEndTreatment() error {
	for i, b := range d.AttachedBricks {
		if err := b.EndTreatment(d); err != nil {
			return mferr.New(mferr.InconsistentDeclaration, "@Brick",
				"brick %q failed end treatment: %s", d.AttachedBrickNames[i], err.Error())
		}
	}
	return nil
}

// RunInterfaceHandOff calls every attached interface's HandOff hook once
// the IR is complete (spec.md §1 Out-of-scope: the core's only contract
// with an interface).
func (d *Description) RunInterfaceHandOff() error {
	for i, h := range d.AttachedInterfaces {
		if err := h.HandOff(d); err != nil {
			return mferr.New(mferr.InconsistentDeclaration, "@Interface",
				"interface %q failed hand-off: %s", d.AttachedInterfaceNames[i], err.Error())
		}
	}
	return nil
}

// NewDescription allocates a Description with its Undefined umbrella data
// already present.
func NewDescription() *Description {
	d := &Description{
		Hypotheses: map[hypothesis.Hypothesis]bool{},
		data:       map[hypothesis.Hypothesis]*Data{},
		overrides:  map[string]float64{},
	}
	d.data[hypothesis.Undefined] = NewData(hypothesis.Undefined)
	return d
}

// SetDate sets the Date field to the given value if non-empty, or to
// today's date (matching a teacher CLI's "use now if unset" default) --
// deterministic callers always pass an explicit value, since spec.md §8
// property 1 requires byte-identical output modulo embedded timestamps.
func (d *Description) SetDate(value string) {
	if value != "" {
		d.Date = value
		return
	}
	d.Date = time.Now().Format("2006-01-02")
}

// OverrideParameter records a parameter override made before parsing
// begins (spec.md §4.4 Lifecycle).
func (d *Description) OverrideParameter(name string, value float64) {
	d.overrides[name] = value
}

// OverriddenParameters returns the override ledger, matching
// getOverridenParameters() in spec.md S5.
func (d *Description) OverriddenParameters() map[string]float64 {
	out := make(map[string]float64, len(d.overrides))
	for k, v := range d.overrides {
		out[k] = v
	}
	return out
}

// overriddenValue returns the override for name, if any.
func (d *Description) overriddenValue(name string) (float64, bool) {
	v, ok := d.overrides[name]
	return v, ok
}

// ApplyParameterOverrides walks every declared parameter in every
// hypothesis data and replaces its default value with the override, if one
// was recorded. Called once, at end-of-file processing.
func (d *Description) ApplyParameterOverrides() {
	for _, data := range d.data {
		for _, p := range data.Parameters {
			if v, ok := d.overriddenValue(p.Name); ok {
				p.DefaultValue = []float64{v}
			}
		}
	}
}

// Umbrella returns the Undefined (shared/broadcast) Data.
func (d *Description) Umbrella() *Data {
	return d.data[hypothesis.Undefined]
}

// HasSpecialisation reports whether h has its own (non-umbrella) Data.
func (d *Description) HasSpecialisation(h hypothesis.Hypothesis) bool {
	if h == hypothesis.Undefined {
		return true
	}
	_, ok := d.data[h]
	return ok
}

// Specialise copies the Undefined data into a fresh hypothesis slot,
// spec.md §4.4's "specialise(h)". It is a no-op (returning the existing
// data) if h is already specialised.
func (d *Description) Specialise(h hypothesis.Hypothesis) *Data {
	if h == hypothesis.Undefined {
		return d.Umbrella()
	}
	if existing, ok := d.data[h]; ok {
		return existing
	}
	clone := cloneData(d.Umbrella(), h)
	d.data[h] = clone
	d.Hypotheses[h] = true
	return clone
}

// Data returns the Data for h if h has been specialised, and the umbrella
// (Undefined) Data otherwise; it never creates a specialisation itself.
func (d *Description) Data(h hypothesis.Hypothesis) *Data {
	if h == hypothesis.Undefined {
		return d.Umbrella()
	}
	if existing, ok := d.data[h]; ok {
		return existing
	}
	return d.Umbrella()
}

// SpecialisedHypotheses returns every hypothesis with its own Data, i.e.
// every key except Undefined.
func (d *Description) SpecialisedHypotheses() []hypothesis.Hypothesis {
	var out []hypothesis.Hypothesis
	for h := range d.data {
		if h != hypothesis.Undefined {
			out = append(out, h)
		}
	}
	return out
}

// IsFullySpecialised reports whether every hypothesis the behaviour is
// defined on has its own specialised Data -- the condition under which the
// emitter (spec.md §4.6) skips emitting the Undefined class.
func (d *Description) IsFullySpecialised() bool {
	if len(d.Hypotheses) == 0 {
		return false
	}
	for h := range d.Hypotheses {
		if !d.HasSpecialisation(h) {
			return false
		}
	}
	return true
}

// cloneData performs a shallow copy sufficient for broadcast semantics:
// slices/maps are copied so mutating the specialisation never mutates the
// umbrella (or vice versa), but *Variable/*CodeBlock pointers are shared
// until a specialisation explicitly diverges by replacing its own entry.
func cloneData(src *Data, h hypothesis.Hypothesis) *Data {
	dst := NewData(h)
	dst.MaterialProperties = append(List{}, src.MaterialProperties...)
	dst.IntegrationVariables = append(List{}, src.IntegrationVariables...)
	for k, v := range src.StateVariableNames {
		dst.StateVariableNames[k] = v
	}
	dst.AuxiliaryStateVariables = append(List{}, src.AuxiliaryStateVariables...)
	dst.ExternalStateVariables = append(List{}, src.ExternalStateVariables...)
	dst.LocalVariables = append(List{}, src.LocalVariables...)
	dst.Parameters = append(List{}, src.Parameters...)
	dst.StaticVariables = append(List{}, src.StaticVariables...)
	dst.InitialiseFunctionVariables = append(List{}, src.InitialiseFunctionVariables...)
	dst.PostProcessingVariables = append(List{}, src.PostProcessingVariables...)
	dst.MainVariables = append([]MainVariable{}, src.MainVariables...)
	dst.TangentOperatorBlock = append(TangentOperatorBlock{}, src.TangentOperatorBlock...)
	for k, v := range src.CodeBlocks {
		cb := *v
		dst.CodeBlocks[k] = &cb
	}
	for k, v := range src.ReservedNames {
		dst.ReservedNames[k] = v
	}
	for k, v := range src.RegisteredNames {
		dst.RegisteredNames[k] = v
	}
	for k, v := range src.NumericalJacobianBlocks {
		dst.NumericalJacobianBlocks[k] = v
	}
	dst.StressFreeExpansions = append([]StressFreeExpansion{}, src.StressFreeExpansions...)
	dst.Algorithm = src.Algorithm
	dst.Epsilon = src.Epsilon
	dst.Theta = src.Theta
	dst.IterMax = src.IterMax
	dst.NumericalJacobianEpsilon = src.NumericalJacobianEpsilon
	dst.JacobianComparisonCriterion = src.JacobianComparisonCriterion
	dst.IsTangentOperatorSymmetric = src.IsTangentOperatorSymmetric
	dst.HasPredictionOperator = src.HasPredictionOperator
	dst.HasConsistentTangentOperator = src.HasConsistentTangentOperator
	dst.UsableInPurelyImplicitResolution = src.UsableInPurelyImplicitResolution
	dst.CompareToNumericalJacobian = src.CompareToNumericalJacobian
	dst.Profiling = src.Profiling
	dst.newVariablesDisabled = src.newVariablesDisabled
	return dst
}

// CheckStiffnessTensorInvariant enforces spec.md §3's mutual-exclusion
// invariant between computesStiffnessTensor and requiresStiffnessTensor.
func (d *Description) CheckStiffnessTensorInvariant() error {
	if d.ComputesStiffnessTensor && d.RequiresStiffnessTensor {
		return mferr.New(mferr.InconsistentDeclaration, "@ComputeStiffnessTensor",
			"computesStiffnessTensor and requiresStiffnessTensor are mutually exclusive")
	}
	return nil
}

// CheckThermalExpansionInvariant enforces the computeThermalExpansion /
// requiresThermalExpansionCoefficientTensor mutual exclusion.
func (d *Description) CheckThermalExpansionInvariant() error {
	if d.ComputeThermalExpansion && d.RequiresThermalExpansionCoefficientTensor {
		return mferr.New(mferr.InconsistentDeclaration, "@ComputeThermalExpansion",
			"computeThermalExpansion forbids requiresThermalExpansionCoefficientTensor")
	}
	return nil
}

// CheckPlaneStressStiffnessChoice enforces that plane-stress hypotheses
// require an explicit altered/un-altered stiffness tensor choice when
// requiresStiffnessTensor is set.
func (d *Description) CheckPlaneStressStiffnessChoice() error {
	if !d.RequiresStiffnessTensor {
		return nil
	}
	for h := range d.Hypotheses {
		if hypothesis.IsPlaneStress(h) && !d.PlaneStressAlteredStiffnessChosen {
			return mferr.New(mferr.InconsistentDeclaration, "@RequireStiffnessTensor",
				"hypothesis %s requires an explicit altered/un-altered stiffness tensor choice", h)
		}
	}
	return nil
}

// CheckOrthotropicAxesConvention enforces that orthotropic stress-free
// expansion or thermal expansion with the default axes convention
// restricts validity to Tridimensional only.
func (d *Description) CheckOrthotropicAxesConvention(usesOrthotropicSFEOrThermalExpansion bool) error {
	if !usesOrthotropicSFEOrThermalExpansion || d.AxesConvention != DefaultAxesConvention {
		return nil
	}
	for h := range d.Hypotheses {
		if h != hypothesis.Tridimensional {
			return mferr.New(mferr.InconsistentDeclaration, "@OrthotropicBehaviour",
				"orthotropic stress-free expansion/thermal expansion with the default axes convention is only valid for TRIDIMENSIONAL, found %s", h)
		}
	}
	return nil
}
