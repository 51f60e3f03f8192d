package behaviour

import (
	"testing"

	"github.com/cpmech/mfront/hypothesis"
)

func TestSpecialiseExistingHypothesisIsNoOp(t *testing.T) {
	// Specialising a hypothesis that already has its own Data returns that
	// same Data, even after the umbrella has been written to in between.
	d := NewDescription()
	d.Hypotheses[hypothesis.PlaneStrain] = true
	psData := d.Specialise(hypothesis.PlaneStrain)

	young := NewVariable("stress", "young", 1)
	young.SetGlossaryName("YoungModulus")
	if err := d.Umbrella().AddVariable(Parameter, young); err != nil {
		t.Fatal(err)
	}

	psData2 := d.Specialise(hypothesis.PlaneStrain)
	if psData2 != psData {
		t.Fatal("re-specialising an existing hypothesis must be a no-op returning the same Data")
	}
}

func TestDataFallsThroughToUmbrella(t *testing.T) {
	d := NewDescription()
	young := NewVariable("stress", "young", 1)
	d.Umbrella().AddVariable(Parameter, young)
	// PlaneStress was never specialised: reads fall through to Undefined.
	got := d.Data(hypothesis.PlaneStress)
	if got != d.Umbrella() {
		t.Fatal("expected un-specialised hypothesis to read through to the umbrella")
	}
}

func TestIsFullySpecialised(t *testing.T) {
	d := NewDescription()
	d.Hypotheses[hypothesis.PlaneStrain] = true
	d.Hypotheses[hypothesis.Tridimensional] = true
	if d.IsFullySpecialised() {
		t.Fatal("expected not fully specialised before any Specialise call")
	}
	d.Specialise(hypothesis.PlaneStrain)
	if d.IsFullySpecialised() {
		t.Fatal("expected not fully specialised with one hypothesis still un-specialised")
	}
	d.Specialise(hypothesis.Tridimensional)
	if !d.IsFullySpecialised() {
		t.Fatal("expected fully specialised once every hypothesis has its own Data")
	}
}

func TestStiffnessTensorMutualExclusion(t *testing.T) {
	d := NewDescription()
	d.ComputesStiffnessTensor = true
	d.RequiresStiffnessTensor = true
	if err := d.CheckStiffnessTensorInvariant(); err == nil {
		t.Fatal("expected mutual-exclusion violation to be rejected")
	}
}

func TestThermalExpansionMutualExclusion(t *testing.T) {
	d := NewDescription()
	d.ComputeThermalExpansion = true
	d.RequiresThermalExpansionCoefficientTensor = true
	if err := d.CheckThermalExpansionInvariant(); err == nil {
		t.Fatal("expected mutual-exclusion violation to be rejected")
	}
}

func TestPlaneStressRequiresExplicitStiffnessChoice(t *testing.T) {
	d := NewDescription()
	d.RequiresStiffnessTensor = true
	d.Hypotheses[hypothesis.PlaneStress] = true
	if err := d.CheckPlaneStressStiffnessChoice(); err == nil {
		t.Fatal("expected missing altered/un-altered choice to be rejected")
	}
	d.PlaneStressAlteredStiffnessChosen = true
	if err := d.CheckPlaneStressStiffnessChoice(); err != nil {
		t.Fatal(err)
	}
}

func TestOrthotropicDefaultAxesRestrictsToTridimensional(t *testing.T) {
	d := NewDescription()
	d.Hypotheses[hypothesis.PlaneStrain] = true
	if err := d.CheckOrthotropicAxesConvention(true); err == nil {
		t.Fatal("expected orthotropic SFE with default axes convention outside TRIDIMENSIONAL to be rejected")
	}
}

func TestParameterOverride(t *testing.T) {
	// spec.md S5: overrideByAParameter before processing, then a @Parameter
	// with a different default yields the overridden value.
	d := NewDescription()
	d.OverrideParameter("young", 210e9)
	young := NewVariable("stress", "young", 1)
	young.SetDefaultValue([]float64{195e9})
	d.Umbrella().AddVariable(Parameter, young)

	d.ApplyParameterOverrides()

	if young.DefaultValue[0] != 210e9 {
		t.Fatalf("expected override to take effect, got %v", young.DefaultValue)
	}
	got := d.OverriddenParameters()
	if got["young"] != 210e9 {
		t.Fatalf("expected getOverridenParameters to report 210e9, got %v", got["young"])
	}
}
