package behaviour

import (
	"testing"

	"github.com/cpmech/mfront/hypothesis"
)

func TestVariableNameUniqueness(t *testing.T) {
	d := NewData(hypothesis.Undefined)
	if err := d.AddVariable(MaterialProperty, NewVariable("stress", "young", 1)); err != nil {
		t.Fatal(err)
	}
	if err := d.AddVariable(MaterialProperty, NewVariable("real", "young", 2)); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestGlossaryNameUniqueness(t *testing.T) {
	d := NewData(hypothesis.Undefined)
	v1 := NewVariable("stress", "young", 1)
	v1.SetGlossaryName("YoungModulus")
	if err := d.AddVariable(MaterialProperty, v1); err != nil {
		t.Fatal(err)
	}
	v2 := NewVariable("real", "E", 2)
	v2.SetGlossaryName("YoungModulus")
	if err := d.AddVariable(MaterialProperty, v2); err == nil {
		t.Fatal("expected duplicate glossary name to be rejected")
	}
}

func TestGlossaryAndEntryNameAreMutuallyExclusive(t *testing.T) {
	v := NewVariable("real", "x", 1)
	if err := v.SetGlossaryName("X"); err != nil {
		t.Fatal(err)
	}
	if err := v.SetEntryName("x_entry"); err == nil {
		t.Fatal("expected entry name to be rejected once glossary name is set")
	}
}

func TestReservedNameRejected(t *testing.T) {
	d := NewData(hypothesis.Undefined)
	v := NewVariable("real", "TinyMatrixSolve", 1)
	if err := d.AddVariable(LocalVariable, v); err == nil {
		t.Fatal("expected reserved name to be rejected")
	}
}

func TestNoNewVariablesAfterCodeBlock(t *testing.T) {
	d := NewData(hypothesis.Undefined)
	d.CodeBlock("Integrator", 10)
	d.DisableNewUserDefinedVariables()
	if err := d.AddVariable(LocalVariable, NewVariable("real", "tmp", 11)); err == nil {
		t.Fatal("expected variable declaration after disabling to be rejected")
	}
}

func TestMainVariablePairing(t *testing.T) {
	d := NewData(hypothesis.Undefined)
	eto := NewVariable("StrainStensor", "eto", 1)
	sig := NewVariable("StressStensor", "sig", 1)
	if err := d.AddMainVariable(eto, sig, true); err != nil {
		t.Fatal(err)
	}
	if len(d.MainVariables) != 1 {
		t.Fatalf("expected 1 main variable, got %d", len(d.MainVariables))
	}
	// spec.md §8 property 4 via PendingMainVariables: after every push, at
	// most one of the two lists may be non-empty once paired.
	var pending PendingMainVariables
	pending.PushGradient(NewVariable("StrainStensor", "eto2", 2))
	if _, _, ok := pending.Pop(); ok {
		t.Fatal("expected Pop to fail with unpaired gradient")
	}
	pending.PushThermodynamicForce(NewVariable("StressStensor", "sig2", 2))
	g, f, ok := pending.Pop()
	if !ok || g.Name != "eto2" || f.Name != "sig2" {
		t.Fatalf("expected paired pop, got g=%v f=%v ok=%v", g, f, ok)
	}
}

func TestDefaultTangentOperatorBlockFromMainVariables(t *testing.T) {
	d := NewData(hypothesis.Undefined)
	eto := NewVariable("StrainStensor", "eto", 1)
	sig := NewVariable("StressStensor", "sig", 1)
	d.AddMainVariable(eto, sig, true)
	if len(d.TangentOperatorBlock) != 1 {
		t.Fatalf("expected default tangent operator block of size 1, got %d", len(d.TangentOperatorBlock))
	}
	if d.TangentOperatorBlock[0].Row != sig || d.TangentOperatorBlock[0].Column != eto {
		t.Fatal("expected (sig, eto) as the default tangent operator pair")
	}
}

func TestCodeBlockInsertionPolicies(t *testing.T) {
	cb := NewCodeBlock("Integrator", 1)
	if err := cb.Insert("a", Create, Body); err != nil {
		t.Fatal(err)
	}
	if err := cb.Insert("b", Create, Body); err == nil {
		t.Fatal("expected Create to reject an existing block")
	}
	if err := cb.Insert("b", CreateOrAppend, AtEnd); err != nil {
		t.Fatal(err)
	}
	if cb.Text != "ab" {
		t.Fatalf("expected append at end, got %q", cb.Text)
	}
	if err := cb.Insert("c", CreateOrAppend, AtBeginning); err != nil {
		t.Fatal(err)
	}
	if cb.Text != "cab" {
		t.Fatalf("expected prepend, got %q", cb.Text)
	}
	if err := cb.Insert("z", CreateOrReplace, Body); err != nil {
		t.Fatal(err)
	}
	if cb.Text != "z" {
		t.Fatalf("expected replace, got %q", cb.Text)
	}
}
