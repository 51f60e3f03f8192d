package tsize

import "testing"

func TestArrayScaling(t *testing.T) {
	// spec.md §8 property 2: TypeSize(t,n) == n * TypeSize(t)
	for _, typeName := range []string{"real", "StrainStensor", "Tensor", "TVector"} {
		base := OfType(typeName)
		for n := 1; n <= 5; n++ {
			got := base.Scale(n)
			want := Size{}
			for i := 0; i < n; i++ {
				want = want.Add(base)
			}
			if got != want {
				t.Fatalf("%s: Scale(%d) = %+v, want %+v", typeName, n, got, want)
			}
		}
	}
}

func TestAddCommutativeAssociative(t *testing.T) {
	a := OfType("real")
	b := OfType("StrainStensor")
	c := OfType("Tensor")
	if a.Add(b) != b.Add(a) {
		t.Fatal("addition not commutative")
	}
	if a.Add(b).Add(c) != a.Add(b.Add(c)) {
		t.Fatal("addition not associative")
	}
}

func TestSubIsInverseWhenNonNegative(t *testing.T) {
	a := OfType("StrainStensor").Scale(3)
	b := OfType("StrainStensor")
	sum := b.Add(a)
	diff, ok := sum.Sub(a)
	if !ok {
		t.Fatal("expected non-negative subtraction to succeed")
	}
	if diff != b {
		t.Fatalf("got %+v, want %+v", diff, b)
	}
}

func TestSubRejectsNegativeComponents(t *testing.T) {
	a := OfType("real")
	b := OfType("StrainStensor")
	if _, ok := a.Sub(b); ok {
		t.Fatal("expected subtraction leaving a negative component to fail")
	}
}

func TestIsNull(t *testing.T) {
	if !(Size{}).IsNull() {
		t.Fatal("zero size should be null")
	}
	if OfType("real").IsNull() {
		t.Fatal("non-zero size should not be null")
	}
}

func TestAsString(t *testing.T) {
	s := Size{NScalar: 2, NSTensor: 1, NTensor: 0}
	got := s.String()
	want := "2+StensorSize"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if (Size{}).String() != "0" {
		t.Fatal("null size should render as 0")
	}
}

func TestDerivativeSize(t *testing.T) {
	stress := OfType("StressStensor")
	strain := OfType("StrainStensor")
	d := DerivativeSize(stress, strain)
	// a stress-stensor wrt a strain-stensor is a 4th-order block
	if d.NTensor != 1 {
		t.Fatalf("expected 1 tensor-sized block, got %+v", d)
	}
}

func TestRegisterTypeRejectsConflictingReclassification(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on conflicting reclassification")
		}
	}()
	RegisterType("real", STensor)
}
