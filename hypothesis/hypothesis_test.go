package hypothesis

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for _, h := range append([]Hypothesis{Undefined}, All...) {
		got, err := Parse(h.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", h.String(), err)
		}
		if got != h {
			t.Fatalf("Parse(%q) = %v, want %v", h.String(), got, h)
		}
	}
}

func TestParseUnknownRejected(t *testing.T) {
	if _, err := Parse("NOTAHYPOTHESIS"); err == nil {
		t.Fatal("expected error for unknown hypothesis")
	}
}

func TestExpandWildcardExcludesRejected(t *testing.T) {
	got := ExpandWildcard(map[Hypothesis]bool{PlaneStress: true})
	for _, h := range got {
		if h == PlaneStress {
			t.Fatal("PlaneStress should have been excluded")
		}
	}
	if len(got) != len(All)-1 {
		t.Fatalf("expected %d hypotheses, got %d", len(All)-1, len(got))
	}
}

func TestIsPlaneStress(t *testing.T) {
	if !IsPlaneStress(PlaneStress) {
		t.Fatal("PlaneStress should be plane-stress")
	}
	if !IsPlaneStress(AxisymmetricalGeneralisedPlaneStress) {
		t.Fatal("AxisymmetricalGeneralisedPlaneStress should be plane-stress")
	}
	if IsPlaneStress(PlaneStrain) {
		t.Fatal("PlaneStrain should not be plane-stress")
	}
}
