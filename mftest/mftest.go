// Package mftest ports the teacher's float-tolerance comparison idiom
// (msolid's *_test.go files compare via chk.Vector/chk.Scalar) for use
// alongside testify/require, which covers plain structural assertions.
package mftest

import (
	"math"
	"testing"
)

// Scalar fails the test if a and b differ by more than tol.
func Scalar(t *testing.T, msg string, tol, a, b float64) {
	t.Helper()
	if math.Abs(a-b) > tol {
		t.Fatalf("%s: %v != %v (tol=%v, diff=%v)", msg, a, b, tol, math.Abs(a-b))
	}
}

// Vector fails the test if any component of a and b differ by more than tol.
func Vector(t *testing.T, msg string, tol float64, a, b []float64) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("%s: length mismatch %d != %d", msg, len(a), len(b))
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			t.Fatalf("%s: [%d] %v != %v (tol=%v, diff=%v)", msg, i, a[i], b[i], tol, math.Abs(a[i]-b[i]))
		}
	}
}
