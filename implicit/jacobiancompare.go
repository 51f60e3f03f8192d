package implicit

import (
	"math"

	"github.com/cpmech/gosl/num"
)

// Residual evaluates one scalar component of the implicit scheme's residual
// vector as a function of one scalar component of the unknown vector, all
// other components held fixed -- the shape a generated behaviour's
// @CompareToNumericalJacobian runtime check differentiates numerically.
type Residual func(x float64) float64

// NumericalJacobianEntry central-differences f around x0 using h as the
// perturbation, grounded on github.com/cpmech/gosl/num.DerivCentral (the
// same differencing routine gofem's msolid/driver.go-style consistent-
// tangent checks use), repurposed here as the code generator's own
// cross-check of an analytic Jacobian entry against its numerical estimate.
func NumericalJacobianEntry(f Residual, x0, h float64) (float64, error) {
	return num.DerivCentral(func(t float64, args ...interface{}) float64 {
		return f(t)
	}, x0, h)
}

// CompareJacobianEntry reports whether an analytic Jacobian entry agrees
// with its numerically-differenced estimate within criterion, matching
// spec.md §4.5's @CompareToNumericalJacobian / @JacobianComparisonCriterion
// semantics (relative error when the numerical value is not too small,
// absolute error otherwise).
func CompareJacobianEntry(analytic, numerical, criterion float64) bool {
	scale := math.Abs(numerical)
	if scale < 1 {
		scale = 1
	}
	return math.Abs(analytic-numerical) <= criterion*scale
}
