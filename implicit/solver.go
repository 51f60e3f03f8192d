package implicit

import "github.com/cpmech/mfront/mferr"

// Solver enumerates the nonlinear solvers the implicit scheme can lower an
// @Integrator onto (spec.md §4.5), grounded on
// github.com/cpmech/gosl/num's nonlinear-solve vocabulary
// (num.NlSolver wraps a Newton-type iteration the same way these variants
// wrap TFEL's solver choices).
type Solver int

const (
	NewtonRaphson Solver = iota
	NewtonRaphsonNumericalJacobian
	Broyden
	PowellDogLegNewtonRaphson
	PowellDogLegBroyden
	LevenbergMarquardt
	LevenbergMarquardtNumericalJacobian
	UserDefinedSolver
)

func (s Solver) String() string {
	switch s {
	case NewtonRaphson:
		return "NewtonRaphson"
	case NewtonRaphsonNumericalJacobian:
		return "NewtonRaphson_NumericalJacobian"
	case Broyden:
		return "Broyden"
	case PowellDogLegNewtonRaphson:
		return "PowellDogLeg_NewtonRaphson"
	case PowellDogLegBroyden:
		return "PowellDogLeg_Broyden"
	case LevenbergMarquardt:
		return "LevenbergMarquardt"
	case LevenbergMarquardtNumericalJacobian:
		return "LevenbergMarquardt_NumericalJacobian"
	case UserDefinedSolver:
		return "UserDefinedSolver"
	}
	return "UnknownSolver"
}

// ParseSolver maps an @Algorithm argument to a Solver.
func ParseSolver(name string) (Solver, error) {
	switch name {
	case "NewtonRaphson":
		return NewtonRaphson, nil
	case "NewtonRaphson_NumericalJacobian":
		return NewtonRaphsonNumericalJacobian, nil
	case "Broyden":
		return Broyden, nil
	case "PowellDogLeg_NewtonRaphson":
		return PowellDogLegNewtonRaphson, nil
	case "PowellDogLeg_Broyden":
		return PowellDogLegBroyden, nil
	case "LevenbergMarquardt":
		return LevenbergMarquardt, nil
	case "LevenbergMarquardt_NumericalJacobian":
		return LevenbergMarquardtNumericalJacobian, nil
	case "UserDefinedSolver":
		return UserDefinedSolver, nil
	}
	return 0, mferr.New(mferr.UnknownEntity, "@Algorithm", "unknown solver %q", name)
}

// Capabilities describes the structural requirements a Solver choice
// imposes on the generated integration scheme.
type Capabilities struct {
	RequiresAnalyticJacobian  bool
	RequiresNumericalJacobian bool
	UsesDogLeg                bool
	UsesLevenbergMarquardt    bool
}

// Capabilities returns s's declared capability flags (spec.md §4.5).
func (s Solver) Capabilities() Capabilities {
	switch s {
	case NewtonRaphson:
		return Capabilities{RequiresAnalyticJacobian: true}
	case NewtonRaphsonNumericalJacobian:
		return Capabilities{RequiresNumericalJacobian: true}
	case Broyden:
		return Capabilities{}
	case PowellDogLegNewtonRaphson:
		return Capabilities{RequiresAnalyticJacobian: true, UsesDogLeg: true}
	case PowellDogLegBroyden:
		return Capabilities{UsesDogLeg: true}
	case LevenbergMarquardt:
		return Capabilities{RequiresAnalyticJacobian: true, UsesLevenbergMarquardt: true}
	case LevenbergMarquardtNumericalJacobian:
		return Capabilities{RequiresNumericalJacobian: true, UsesLevenbergMarquardt: true}
	case UserDefinedSolver:
		return Capabilities{}
	}
	return Capabilities{}
}
