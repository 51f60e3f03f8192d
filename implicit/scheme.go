package implicit

import "github.com/cpmech/mfront/behaviour"

// Scheme is the fully lowered implicit integration scheme for one
// hypothesis's behaviour data (spec.md §4.5): the unknown layout, the full
// Jacobian block grid, the solver choice and its numerical parameters, and
// the two synthesised overload/functor families the generated code exposes
// to callers.
type Scheme struct {
	Data   *behaviour.Data
	Layout UnknownLayout
	Blocks []JacobianBlock
	Solver Solver

	Epsilon                     float64
	Theta                       float64
	IterMax                     int
	NumericalJacobianEpsilon    float64
	CompareToNumericalJacobian  bool
	JacobianComparisonCriterion float64

	// RequiresJacobianDecomposition is true whenever the chosen solver needs
	// an explicit Jacobian (as opposed to Broyden-family update formulas).
	RequiresJacobianDecomposition bool

	PartialJacobianInvertOverloads          []PartialJacobianInvertOverload
	IntegrationVariablesDerivativesFunctors []IntegrationVariablesDerivativesFunctor
}

// Build lowers data's integration variables and numerical parameters into a
// Scheme, using solver as the chosen nonlinear solve strategy.
func Build(data *behaviour.Data, solver Solver) *Scheme {
	vars := data.IntegrationVariables
	blocks := BuildJacobianBlocks(vars, data.NumericalJacobianBlocks)
	return &Scheme{
		Data:                            data,
		Layout:                          BuildUnknownLayout(vars),
		Blocks:                          blocks,
		Solver:                          solver,
		Epsilon:                         data.Epsilon,
		Theta:                           data.Theta,
		IterMax:                         data.IterMax,
		NumericalJacobianEpsilon:        data.NumericalJacobianEpsilon,
		CompareToNumericalJacobian:      data.CompareToNumericalJacobian,
		JacobianComparisonCriterion:     data.JacobianComparisonCriterion,
		RequiresJacobianDecomposition:   solver.Capabilities().RequiresAnalyticJacobian || solver.Capabilities().RequiresNumericalJacobian,
		PartialJacobianInvertOverloads:  BuildPartialJacobianInvertOverloads(vars),
		IntegrationVariablesDerivativesFunctors: BuildIntegrationVariablesDerivativesFunctors(data),
	}
}

// UsesMixedJacobian reports whether any block in the scheme's Jacobian is
// numerically rather than analytically computed.
func (s *Scheme) UsesMixedJacobian() bool {
	return HasNumericalBlock(s.Blocks)
}
