package implicit

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
)

// PartialJacobianInvertOverload is one member of the
// getPartialJacobianInvert overload family spec.md §4.5 names, grounded on
// original_source/mfront/src/ImplicitDSLBase.cxx (TinyPermutation,
// TinyMatrixSolve, getPartialJacobianInvert): the base overload inverts the
// full Jacobian; each additional overload excludes one integration variable
// from the block being inverted, letting generated code query "what would
// the tangent operator be if this internal variable were held fixed."
type PartialJacobianInvertOverload struct {
	ExcludedVariables []*behaviour.Variable
	Symbol            string
}

// BuildPartialJacobianInvertOverloads returns the base overload plus one
// overload per integration variable in vars.
func BuildPartialJacobianInvertOverloads(vars behaviour.List) []PartialJacobianInvertOverload {
	overloads := make([]PartialJacobianInvertOverload, 0, len(vars)+1)
	overloads = append(overloads, PartialJacobianInvertOverload{Symbol: "getPartialJacobianInvert"})
	for _, v := range vars {
		overloads = append(overloads, PartialJacobianInvertOverload{
			ExcludedVariables: []*behaviour.Variable{v},
			Symbol:            io.Sf("getPartialJacobianInvert_%s", v.Name),
		})
	}
	return overloads
}

// IntegrationVariablesDerivativesFunctor is the
// getIntegrationVariablesDerivatives_<name> functor spec.md §4.5 names,
// computing d(integration variables)/d(external state variable) by solving
// the already-inverted partial Jacobian against the integrator's explicit
// dependence on the named external state variable.
type IntegrationVariablesDerivativesFunctor struct {
	ExternalStateVariable *behaviour.Variable
	Symbol                string
}

// BuildIntegrationVariablesDerivativesFunctors returns one functor per
// external state variable declared on data.
func BuildIntegrationVariablesDerivativesFunctors(data *behaviour.Data) []IntegrationVariablesDerivativesFunctor {
	out := make([]IntegrationVariablesDerivativesFunctor, 0, len(data.ExternalStateVariables))
	for _, v := range data.ExternalStateVariables {
		out = append(out, IntegrationVariablesDerivativesFunctor{
			ExternalStateVariable: v,
			Symbol:                io.Sf("getIntegrationVariablesDerivatives_%s", v.Name),
		})
	}
	return out
}
