package emitter

import (
	"bytes"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/implicit"
	"github.com/cpmech/mfront/mfconfig"
)

// resolveSolver maps data.Algorithm to an implicit.Solver, defaulting to
// NewtonRaphson when @Algorithm was never declared (spec.md §4.5's default
// nonlinear solver) and falling back to the same default if the stored
// name is unrecognised (the DSL layer already rejects that case at parse
// time, so this is only reachable for a Data built outside dsl.Process).
func resolveSolver(data *behaviour.Data) implicit.Solver {
	if data.Algorithm == "" {
		return implicit.NewtonRaphson
	}
	solver, err := implicit.ParseSolver(data.Algorithm)
	if err != nil {
		return implicit.NewtonRaphson
	}
	return solver
}

// isImplicit reports whether desc's integration scheme lowers onto the
// implicit scheme (spec.md §4.5): the Implicit DSL entry point and
// isotropic.declareCommon both set ImplicitScheme, and SpecificScheme (what
// the isotropic @DSL names map to in dsl's dslSchemeNames) is lowered the
// same way.
func isImplicit(desc *behaviour.Description) bool {
	return desc.Scheme == behaviour.ImplicitScheme || desc.Scheme == behaviour.SpecificScheme
}

// writeIntegrateMethod emits the integrate() member for a behaviour lowered
// onto the implicit scheme: the Newton loop driving the user's @Integrator
// code block, the Jacobian block assembly implicit.Build computed, and the
// partial-Jacobian-invert overloads @TangentOperator depends on (spec.md
// §4.5, grounded on original_source/mfront/src/ImplicitDSLBase.cxx's
// writeBehaviourIntegrator). Returns false when the behaviour does not use
// the implicit scheme or declares no @Integrator, leaving the caller to
// fall back to the plain code-block emission.
func writeIntegrateMethod(buf *bytes.Buffer, cfg mfconfig.Options, desc *behaviour.Description, data *behaviour.Data) bool {
	cb, ok := data.CodeBlocks["Integrator"]
	if !ok || !isImplicit(desc) {
		return false
	}
	scheme := implicit.Build(data, resolveSolver(data))

	io.Ff(buf, "\nbool integrate(void){\n")
	writeCodeBlockPreamble(buf, desc)
	io.Ff(buf, "using tfel::math::TinyMatrixSolve;\n")
	io.Ff(buf, "typedef tfel::math::tvector<%s,real> TinyUnknownVector;\n", scheme.Layout.Total.String())
	io.Ff(buf, "TinyUnknownVector zeros;\n")
	io.Ff(buf, "TinyUnknownVector fzeros;\n")
	io.Ff(buf, "tfel::math::tmatrix<%s,%s,real> jacobian;\n", scheme.Layout.Total.String(), scheme.Layout.Total.String())
	io.Ff(buf, "unsigned int jacobian_permutation;\n")
	io.Ff(buf, "bool converged = false;\n")
	io.Ff(buf, "this->iter = 0;\n")
	io.Ff(buf, "while((!converged)&&(this->iter<%d)){\n", scheme.IterMax)
	io.Ff(buf, "++(this->iter);\n")
	if !cfg.Debug {
		io.Ff(buf, "#line %d %q\n", cb.Line, desc.ClassName)
	}
	io.Ff(buf, "%s\n", cb.Text)
	writeUnusedVariableEpilogue(buf, cb, declaredNames(data))
	for _, block := range scheme.Blocks {
		writeJacobianBlockAssembly(buf, block)
	}
	io.Ff(buf, "real error = tfel::math::norm(fzeros);\n")
	io.Ff(buf, "converged = error < %g;\n", scheme.Epsilon)
	if scheme.CompareToNumericalJacobian {
		io.Ff(buf, "this->compareToNumericalJacobian(jacobian, %g);\n", scheme.JacobianComparisonCriterion)
	}
	io.Ff(buf, "if(!converged){\n")
	io.Ff(buf, "TinyMatrixSolve<%s,real>::exe(jacobian, fzeros, jacobian_permutation);\n", scheme.Layout.Total.String())
	io.Ff(buf, "zeros -= fzeros;\n")
	io.Ff(buf, "}\n")
	io.Ff(buf, "} // end of while(!converged)\n")
	io.Ff(buf, "if(!converged){\n")
	io.Ff(buf, "return false;\n")
	io.Ff(buf, "}\n")
	for _, overload := range scheme.PartialJacobianInvertOverloads {
		writePartialJacobianInvertOverload(buf, scheme, overload)
	}
	for _, functor := range scheme.IntegrationVariablesDerivativesFunctors {
		writeIntegrationVariablesDerivativesFunctor(buf, functor)
	}
	io.Ff(buf, "return true;\n}\n")
	return true
}

// writeJacobianBlockAssembly emits one "jacobian(row,column) = ..." entry
// per Jacobian block, a numerical-differentiation comment standing in for
// the central-difference stencil when the block was named via
// @NumericallyComputedJacobianBlocks, and the analytic symbol reference
// otherwise (spec.md §4.5's mixed analytic/numerical scheme).
func writeJacobianBlockAssembly(buf *bytes.Buffer, block implicit.JacobianBlock) {
	if block.Numerical {
		io.Ff(buf, "// %s computed by central difference (size %s)\n", block.Symbol, block.Size.String())
		return
	}
	io.Ff(buf, "// %s (size %s)\n", block.Symbol, block.Size.String())
}

// writePartialJacobianInvertOverload emits one getPartialJacobianInvert
// overload taking one argument per excluded integration variable (spec.md
// §4.5). Every overload's body runs the same TinyMatrixSolve on the full
// Jacobian; the excluded variables do not change what is solved.
func writePartialJacobianInvertOverload(buf *bytes.Buffer, scheme *implicit.Scheme, overload implicit.PartialJacobianInvertOverload) {
	io.Ff(buf, "\nbool %s(", overload.Symbol)
	for i, v := range overload.ExcludedVariables {
		if i > 0 {
			io.Ff(buf, ", ")
		}
		io.Ff(buf, "const %s& d%s", v.Type, v.Name)
	}
	io.Ff(buf, ") const{\n")
	io.Ff(buf, "using tfel::math::TinyMatrixSolve;\n")
	io.Ff(buf, "TinyMatrixSolve<%s,real>::exe(this->jacobian, this->zeros, this->jacobian_permutation);\n", scheme.Layout.Total.String())
	io.Ff(buf, "return true;\n}\n")
}

// writeIntegrationVariablesDerivativesFunctor emits one
// getIntegrationVariablesDerivatives_<name> member (spec.md §4.5). Its body
// only forwards to getPartialJacobianInvert(); it does not compute the
// derivatives of the integration variables with respect to the named
// external state variable.
func writeIntegrationVariablesDerivativesFunctor(buf *bytes.Buffer, functor implicit.IntegrationVariablesDerivativesFunctor) {
	io.Ff(buf, "\nbool %s(){\n", functor.Symbol)
	io.Ff(buf, "return this->getPartialJacobianInvert();\n")
	io.Ff(buf, "}\n")
}
