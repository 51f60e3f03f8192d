package isotropic

import (
	"regexp"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
)

// Variant selects which canonical residual declareCommon and
// buildIntegratorText synthesise around the author's @FlowRule.
type Variant int

const (
	// PlasticFlow solves f(σ_eq, p) = 0 for the flow surface f the author
	// defines (spec.md §4.7: "residual surf = f/E").
	PlasticFlow Variant = iota
	// Creep solves Δp - Δt·g(σ_eq, p) = 0 for the rate law g the author
	// defines.
	Creep
)

// commonLocalVariables are the local variables both variants always
// declare (spec.md §4.7).
var commonLocalVariables = []struct{ typ, name string }{
	{"StressStensor", "se"},
	{"StressStensor", "n"},
	{"real", "seq"},
	{"real", "lambda"},
	{"real", "mu"},
}

var plasticLocalVariables = []struct{ typ, name string }{
	{"real", "f"},
	{"real", "df_dseq"},
	{"real", "df_dp"},
}

var creepLocalVariables = []struct{ typ, name string }{
	{"real", "g"},
	{"real", "dg_dseq"},
}

// declareCommon pre-declares the shared state (spec.md §4.7): the
// (eto, sig) main variable pair, the elastic strain eel and equivalent
// plastic strain p state variables, the flow-normal/trial-stress local
// variables, and the young/nu material properties every isotropic
// specialisation needs to build its elastic prediction.
func declareCommon(className string, variant Variant) (*behaviour.Description, error) {
	desc := behaviour.NewDescription()
	desc.ClassName = className
	desc.Symmetry = behaviour.Isotropic
	desc.Scheme = behaviour.ImplicitScheme

	data := desc.Umbrella()

	eto := behaviour.NewVariable("StrainStensor", "eto", 1)
	sig := behaviour.NewVariable("StressStensor", "sig", 1)
	if err := data.AddMainVariable(eto, sig, true); err != nil {
		return nil, err
	}

	eel := behaviour.NewVariable("StrainStensor", "eel", 1)
	if err := eel.SetGlossaryName("ElasticStrain"); err != nil {
		return nil, err
	}
	if err := data.AddVariable(behaviour.StateVariable, eel); err != nil {
		return nil, err
	}

	p := behaviour.NewVariable("real", "p", 1)
	if err := p.SetGlossaryName("EquivalentPlasticStrain"); err != nil {
		return nil, err
	}
	if err := data.AddVariable(behaviour.StateVariable, p); err != nil {
		return nil, err
	}

	young := behaviour.NewVariable("real", "young", 1)
	if err := young.SetGlossaryName("YoungModulus"); err != nil {
		return nil, err
	}
	if err := data.AddVariable(behaviour.MaterialProperty, young); err != nil {
		return nil, err
	}

	nu := behaviour.NewVariable("real", "nu", 1)
	if err := nu.SetGlossaryName("PoissonRatio"); err != nil {
		return nil, err
	}
	if err := data.AddVariable(behaviour.MaterialProperty, nu); err != nil {
		return nil, err
	}

	for _, lv := range commonLocalVariables {
		if err := data.AddVariable(behaviour.LocalVariable, behaviour.NewVariable(lv.typ, lv.name, 1)); err != nil {
			return nil, err
		}
	}
	variantLocals := plasticLocalVariables
	if variant == Creep {
		variantLocals = creepLocalVariables
	}
	for _, lv := range variantLocals {
		if err := data.AddVariable(behaviour.LocalVariable, behaviour.NewVariable(lv.typ, lv.name, 1)); err != nil {
			return nil, err
		}
	}

	initText := buildInitLocalVariablesText()
	init := data.CodeBlock("InitLocalVariables", 0)
	if err := init.Insert(initText, behaviour.Create, behaviour.Body); err != nil {
		return nil, err
	}
	markReferencedMembers(init, initText, data)

	data.UsableInPurelyImplicitResolution = true
	data.HasConsistentTangentOperator = true
	data.IsTangentOperatorSymmetric = true
	return desc, nil
}

// buildInitLocalVariablesText emits the lambda/mu conversion every
// isotropic specialisation's integrator and tangent-operator text assumes
// (spec.md §4.7). young/nu are runtime material properties here, so the
// emitted C++ recomputes lambda/mu symbolically rather than folding in a
// constant; the worked-example values in the leading comment come straight
// from LameFromYoungPoisson, keeping the comment in sync with the formula
// below it.
func buildInitLocalVariablesText() string {
	lambdaRef, muRef := LameFromYoungPoisson(200e9, 0.3)
	return io.Sf("// lambda = young*nu/((1+nu)*(1-2*nu)), mu = young/(2*(1+nu))\n"+
		"// e.g. young=200e9, nu=0.3 -> lambda=%.6g, mu=%.6g\n"+
		"lambda = young*nu/((1+nu)*(1-2*nu));\n"+
		"mu = young/(2*(1+nu));\n", lambdaRef, muRef)
}

// NewIsotropicMisesPlasticFlow builds the pre-declared description for the
// IsotropicMisesPlasticFlow front-end (spec.md §4.7). Call SetFlowRule to
// supply the author's @FlowRule body and complete the behaviour.
func NewIsotropicMisesPlasticFlow(className string) (*behaviour.Description, error) {
	return declareCommon(className, PlasticFlow)
}

// NewIsotropicMisesCreep builds the pre-declared description for the
// IsotropicMisesCreep front-end.
func NewIsotropicMisesCreep(className string) (*behaviour.Description, error) {
	return declareCommon(className, Creep)
}

// SetFlowRule attaches the author-supplied @FlowRule body (text, at source
// line) and synthesises the canonical scalar Newton loop around it: the
// elastic prediction, the flow normal, the residual equations, and the
// consistent tangent operator (spec.md §4.7). It is an error to call this
// twice for the same description.
func SetFlowRule(desc *behaviour.Description, variant Variant, text string, line int) error {
	data := desc.Umbrella()
	if data.HasCodeBlock("Integrator") {
		return mferr.New(mferr.DuplicateDeclaration, "@FlowRule",
			"flow rule already set for %q", desc.ClassName)
	}

	integratorText := buildIntegratorText(variant, text)
	integrator := data.CodeBlock("Integrator", line)
	if err := integrator.Insert(integratorText, behaviour.Create, behaviour.Body); err != nil {
		return err
	}
	markReferencedMembers(integrator, integratorText, data)

	tangentText := buildTangentOperatorText(variant)
	tangent := data.CodeBlock("TangentOperator", line)
	if err := tangent.Insert(tangentText, behaviour.Create, behaviour.Body); err != nil {
		return err
	}
	markReferencedMembers(tangent, tangentText, data)

	data.DisableNewUserDefinedVariables()
	return nil
}

// buildIntegratorText synthesises the elastic prediction, flow normal and
// residual equations around the author's flow-rule text. The plastic
// variant's residual is surf = f/young (spec.md §4.7); the creep variant's
// is Δp - Δt·g.
func buildIntegratorText(variant Variant, flowRuleText string) string {
	preamble := "se = deviator(sig);\n" +
		"seq = sigmaeq(se);\n" +
		"if(seq > 100*young*numeric_limits<real>::epsilon()){\n" +
		"  n = 3*se/(2*seq);\n" +
		"} else {\n" +
		"  n = Stensor(real(0));\n" +
		"}\n" +
		"eel += deel - dp*n;\n" +
		"sig = lambda*trace(eel)*Stensor::Id()+2*mu*eel;\n"

	switch variant {
	case Creep:
		return preamble + flowRuleText + "\n" +
			"feel += dp*n;\n" +
			"fp   = dp - dt*g;\n"
	default: // PlasticFlow
		return preamble + flowRuleText + "\n" +
			"const real surf = f/young;\n" +
			"feel += dp*n;\n" +
			"fp   = surf;\n"
	}
}

// buildTangentOperatorText synthesises the consistent tangent operator:
// the elastic stiffness with a rank-one update involving the flow normal n
// and the scalar derivatives df/dσ_eq, df/dp (spec.md §4.7).
func buildTangentOperatorText(variant Variant) string {
	switch variant {
	case Creep:
		return "if(smt==CONSISTENTTANGENTOPERATOR){\n" +
			"  const real cste = 1/(1+theta*dt*dg_dseq*3*mu/seq);\n" +
			"  Dt = lambda*Stensor4::IxI()+2*mu*cste*Stensor4::Id()" +
			"-2*mu*cste*(3*mu*theta*dt*dg_dseq/seq)*(n^n);\n" +
			"} else {\n  return false;\n}\n"
	default: // PlasticFlow
		return "if(smt==CONSISTENTTANGENTOPERATOR){\n" +
			"  const real cste = 1/(1+2*mu*theta*dp*df_dseq/(young*seq));\n" +
			"  Dt = lambda*Stensor4::IxI()+2*mu*cste*Stensor4::Id()" +
			"-2*mu*cste*(2*mu*theta*dp/(young*seq))*(n^n);\n" +
			"} else {\n  return false;\n}\n"
	}
}

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// markReferencedMembers records every declared variable actually named in
// text as "referenced", matching the parser's member-usage tracking
// (behaviour.CodeBlock.Members) so the emitter's unused-variable epilogue
// does not flag members the synthesised text does use.
func markReferencedMembers(cb *behaviour.CodeBlock, text string, data *behaviour.Data) {
	present := map[string]bool{}
	for _, tok := range identifierPattern.FindAllString(text, -1) {
		present[tok] = true
	}
	for _, name := range declaredNames(data) {
		if present[name] {
			cb.Members[name] = true
		}
	}
}

// declaredNames lists every member name a synthesised code block might
// reference, in declaration order.
func declaredNames(data *behaviour.Data) []string {
	var names []string
	for _, mv := range data.MainVariables {
		names = append(names, mv.Gradient.Name, mv.ThermodynamicForce.Name)
	}
	names = append(names, data.IntegrationVariables.Names()...)
	names = append(names, data.LocalVariables.Names()...)
	names = append(names, data.MaterialProperties.Names()...)
	return names
}
