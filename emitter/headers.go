package emitter

import (
	"bytes"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/mfconfig"
)

// Output is one emitted file: its relative path and content.
type Output struct {
	Path    string
	Content string
}

// Emit lowers desc into the full set of output files spec.md §4.6 names:
// the three headers for every hypothesis the behaviour is defined on, an
// optional source file when the behaviour declares a @Sources block, and a
// slip-systems header when crystal-plasticity slip systems were declared.
func Emit(desc *behaviour.Description, cfg mfconfig.Options) ([]Output, error) {
	var outputs []Output
	hypotheses := targetHypotheses(desc)
	for _, h := range hypotheses {
		data := desc.Data(h)
		outputs = append(outputs,
			emitBehaviourDataHeader(desc, data, cfg),
			emitIntegrationDataHeader(desc, data, cfg),
			emitBehaviourHeader(desc, data, cfg),
		)
		if data.HasCodeBlock("Sources") {
			outputs = append(outputs, emitSource(desc, data, cfg))
		}
	}
	if len(desc.CrystalStructure.Families) > 0 {
		outputs = append(outputs, emitSlipSystemsHeader(desc))
	}
	return outputs, nil
}

// targetHypotheses returns every hypothesis the behaviour is defined on, or
// just Undefined if none were declared (a behaviour valid for every
// hypothesis, spec.md §3).
func targetHypotheses(desc *behaviour.Description) []hypothesis.Hypothesis {
	if len(desc.Hypotheses) == 0 {
		return []hypothesis.Hypothesis{hypothesis.Undefined}
	}
	out := make([]hypothesis.Hypothesis, 0, len(desc.Hypotheses))
	for h := range desc.Hypotheses {
		out = append(out, h)
	}
	return out
}

func hypothesisSuffix(h hypothesis.Hypothesis) string {
	if h == hypothesis.Undefined {
		return ""
	}
	return h.String()
}

func emitBehaviourDataHeader(desc *behaviour.Description, data *behaviour.Data, cfg mfconfig.Options) Output {
	var buf bytes.Buffer
	guard := IncludeGuard(desc.ClassName+hypothesisSuffix(data.Hypothesis), "BEHAVIOUR_DATA")
	io.Ff(&buf, "#ifndef %s\n#define %s\n\n", guard, guard)
	io.Ff(&buf, "namespace tfel{\nnamespace material{\n\n")
	io.Ff(&buf, "template<tfel::material::ModellingHypothesis::Hypothesis hypothesis, typename NumericType, bool use_qt>\n")
	io.Ff(&buf, "class %sBehaviourData;\n\n", desc.ClassName)
	io.Ff(&buf, "class %sBehaviourData{\n", desc.ClassName)
	io.Ff(&buf, "public:\n")
	for _, v := range data.MaterialProperties {
		io.Ff(&buf, "%s %s;\n", v.Type, v.Name)
	}
	for _, mv := range data.MainVariables {
		io.Ff(&buf, "%s %s;\n", mv.Gradient.Type, mv.Gradient.Name)
		io.Ff(&buf, "%s %s;\n", mv.ThermodynamicForce.Type, mv.ThermodynamicForce.Name)
	}
	for _, v := range data.IntegrationVariables {
		if data.IsStateVariable(v.Name) {
			io.Ff(&buf, "%s %s;\n", v.Type, v.Name)
		}
	}
	for _, v := range data.AuxiliaryStateVariables {
		io.Ff(&buf, "%s %s;\n", v.Type, v.Name)
	}
	for _, v := range data.ExternalStateVariables {
		io.Ff(&buf, "%s %s;\n", v.Type, v.Name)
	}
	emitParameters(&buf, data)
	io.Ff(&buf, "}; // end of %sBehaviourData\n\n", desc.ClassName)
	io.Ff(&buf, "} // end of namespace material\n} // end of namespace tfel\n\n")
	io.Ff(&buf, "#endif /* %s */\n", guard)
	return Output{Path: desc.ClassName + hypothesisSuffix(data.Hypothesis) + "BehaviourData.hxx", Content: buf.String()}
}

func emitIntegrationDataHeader(desc *behaviour.Description, data *behaviour.Data, cfg mfconfig.Options) Output {
	var buf bytes.Buffer
	guard := IncludeGuard(desc.ClassName+hypothesisSuffix(data.Hypothesis), "INTEGRATION_DATA")
	io.Ff(&buf, "#ifndef %s\n#define %s\n\n", guard, guard)
	io.Ff(&buf, "namespace tfel{\nnamespace material{\n\n")
	io.Ff(&buf, "class %sIntegrationData{\n", desc.ClassName)
	io.Ff(&buf, "public:\n")
	io.Ff(&buf, "real dt;\n")
	for _, mv := range data.MainVariables {
		io.Ff(&buf, "%s d%s;\n", mv.Gradient.Type, mv.Gradient.Name)
	}
	for _, v := range data.ExternalStateVariables {
		io.Ff(&buf, "%s d%s;\n", v.Type, v.Name)
	}
	io.Ff(&buf, "}; // end of %sIntegrationData\n\n", desc.ClassName)
	io.Ff(&buf, "} // end of namespace material\n} // end of namespace tfel\n\n")
	io.Ff(&buf, "#endif /* %s */\n", guard)
	return Output{Path: desc.ClassName + hypothesisSuffix(data.Hypothesis) + "IntegrationData.hxx", Content: buf.String()}
}

func emitBehaviourHeader(desc *behaviour.Description, data *behaviour.Data, cfg mfconfig.Options) Output {
	var buf bytes.Buffer
	guard := IncludeGuard(desc.ClassName+hypothesisSuffix(data.Hypothesis), "HXX")
	io.Ff(&buf, "#ifndef %s\n#define %s\n\n", guard, guard)
	io.Ff(&buf, "#include\"%sBehaviourData.hxx\"\n", desc.ClassName+hypothesisSuffix(data.Hypothesis))
	io.Ff(&buf, "#include\"%sIntegrationData.hxx\"\n\n", desc.ClassName+hypothesisSuffix(data.Hypothesis))
	io.Ff(&buf, "namespace tfel{\nnamespace material{\n\n")
	io.Ff(&buf, "class %sBehaviour : public %sBehaviourData, public %sIntegrationData{\n",
		desc.ClassName, desc.ClassName, desc.ClassName)
	io.Ff(&buf, "public:\n")
	for _, v := range data.LocalVariables {
		io.Ff(&buf, "%s %s;\n", v.Type, v.Name)
	}
	if cb, ok := data.CodeBlocks["InitLocalVariables"]; ok {
		io.Ff(&buf, "\nvoid initialize(void){\n")
		writeCodeBlockPreamble(&buf, desc)
		writeCodeBlock(&buf, cfg, desc.ClassName, cb, declaredNames(data))
		io.Ff(&buf, "}\n")
	}
	if !writeIntegrateMethod(&buf, cfg, desc, data) {
		if cb, ok := data.CodeBlocks["Integrator"]; ok {
			io.Ff(&buf, "\nbool integrate(void){\n")
			writeCodeBlockPreamble(&buf, desc)
			writeCodeBlock(&buf, cfg, desc.ClassName, cb, declaredNames(data))
			io.Ff(&buf, "return true;\n}\n")
		}
	}
	if cb, ok := data.CodeBlocks["TangentOperator"]; ok {
		io.Ff(&buf, "\nbool computeConsistentTangentOperator(void){\n")
		writeCodeBlockPreamble(&buf, desc)
		writeCodeBlock(&buf, cfg, desc.ClassName, cb, declaredNames(data))
		io.Ff(&buf, "return true;\n}\n")
	}
	io.Ff(&buf, "}; // end of %sBehaviour\n\n", desc.ClassName)
	io.Ff(&buf, "} // end of namespace material\n} // end of namespace tfel\n\n")
	io.Ff(&buf, "#endif /* %s */\n", guard)
	return Output{Path: desc.ClassName + hypothesisSuffix(data.Hypothesis) + "Behaviour.hxx", Content: buf.String()}
}

// emitSource emits the optional .cxx companion file (spec.md §4.6), used
// when a @Sources block was declared (e.g. out-of-line parameter
// initialisers too large to keep header-only).
func emitSource(desc *behaviour.Description, data *behaviour.Data, cfg mfconfig.Options) Output {
	var buf bytes.Buffer
	io.Ff(&buf, "#include\"%sBehaviour.hxx\"\n\n", desc.ClassName+hypothesisSuffix(data.Hypothesis))
	io.Ff(&buf, "namespace tfel{\nnamespace material{\n\n")
	if cb, ok := data.CodeBlocks["Sources"]; ok {
		io.Ff(&buf, "%s\n", cb.Text)
	}
	io.Ff(&buf, "} // end of namespace material\n} // end of namespace tfel\n")
	return Output{Path: desc.ClassName + hypothesisSuffix(data.Hypothesis) + "Behaviour.cxx", Content: buf.String()}
}

// emitSlipSystemsHeader emits the crystal-plasticity slip-systems header
// (spec.md §3's SlipSystemsDescription).
func emitSlipSystemsHeader(desc *behaviour.Description) Output {
	var buf bytes.Buffer
	guard := IncludeGuard(desc.ClassName, "SLIP_SYSTEMS")
	io.Ff(&buf, "#ifndef %s\n#define %s\n\n", guard, guard)
	io.Ff(&buf, "namespace tfel{\nnamespace material{\n\n")
	io.Ff(&buf, "struct %sSlipSystems{\n", desc.ClassName)
	for i, family := range desc.CrystalStructure.Families {
		io.Ff(&buf, "// family %d\n", i)
		for _, ss := range family {
			io.Ff(&buf, "// plane={%v,%v,%v} direction={%v,%v,%v}\n",
				ss.Plane[0], ss.Plane[1], ss.Plane[2], ss.Direction[0], ss.Direction[1], ss.Direction[2])
		}
	}
	io.Ff(&buf, "}; // end of %sSlipSystems\n\n", desc.ClassName)
	io.Ff(&buf, "} // end of namespace material\n} // end of namespace tfel\n\n")
	io.Ff(&buf, "#endif /* %s */\n", guard)
	return Output{Path: desc.ClassName + "SlipSystems.hxx", Content: buf.String()}
}

// declaredNames lists every member name a code block's unused-variable
// epilogue should consider, in the order spec.md §4.6 enumerates them.
func declaredNames(data *behaviour.Data) []string {
	var names []string
	for _, mv := range data.MainVariables {
		names = append(names, mv.Gradient.Name, mv.ThermodynamicForce.Name)
	}
	names = append(names, data.IntegrationVariables.Names()...)
	names = append(names, data.LocalVariables.Names()...)
	names = append(names, data.AuxiliaryStateVariables.Names()...)
	names = append(names, data.ExternalStateVariables.Names()...)
	return names
}
