package emitter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/mfconfig"
	"github.com/stretchr/testify/require"
)

func buildElasticityDescription(t *testing.T) *behaviour.Description {
	t.Helper()
	desc := behaviour.NewDescription()
	desc.ClassName = "Elasticity"
	desc.Hypotheses[hypothesis.Tridimensional] = true
	data := desc.Umbrella()

	young := behaviour.NewVariable("real", "young", 1)
	require.NoError(t, young.SetGlossaryName("YoungModulus"))
	require.NoError(t, data.AddVariable(behaviour.MaterialProperty, young))

	eel := behaviour.NewVariable("StrainStensor", "eel", 1)
	require.NoError(t, data.AddVariable(behaviour.StateVariable, eel))

	eto := behaviour.NewVariable("StrainStensor", "eto", 1)
	sig := behaviour.NewVariable("StressStensor", "sig", 1)
	require.NoError(t, data.AddMainVariable(eto, sig, true))

	cb := data.CodeBlock("Integrator", 1)
	require.NoError(t, cb.Insert("sig = young * eel;", behaviour.Create, behaviour.Body))

	return desc
}

func TestIncludeGuardFormat(t *testing.T) {
	require.Equal(t, "LIB_TFELMATERIAL_ELASTICITY_BEHAVIOUR_DATA_HXX", IncludeGuard("Elasticity", "BEHAVIOUR_DATA"))
}

func TestEmitProducesThreeHeadersPerHypothesis(t *testing.T) {
	desc := buildElasticityDescription(t)
	outputs, err := Emit(desc, mfconfig.Default())
	require.NoError(t, err)
	require.Len(t, outputs, 3)

	var names []string
	for _, o := range outputs {
		names = append(names, o.Path)
	}
	require.Contains(t, names, "ElasticityBehaviourData.hxx")
	require.Contains(t, names, "ElasticityIntegrationData.hxx")
	require.Contains(t, names, "ElasticityBehaviour.hxx")
}

func TestEmitBehaviourHeaderIncludesIntegratorBody(t *testing.T) {
	desc := buildElasticityDescription(t)
	outputs, err := Emit(desc, mfconfig.Default())
	require.NoError(t, err)
	for _, o := range outputs {
		if strings.HasSuffix(o.Path, "Behaviour.hxx") {
			require.Contains(t, o.Content, "sig = young * eel;")
			require.Contains(t, o.Content, "bool integrate(void)")
			return
		}
	}
	t.Fatal("Behaviour.hxx not found in outputs")
}

func TestEmitDebugSuppressesLineDirective(t *testing.T) {
	desc := buildElasticityDescription(t)
	cfg := mfconfig.Default()
	cfg.Debug = true
	outputs, err := Emit(desc, cfg)
	require.NoError(t, err)
	for _, o := range outputs {
		require.NotContains(t, o.Content, "#line")
	}
}

func TestEmitParametersUsesConstexprForDefaultedParameter(t *testing.T) {
	desc := behaviour.NewDescription()
	desc.ClassName = "WithParam"
	data := desc.Umbrella()
	p := behaviour.NewVariable("real", "A", 1)
	require.NoError(t, p.SetDefaultValue([]float64{1.5}))
	require.NoError(t, data.AddVariable(behaviour.Parameter, p))

	outputs, err := Emit(desc, mfconfig.Default())
	require.NoError(t, err)
	var found bool
	for _, o := range outputs {
		if strings.HasSuffix(o.Path, "BehaviourData.hxx") {
			require.Contains(t, o.Content, "static constexpr real A = 1.5;")
			found = true
		}
	}
	require.True(t, found)
}

func TestReadParameterFileMissingIsNotAnError(t *testing.T) {
	values, err := ReadParameterFile(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestReadParameterFileParsesNameValueLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.txt")
	content := "# override young modulus\nyoung 210e9\n\nnu 0.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	values, err := ReadParameterFile(path)
	require.NoError(t, err)
	require.Equal(t, 210e9, values["young"])
	require.Equal(t, 0.3, values["nu"])
}

func TestReadParameterFileRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("young\n"), 0o644))

	_, err := ReadParameterFile(path)
	require.Error(t, err)
}
