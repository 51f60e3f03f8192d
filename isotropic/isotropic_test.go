package isotropic

import (
	"strings"
	"testing"

	"github.com/cpmech/mfront/emitter"
	"github.com/cpmech/mfront/implicit"
	"github.com/cpmech/mfront/mfconfig"
	"github.com/stretchr/testify/require"
)

func TestNewIsotropicMisesPlasticFlowDeclaresCommonState(t *testing.T) {
	desc, err := NewIsotropicMisesPlasticFlow("Plasticity")
	require.NoError(t, err)
	data := desc.Umbrella()

	require.NotNil(t, data.IntegrationVariables.ByName("eel"))
	require.NotNil(t, data.IntegrationVariables.ByName("p"))
	require.True(t, data.IsStateVariable("eel"))
	require.True(t, data.IsStateVariable("p"))
	require.NotNil(t, data.LocalVariables.ByName("f"))
	require.NotNil(t, data.LocalVariables.ByName("df_dseq"))
	require.NotNil(t, data.LocalVariables.ByName("df_dp"))
	require.Len(t, desc.Umbrella().MainVariables, 1)
	require.True(t, data.UsableInPurelyImplicitResolution)
}

func TestNewIsotropicMisesCreepDeclaresRateLawLocals(t *testing.T) {
	desc, err := NewIsotropicMisesCreep("Creep")
	require.NoError(t, err)
	data := desc.Umbrella()
	require.NotNil(t, data.LocalVariables.ByName("g"))
	require.NotNil(t, data.LocalVariables.ByName("dg_dseq"))
	require.Nil(t, data.LocalVariables.ByName("f"))
}

func TestSetFlowRuleRejectsSecondCall(t *testing.T) {
	desc, err := NewIsotropicMisesPlasticFlow("Plasticity")
	require.NoError(t, err)
	require.NoError(t, SetFlowRule(desc, PlasticFlow, "f = seq-R0-H*p;\ndf_dseq=1;\ndf_dp=-H;\n", 1))
	require.Error(t, SetFlowRule(desc, PlasticFlow, "f = seq-R0-H*p;\n", 2))
}

func TestSetFlowRuleIntegratorContainsFlowRuleAndResidual(t *testing.T) {
	desc, err := NewIsotropicMisesPlasticFlow("Plasticity")
	require.NoError(t, err)
	require.NoError(t, SetFlowRule(desc, PlasticFlow, "f = seq-R0-H*p;\ndf_dseq=1;\ndf_dp=-H;\n", 1))

	cb := desc.Umbrella().CodeBlocks["Integrator"]
	require.Contains(t, cb.Text, "f = seq-R0-H*p;")
	require.Contains(t, cb.Text, "surf = f/young;")
	require.True(t, cb.Members["eel"])
	require.True(t, cb.Members["sig"])

	tangent := desc.Umbrella().CodeBlocks["TangentOperator"]
	require.Contains(t, tangent.Text, "CONSISTENTTANGENTOPERATOR")
}

func TestSchemeBuildsOverIsotropicMisesPlasticFlow(t *testing.T) {
	desc, err := NewIsotropicMisesPlasticFlow("Plasticity")
	require.NoError(t, err)
	require.NoError(t, SetFlowRule(desc, PlasticFlow, "f = seq-R0-H*p;\ndf_dseq=1;\ndf_dp=-H;\n", 1))

	scheme := implicit.Build(desc.Umbrella(), implicit.NewtonRaphson)
	require.Len(t, scheme.Blocks, 4) // {eel,p} x {eel,p}
	require.Len(t, scheme.PartialJacobianInvertOverloads, 3) // base + eel + p
}

func TestEmitProducesBehaviourHeaderWithFlowRuleBody(t *testing.T) {
	desc, err := NewIsotropicMisesPlasticFlow("Plasticity")
	require.NoError(t, err)
	require.NoError(t, SetFlowRule(desc, PlasticFlow, "f = seq-R0-H*p;\ndf_dseq=1;\ndf_dp=-H;\n", 1))

	outputs, err := emitter.Emit(desc, mfconfig.Default())
	require.NoError(t, err)
	var found bool
	for _, o := range outputs {
		if strings.HasSuffix(o.Path, "Behaviour.hxx") {
			require.Contains(t, o.Content, "f = seq-R0-H*p;")
			found = true
		}
	}
	require.True(t, found)
}

func TestLameFromYoungPoissonMatchesBulkModulusIdentity(t *testing.T) {
	young, nu := 210e9, 0.3
	lambda, mu := LameFromYoungPoisson(young, nu)
	K := BulkModulusFromYoungPoisson(young, nu)
	// K = λ + 2μ/3 is the standard identity relating the two parameter sets.
	require.InDelta(t, K, lambda+2.0*mu/3.0, 1e-3)
}
