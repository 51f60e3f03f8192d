package dsl

import (
	"testing"

	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/brick"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/iface"
	"github.com/cpmech/mfront/token"
	"github.com/stretchr/testify/require"
)

const minimalElasticitySource = `
@DSL Implicit;
@Behaviour Elasticity;
@Author John Doe;
@Date 2013 - 11 - 08;
@Description
{
	A minimal isotropic elastic behaviour.
}
@ModellingHypothesis TRIDIMENSIONAL;
@Epsilon 1.e-12;
@Theta 1;

@MaterialProperty real young;
young.setGlossaryName("YoungModulus");
@MaterialProperty real nu;
nu.setGlossaryName("PoissonRatio");

@StateVariable StrainStensor eel;
eel.setGlossaryName("ElasticStrain");

@Gradient StrainStensor eto;
@Flux StressStensor sig;

@Integrator
{
	sig = young * eel;
}
`

func dslRegistryWithDSLKeyword() *Registry {
	r := DefaultRegistry()
	r.Register("@DSL", true, func(c *Cursor, desc *behaviour.Description) error {
		_, err := c.ExpectIdentifier("@DSL")
		if err != nil {
			return err
		}
		return c.Expect("@DSL", ";")
	})
	return r
}

func TestProcessMinimalIsotropicElasticity(t *testing.T) {
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("Elasticity.mfront", minimalElasticitySource, r, desc)
	require.NoError(t, err)

	require.Equal(t, "Elasticity", desc.ClassName)
	require.True(t, desc.Hypotheses[hypothesis.Tridimensional])

	data := desc.Umbrella()
	young := data.MaterialProperties.ByName("young")
	require.NotNil(t, young)
	require.Equal(t, "YoungModulus", young.GlossaryName)

	eel := data.IntegrationVariables.ByName("eel")
	require.NotNil(t, eel)
	require.True(t, data.IsStateVariable("eel"))

	require.Len(t, data.MainVariables, 1)
	require.Equal(t, "eto", data.MainVariables[0].Gradient.Name)
	require.Equal(t, "sig", data.MainVariables[0].ThermodynamicForce.Name)

	require.True(t, data.HasCodeBlock("Integrator"))
}

func TestProcessRejectsUnknownVariableInBounds(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@Bounds unknownVar in [0:*];
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("Bad.mfront", src, r, desc)
	require.Error(t, err)
}

func TestProcessRejectsDuplicateVariableName(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@MaterialProperty real young;
@MaterialProperty real young;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("Dup.mfront", src, r, desc)
	require.Error(t, err)
}

func TestProcessRejectsVariableDeclaredAfterCodeBlock(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@Gradient StrainStensor eto;
@Flux StressStensor sig;
@Integrator
{
	sig = eto;
}
@MaterialProperty real young;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("TooLate.mfront", src, r, desc)
	require.Error(t, err)
}

type recordingBrick struct {
	name    string
	options map[string]string
	calls   *[]string
}

func (b *recordingBrick) Name() string { return b.name }

func (b *recordingBrick) CompleteVariableDeclaration(desc *behaviour.Description) error {
	*b.calls = append(*b.calls, "complete")
	return nil
}

func (b *recordingBrick) EndTreatment(desc *behaviour.Description) error {
	*b.calls = append(*b.calls, "end")
	return nil
}

func (b *recordingBrick) ExtendKeywords(register func(keyword string, handler brick.KeywordHandler)) {
	register("@Demo", func(desc *behaviour.Description, args []string) error {
		*b.calls = append(*b.calls, "keyword:"+b.options["flavour"])
		return nil
	})
}

type recordingInterface struct {
	name      string
	handedOff *bool
}

func (i *recordingInterface) Name() string { return i.name }

func (i *recordingInterface) HandOff(desc *behaviour.Description) error {
	*i.handedOff = true
	return nil
}

func TestProcessBrickAndInterfaceLifecycleOrdering(t *testing.T) {
	calls := &[]string{}
	brick.Register("stdbrick", func(options map[string]string) (brick.Brick, error) {
		return &recordingBrick{name: "stdbrick", options: options, calls: calls}, nil
	})
	handedOff := false
	iface.Register("stdiface", func() (iface.Interface, error) {
		return &recordingInterface{name: "stdiface", handedOff: &handedOff}, nil
	})

	const src = `
@Behaviour Elasticity;
@Brick "stdbrick" { flavour standard };
@Demo;
@Interface "stdiface";
@Gradient StrainStensor eto;
@Flux StressStensor sig;
@Integrator
{
	sig = eto;
}
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("Brick.mfront", src, r, desc)
	require.NoError(t, err)

	require.Equal(t, []string{"keyword:standard", "complete", "end"}, *calls)
	require.True(t, handedOff)
}

func TestProcessAxialGrowthRejectsIsotropicSymmetry(t *testing.T) {
	const src = `
@Behaviour Swelling;
@ExternalStateVariable real esv;
@AxialGrowth esv;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("AxialGrowth.mfront", src, r, desc)
	require.Error(t, err)
}

func TestProcessAxialGrowthAcceptsOrthotropicSymmetry(t *testing.T) {
	const src = `
@Behaviour Swelling;
@OrthotropicBehaviour;
@ExternalStateVariable real esv;
@AxialGrowth esv;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("AxialGrowth.mfront", src, r, desc)
	require.NoError(t, err)

	data := desc.Umbrella()
	require.Len(t, data.StressFreeExpansions, 1)
	require.Equal(t, "axialgrowth", data.StressFreeExpansions[0].Kind)
	require.Equal(t, "esv", data.StressFreeExpansions[0].VariableName)
}

func TestProcessSwellingRejectsUndeclaredVariable(t *testing.T) {
	const src = `
@Behaviour Swelling;
@Swelling unknownEsv;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("Swelling.mfront", src, r, desc)
	require.Error(t, err)
}

func TestDefaultRegistryProcessesDSLKeyword(t *testing.T) {
	r := DefaultRegistry()
	desc := behaviour.NewDescription()
	err := Process("Elasticity.mfront", minimalElasticitySource, r, desc)
	require.NoError(t, err)
	require.Equal(t, behaviour.ImplicitScheme, desc.Scheme)
}

func TestDSLRejectsUnknownSchemeName(t *testing.T) {
	const src = `@DSL NotARealScheme;`
	r := DefaultRegistry()
	desc := behaviour.NewDescription()
	err := Process("Bad.mfront", src, r, desc)
	require.Error(t, err)
}

func TestProcessUseQtAndIsTangentOperatorSymmetric(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@UseQt true;
@IsTangentOperatorSymmetric;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("UseQt.mfront", src, r, desc))
	require.True(t, desc.UseQt)
	require.True(t, desc.Umbrella().IsTangentOperatorSymmetric)
}

func TestProcessElasticMaterialPropertiesNamesIsotropicPair(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@ElasticMaterialProperties{210e9, 0.3};
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("Elastic.mfront", src, r, desc))
	require.Len(t, desc.ElasticMaterialProperties, 2)
	require.Equal(t, "YoungModulus", desc.ElasticMaterialProperties[0].Name)
	require.Equal(t, "PoissonRatio", desc.ElasticMaterialProperties[1].Name)
	require.Equal(t, "0.3", desc.ElasticMaterialProperties[1].Expression)
}

func TestProcessHillTensorRequiresSixCoefficients(t *testing.T) {
	const src = `
@Behaviour Anisotropic;
@HillTensor H = {1, 1, 1, 3, 3, 3};
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("Hill.mfront", src, r, desc))
	require.Len(t, desc.HillTensors, 1)
	require.Equal(t, "H", desc.HillTensors[0].Name)
	require.Equal(t, "3", desc.HillTensors[0].Coefficients[3])

	const bad = `
@Behaviour Anisotropic;
@HillTensor H = {1, 1, 1};
`
	desc2 := behaviour.NewDescription()
	err := Process("HillBad.mfront", bad, dslRegistryWithDSLKeyword(), desc2)
	require.Error(t, err)
}

func TestProcessAdditionalTangentOperatorBlockAppendsToDefault(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@Gradient StrainStensor eto;
@Flux StressStensor sig;
@AdditionalTangentOperatorBlock{dsig_ddeto};
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("Tangent.mfront", src, r, desc))
	data := desc.Umbrella()
	require.Len(t, data.TangentOperatorBlock, 2)
	last := data.TangentOperatorBlock[len(data.TangentOperatorBlock)-1]
	require.Equal(t, "sig", last.Row.Name)
	require.Equal(t, "eto", last.Column.Name)
}

func TestProcessIntegerConstant(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@IntegerConstant N = 3;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("IntConst.mfront", src, r, desc))
	require.Len(t, desc.IntegerConstants, 1)
	require.Equal(t, "N", desc.IntegerConstants[0].Name)
	require.Equal(t, int64(3), desc.IntegerConstants[0].Value)
}

func TestProcessMaterialLawDerivesClassNameFromPath(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@MaterialLaw "materials/Norton.mfront";
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("Law.mfront", src, r, desc))
	require.Len(t, desc.EmbeddedModels, 1)
	require.Equal(t, "Norton", desc.EmbeddedModels[0].ClassName)
}

func TestProcessSlipSystemsAndInteractionMatrix(t *testing.T) {
	const src = `
@Behaviour Crystal;
@CrystalStructure FCC;
@SlipSystem <1,1,1>{1,-1,0};
@SlipSystems{<1,0,0>{0,1,1}, <0,1,0>{1,0,1}};
@InteractionMatrix{1, 1, 2};
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("Crystal.mfront", src, r, desc))
	require.Equal(t, behaviour.FCC, desc.CrystalStructure.Structure)
	require.Len(t, desc.CrystalStructure.Families, 2)
	require.Len(t, desc.CrystalStructure.Families[0], 1)
	require.Len(t, desc.CrystalStructure.Families[1], 2)
	require.Equal(t, [3]float64{1, -1, 0}, desc.CrystalStructure.Families[0][0].Direction)
	require.Equal(t, []float64{1, 1, 2}, desc.InteractionMatrix)
}

func TestProcessInitializeRejectsDuplicateID(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@Initialize<Setup>{
	x = 1;
}
@Initialize<Setup>{
	x = 2;
}
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	err := Process("Init.mfront", src, r, desc)
	require.Error(t, err)
}

func TestProcessAlgorithmStoresSolverName(t *testing.T) {
	const src = `
@Behaviour Elasticity;
@Algorithm NewtonRaphson_NumericalJacobian;
`
	r := dslRegistryWithDSLKeyword()
	desc := behaviour.NewDescription()
	require.NoError(t, Process("Algo.mfront", src, r, desc))
	require.Equal(t, "NewtonRaphson_NumericalJacobian", desc.Umbrella().Algorithm)
}

func TestParseCodeBlockOptionsPolicyAndPosition(t *testing.T) {
	tokens, err := token.NewLexer("t", "<Replace, AtEnd>").Tokenize()
	require.NoError(t, err)
	c := NewCursor("t", tokens)
	opts, err := ParseCodeBlockOptions(c, "@Integrator")
	require.NoError(t, err)
	require.Equal(t, behaviour.CreateOrReplace, opts.Policy)
	require.Equal(t, behaviour.AtEnd, opts.Position)
}
