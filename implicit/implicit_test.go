package implicit

import (
	"math"
	"testing"

	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/tsize"
	"github.com/stretchr/testify/require"
)

func buildMisesLikeData(t *testing.T) *behaviour.Data {
	t.Helper()
	data := behaviour.NewData(hypothesis.Tridimensional)
	eel := behaviour.NewVariable("StrainStensor", "eel", 1)
	require.NoError(t, data.AddVariable(behaviour.StateVariable, eel))
	p := behaviour.NewVariable("real", "p", 1)
	require.NoError(t, data.AddVariable(behaviour.StateVariable, p))
	return data
}

func TestBuildUnknownLayoutOffsetsAccumulate(t *testing.T) {
	data := buildMisesLikeData(t)
	layout := BuildUnknownLayout(data.IntegrationVariables)
	require.Len(t, layout.Variables, 2)

	offEel, ok := layout.OffsetOf("eel")
	require.True(t, ok)
	require.Equal(t, tsize.Size{}, offEel)

	offP, ok := layout.OffsetOf("p")
	require.True(t, ok)
	require.Equal(t, tsize.Size{NSTensor: 1}, offP)

	require.Equal(t, tsize.Size{NScalar: 1, NSTensor: 1}, layout.Total)
}

func TestBuildJacobianBlocksSizesAndSymbols(t *testing.T) {
	data := buildMisesLikeData(t)
	blocks := BuildJacobianBlocks(data.IntegrationVariables, data.NumericalJacobianBlocks)
	require.Len(t, blocks, 4) // 2x2 grid

	var deelDeel *JacobianBlock
	for i := range blocks {
		if blocks[i].Row.Name == "eel" && blocks[i].Column.Name == "eel" {
			deelDeel = &blocks[i]
		}
	}
	require.NotNil(t, deelDeel)
	require.Equal(t, "dfeel_ddeel", deelDeel.Symbol)
	require.False(t, deelDeel.Numerical)
}

func TestNumericalJacobianBlocksMarksRow(t *testing.T) {
	data := buildMisesLikeData(t)
	data.NumericalJacobianBlocks["p"] = true
	blocks := BuildJacobianBlocks(data.IntegrationVariables, data.NumericalJacobianBlocks)
	require.True(t, HasNumericalBlock(blocks))
	for _, b := range blocks {
		if b.Row.Name == "p" {
			require.True(t, b.Numerical)
		}
		if b.Row.Name == "eel" {
			require.False(t, b.Numerical)
		}
	}
}

func TestSolverCapabilities(t *testing.T) {
	require.True(t, NewtonRaphson.Capabilities().RequiresAnalyticJacobian)
	require.True(t, NewtonRaphsonNumericalJacobian.Capabilities().RequiresNumericalJacobian)
	require.True(t, PowellDogLegBroyden.Capabilities().UsesDogLeg)
	require.False(t, Broyden.Capabilities().RequiresAnalyticJacobian)
}

func TestParseSolverRoundTrip(t *testing.T) {
	for _, name := range []string{"NewtonRaphson", "Broyden", "PowellDogLeg_NewtonRaphson", "LevenbergMarquardt"} {
		s, err := ParseSolver(name)
		require.NoError(t, err)
		require.Equal(t, name, s.String())
	}
	_, err := ParseSolver("NotASolver")
	require.Error(t, err)
}

func TestBuildPartialJacobianInvertOverloads(t *testing.T) {
	data := buildMisesLikeData(t)
	overloads := BuildPartialJacobianInvertOverloads(data.IntegrationVariables)
	require.Len(t, overloads, 3) // base + 2 variables
	require.Equal(t, "getPartialJacobianInvert", overloads[0].Symbol)
	require.Equal(t, "getPartialJacobianInvert_eel", overloads[1].Symbol)
	require.Equal(t, "getPartialJacobianInvert_p", overloads[2].Symbol)
}

func TestBuildIntegrationVariablesDerivativesFunctors(t *testing.T) {
	data := buildMisesLikeData(t)
	temp := behaviour.NewVariable("temperature", "T", 1)
	require.NoError(t, data.AddVariable(behaviour.ExternalStateVariable, temp))
	functors := BuildIntegrationVariablesDerivativesFunctors(data)
	require.Len(t, functors, 1)
	require.Equal(t, "getIntegrationVariablesDerivatives_T", functors[0].Symbol)
}

func TestSchemeBuildCarriesDefaults(t *testing.T) {
	data := buildMisesLikeData(t)
	scheme := Build(data, NewtonRaphson)
	require.Equal(t, 1e-8, scheme.Epsilon)
	require.Equal(t, 0.5, scheme.Theta)
	require.Equal(t, 100, scheme.IterMax)
	require.True(t, scheme.RequiresJacobianDecomposition)
	require.False(t, scheme.UsesMixedJacobian())
}

func TestNumericalJacobianEntryMatchesAnalyticForLinearResidual(t *testing.T) {
	// f(x) = 3x - 5 => df/dx = 3 everywhere.
	f := func(x float64) float64 { return 3*x - 5 }
	numDeriv, err := NumericalJacobianEntry(f, 2.0, 1e-3)
	require.NoError(t, err)
	require.True(t, math.Abs(numDeriv-3.0) < 1e-6)
	require.True(t, CompareJacobianEntry(3.0, numDeriv, 1e-2))
}
