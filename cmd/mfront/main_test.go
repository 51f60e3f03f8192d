package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/dsl"
	"github.com/cpmech/mfront/emitter"
	"github.com/cpmech/mfront/mfconfig"
)

const minimalSource = `
@Behaviour Elasticity;
@Gradient StrainStensor eto;
@Flux StressStensor sig;
@MaterialProperty real young;
@Integrator
{
	sig = young * eto;
}
`

// TestGeneratePipelineWritesOutputs exercises the same dsl.Process ->
// emitter.Emit -> disk-write pipeline runGenerate wires, without going
// through cobra's argument parsing.
func TestGeneratePipelineWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Elasticity.mfront")
	require.NoError(t, os.WriteFile(src, []byte(minimalSource), 0o644))

	desc := behaviour.NewDescription()
	require.NoError(t, dsl.Process(src, minimalSource, dsl.DefaultRegistry(), desc))

	outputs, err := emitter.Emit(desc, mfconfig.Default())
	require.NoError(t, err)
	require.NotEmpty(t, outputs)

	outDir := filepath.Join(dir, "out")
	for _, o := range outputs {
		path := filepath.Join(outDir, o.Path)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(o.Content), 0o644))
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func TestGenerateCmdRejectsWrongArgCount(t *testing.T) {
	err := generateCmd.Args(generateCmd, []string{})
	require.Error(t, err)
	err = generateCmd.Args(generateCmd, []string{"a.mfront", "b.mfront"})
	require.Error(t, err)
	err = generateCmd.Args(generateCmd, []string{"a.mfront"})
	require.NoError(t, err)
}
