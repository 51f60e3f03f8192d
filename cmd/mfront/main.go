// Command mfront is the thin CLI entry point: it reads a .mfront source
// file, runs it through dsl.Process, lowers the result with emitter.Emit,
// and writes the generated headers/sources to disk. File discovery,
// include-path search and multi-file batches are out of scope (spec.md
// §1/§6) — this wraps the single-file pipeline the packages already
// implement, the way gofem's main.go wraps fem.NewFEM/Run around its own
// library packages.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/dsl"
	"github.com/cpmech/mfront/emitter"
	"github.com/cpmech/mfront/mfconfig"
	"github.com/cpmech/mfront/mflog"
)

var (
	debug      bool
	jacobianCr float64
	outputRoot string
	paramFile  string
	jsonLog    bool
)

var rootCmd = &cobra.Command{
	Use:   "mfront",
	Short: "MFront-style behaviour DSL front-end and code generator",
}

var generateCmd = &cobra.Command{
	Use:   "generate [file.mfront]",
	Short: "Parse a behaviour source file and emit its generated headers/sources",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&debug, "debug", false, "suppress line-number directives in emitted code blocks")
	generateCmd.Flags().Float64Var(&jacobianCr, "jacobian-criterion", mfconfig.Default().JacobianComparisonCriterion,
		"comparison criterion for mixed analytic/numerical Jacobian blocks")
	generateCmd.Flags().StringVarP(&outputRoot, "output", "o", ".", "root directory generated files are written under")
	generateCmd.Flags().StringVar(&paramFile, "parameter-file", "", "optional parameter override file, one 'name value' pair per line")
	generateCmd.Flags().BoolVar(&jsonLog, "json-log", false, "emit pedantic diagnostics as JSON instead of console text")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if jsonLog {
		mflog.SetOutput(os.Stdout, true)
	}

	file := args[0]
	src, err := io.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	cfg := mfconfig.Default()
	cfg.Debug = debug
	cfg.JacobianComparisonCriterion = jacobianCr
	cfg.OutputRoot = outputRoot

	desc := behaviour.NewDescription()

	// overrides must be recorded before Process parses the file: Process
	// runs ApplyParameterOverrides once, at end-of-file processing
	// (spec.md §4.4 Lifecycle), so anything set afterwards would be too
	// late to take effect.
	if paramFile != "" {
		overrides, err := emitter.ReadParameterFile(paramFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", paramFile, err)
		}
		for name, value := range overrides {
			desc.OverrideParameter(name, value)
		}
	}

	if err := dsl.Process(file, string(src), dsl.DefaultRegistry(), desc); err != nil {
		return fmt.Errorf("processing %s: %w", file, err)
	}

	outputs, err := emitter.Emit(desc, cfg)
	if err != nil {
		return fmt.Errorf("emitting %s: %w", file, err)
	}

	for _, o := range outputs {
		path := filepath.Join(outputRoot, o.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(o.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		mflog.Logger.Info().Str("path", path).Msg("wrote generated file")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
