// Package mfconfig bundles the cross-cutting switches spec.md implies are
// configuration rather than per-behaviour state: debug mode (§4.6 suppresses
// #line-equivalent directives), the default Jacobian comparison criterion
// (§4.5), and the output root for generated files (§6).
package mfconfig

// Options configures a single generation run.
type Options struct {
	// Debug suppresses line-number directives in emitted code blocks.
	Debug bool

	// JacobianComparisonCriterion is the default threshold above which a
	// mixed analytic/numerical Jacobian comparison reports a warning.
	JacobianComparisonCriterion float64

	// OutputRoot is the root directory generated files are written under.
	// Files are written directly below it at the flat relative paths
	// emitter.Emit returns; no include/TFEL/Material or src subdirectories
	// are created.
	OutputRoot string
}

// Default returns the numerical defaults spec.md §4.5 names.
func Default() Options {
	return Options{
		Debug:                       false,
		JacobianComparisonCriterion: 1e-2,
		OutputRoot:                  ".",
	}
}
