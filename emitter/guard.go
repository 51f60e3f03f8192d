// Package emitter implements code emission (spec.md §4.6): the three
// per-behaviour headers (BehaviourData, IntegrationData, Behaviour), an
// optional source file, include guards, namespace wrapping, code-block
// preamble/epilogue, parameter emission and the parameter-file reader. It
// is grounded on original_source/mfront/src/ImplicitDSLBase.cxx for exact
// emitted-code shape, and on the teacher's io.Ff/bytes.Buffer assembly
// idiom (tools/Msh2vtu.go) for how output is built up and flushed.
package emitter

import "strings"

// IncludeGuard renders the "LIB_TFELMATERIAL_<UPPER>_<SUFFIX>_HXX" macro
// name spec.md §4.6 names for a header of the given suffix
// ("BEHAVIOUR_DATA", "INTEGRATION_DATA", "HXX", ...).
func IncludeGuard(className, suffix string) string {
	return "LIB_TFELMATERIAL_" + strings.ToUpper(className) + "_" + strings.ToUpper(suffix) + "_HXX"
}
