package behaviour

// ModelDescription is the embedded description obtained from an external
// model DSL invocation (spec.md §3; the separate DSLs for models and
// material properties are out of scope per spec.md §1 -- only their
// resulting description is read and embedded here). Ownership is shared: a
// ModelDescription may be referenced by several StressFreeExpansion
// entries, so it is held by pointer and never copied (spec.md §9's
// "cyclic references" note: a shared handle, not a back-pointer).
type ModelDescription struct {
	File        string
	ClassName   string
	Outputs     List
	Inputs      List
	Parameters  List
}

// MaterialPropertyExpression is a material-property expression embedded
// directly in a Behaviour Description (e.g. elastic stiffness, thermal
// expansion coefficient), as opposed to a full external model file.
type MaterialPropertyExpression struct {
	Name       string
	Expression string
	Model      *ModelDescription // non-nil if backed by an external @MaterialLaw file
}
