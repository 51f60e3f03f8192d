package behaviour

// MainVariable is one (gradient, thermodynamic-force) pair (spec.md §3).
// A gradient may be "increment-known" (the increment is stored) or not
// (the two endpoint values are stored).
type MainVariable struct {
	Gradient           *Variable
	ThermodynamicForce *Variable
	IncrementKnown     bool
}

// PendingMainVariables accumulates @Gradient/@ThermodynamicForce/@Flux
// declarations until both lists have at least one entry, at which point
// dsl pops one from each and calls Data.AddMainVariable (spec.md §4.3).
type PendingMainVariables struct {
	Gradients           []*Variable
	ThermodynamicForces []*Variable
}

// PushGradient appends to the unfinished gradient list.
func (p *PendingMainVariables) PushGradient(v *Variable) {
	p.Gradients = append(p.Gradients, v)
}

// PushThermodynamicForce appends to the unfinished force list.
func (p *PendingMainVariables) PushThermodynamicForce(v *Variable) {
	p.ThermodynamicForces = append(p.ThermodynamicForces, v)
}

// Pop pops one gradient and one force off the front of each list when both
// are non-empty, returning ok=false otherwise. This keeps the invariant
// spec.md §8 property 4 names: |gradients_unpaired| * |forces_unpaired| = 0.
func (p *PendingMainVariables) Pop() (gradient, force *Variable, ok bool) {
	if len(p.Gradients) == 0 || len(p.ThermodynamicForces) == 0 {
		return nil, nil, false
	}
	gradient = p.Gradients[0]
	force = p.ThermodynamicForces[0]
	p.Gradients = p.Gradients[1:]
	p.ThermodynamicForces = p.ThermodynamicForces[1:]
	return gradient, force, true
}

// TangentOperatorPair is one (row, column) entry of a Tangent Operator
// Block (spec.md §3).
type TangentOperatorPair struct {
	Row    *Variable // a thermodynamic force or integration variable
	Column *Variable // a gradient or external state variable
}

// TangentOperatorBlock is an ordered list of row/column pairs. The default
// block is constructed from the main variables by DefaultTangentOperatorBlock.
type TangentOperatorBlock []TangentOperatorPair

// DefaultTangentOperatorBlock builds the default tangent-operator block
// from a behaviour's main variables: each force differentiated against its
// paired gradient, matching spec.md §3's "The default list is constructed
// from main variables."
func DefaultTangentOperatorBlock(mains []MainVariable) TangentOperatorBlock {
	block := make(TangentOperatorBlock, 0, len(mains))
	for _, mv := range mains {
		block = append(block, TangentOperatorPair{Row: mv.ThermodynamicForce, Column: mv.Gradient})
	}
	return block
}
