package dsl

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
	"github.com/cpmech/mfront/token"
)

// DefaultRegistry returns a Registry with the minimal keyword set spec.md §6
// names wired in (spec.md §4.3).
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterCommonKeywords(r)
	return r
}

// Process tokenises src and runs the "@"-keyword dispatch loop against r,
// mutating desc in place, then runs the end-of-file consistency phases
// (spec.md §4.3's completeVariableDeclaration and
// endsInputFileProcessing). At top level a comment, a keyword ("@" followed
// by its name) or a bare identifier starting a variable-method statement
// ("name.method(...);") is accepted; any other token is a syntax error.
func Process(file, src string, r *Registry, desc *behaviour.Description) error {
	tokens, err := token.NewLexer(file, src).Tokenize()
	if err != nil {
		return err
	}
	c := NewCursor(file, tokens)
	for !c.Done() {
		tok, _ := c.Peek()
		if tok.Kind == token.Comment {
			c.Advance()
			continue
		}
		if tok.Kind == token.Identifier {
			// a bare identifier at top level is a variable-method statement,
			// e.g. "young.setGlossaryName(...);" (spec.md §4.3).
			name := tok.Lexeme
			c.Advance()
			if err := ParseVariableMethod(c, desc.Umbrella(), name); err != nil {
				return err
			}
			continue
		}
		if len(tok.Lexeme) == 0 || tok.Lexeme[0] != '@' {
			return mferr.New(mferr.SyntaxError, "process", "expected a keyword, found %q", tok.Lexeme).At(file, tok.Line)
		}
		keyword := tok.Lexeme
		c.Advance()
		if keyword == "@" {
			// the tokeniser emits "@" as its own punctuation token; the
			// keyword's name is the identifier right after it.
			name, err := c.ExpectIdentifier("process")
			if err != nil {
				return err
			}
			keyword += name
		}
		if err := r.Dispatch(keyword, c, desc); err != nil {
			return err
		}
	}
	return endsInputFileProcessing(desc)
}

// completeVariableDeclaration applies declaration-time derived values that
// must be resolved once every declaration for a hypothesis is known: here,
// assigning a default tangent operator block for hypotheses where none was
// derived via a @Gradient/@ThermodynamicForce pair (spec.md §4.4).
func completeVariableDeclaration(data *behaviour.Data) {
	if len(data.TangentOperatorBlock) == 0 && len(data.MainVariables) > 0 {
		data.TangentOperatorBlock = behaviour.DefaultTangentOperatorBlock(data.MainVariables)
	}
}

// endsInputFileProcessing runs the end-of-file consistency phases spec.md
// §4.4's Lifecycle names: completing variable declarations for every
// specialised hypothesis and the umbrella, applying parameter overrides
// recorded before parsing began, and validating the cross-cutting
// invariants that can only be checked once every keyword has run.
func endsInputFileProcessing(desc *behaviour.Description) error {
	if err := desc.RunBricksCompleteVariableDeclaration(); err != nil {
		return err
	}
	completeVariableDeclaration(desc.Umbrella())
	for _, h := range desc.SpecialisedHypotheses() {
		completeVariableDeclaration(desc.Data(h))
	}
	desc.ApplyParameterOverrides()
	if err := desc.CheckStiffnessTensorInvariant(); err != nil {
		return err
	}
	if err := desc.CheckThermalExpansionInvariant(); err != nil {
		return err
	}
	if err := desc.CheckPlaneStressStiffnessChoice(); err != nil {
		return err
	}
	usesOrthotropicSFE := len(desc.HillTensors) > 0 || desc.Symmetry == behaviour.Orthotropic && desc.ComputeThermalExpansion
	if err := desc.CheckOrthotropicAxesConvention(usesOrthotropicSFE); err != nil {
		return err
	}
	if err := desc.RunBricksEndTreatment(); err != nil {
		return err
	}
	return desc.RunInterfaceHandOff()
}
