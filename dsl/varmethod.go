package dsl

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
)

// ParseVariableMethod parses "name.method(args);" (spec.md §4.3's variable
// method parsing): after a variable name, a '.' introduces one of
// setGlossaryName, setEntryName, setDefaultValue,
// setMaximumIncrementValuePerIteration or setNormalisationFactor. data is
// searched across every category for the named variable. Errors cite the
// first invalid method, per spec.md §4.3.
func ParseVariableMethod(c *Cursor, data *behaviour.Data, name string) error {
	const handler = "variableMethod"
	v := lookupVariable(data, name)
	if v == nil {
		return mferr.New(mferr.UnknownEntity, handler, "variable %q is not declared", name)
	}
	if err := c.Expect(handler, "."); err != nil {
		return err
	}
	method, err := c.ExpectIdentifier(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, "("); err != nil {
		return err
	}

	switch method {
	case "setGlossaryName":
		s, err := c.ExpectString(handler)
		if err != nil {
			return err
		}
		if err := v.SetGlossaryName(s); err != nil {
			return err
		}
	case "setEntryName":
		s, err := c.ExpectString(handler)
		if err != nil {
			return err
		}
		if err := v.SetEntryName(s); err != nil {
			return err
		}
	case "setDefaultValue":
		values, err := parseDefaultValue(c, handler)
		if err != nil {
			return err
		}
		if err := v.SetDefaultValue(values); err != nil {
			return err
		}
	case "setMaximumIncrementValuePerIteration":
		x, err := c.ExpectNumber(handler)
		if err != nil {
			return err
		}
		v.SetMaximumIncrementValuePerIteration(x)
	case "setNormalisationFactor":
		expr, err := parseExpressionUntil(c, handler, ")")
		if err != nil {
			return err
		}
		if data.IntegrationVariables.ByName(name) == nil {
			return mferr.New(mferr.InconsistentDeclaration, handler,
				"normalisation factor can only be set on an integration variable, found %q", name)
		}
		v.SetNormalisationFactor(expr)
	default:
		return mferr.New(mferr.UnknownEntity, handler, "unknown variable method %q", method)
	}

	if err := c.Expect(handler, ")"); err != nil {
		return err
	}
	return c.Expect(handler, ";")
}

// parseExpressionUntil consumes tokens up to (but not including) the
// closing lexeme, concatenating their lexemes with single spaces. Used for
// free-form expression arguments like setNormalisationFactor(expr).
func parseExpressionUntil(c *Cursor, handler, closing string) (string, error) {
	var out string
	for {
		tok, ok := c.Peek()
		if !ok {
			return "", mferr.New(mferr.SyntaxError, handler, "unterminated expression, expected %q", closing).At(c.File, c.Line())
		}
		if tok.Lexeme == closing {
			return out, nil
		}
		if out != "" {
			out += " "
		}
		out += tok.Lexeme
		c.Advance()
	}
}

func lookupVariable(data *behaviour.Data, name string) *behaviour.Variable {
	lists := []behaviour.List{
		data.MaterialProperties, data.IntegrationVariables, data.AuxiliaryStateVariables,
		data.ExternalStateVariables, data.LocalVariables, data.Parameters, data.StaticVariables,
		data.InitialiseFunctionVariables, data.PostProcessingVariables,
	}
	for _, l := range lists {
		if v := l.ByName(name); v != nil {
			return v
		}
	}
	return nil
}
