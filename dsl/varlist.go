package dsl

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
	"github.com/cpmech/mfront/token"
	"github.com/cpmech/mfront/tsize"
)

// ParseVariableList parses "[<type>] name1[n] [= default], name2, ...;"
// the shape spec.md §4.3 describes for @Parameter, @StateVariable,
// @AuxiliaryStateVariable, @ExternalStateVariable, @IntegrationVariable,
// @LocalVariable and @MaterialProperty. defaultType is used when no type
// token precedes the first name (spec.md: "an optional type (default
// real)").
func ParseVariableList(c *Cursor, handler, defaultType string) ([]*behaviour.Variable, error) {
	typeName := defaultType
	if tok, ok := c.Peek(); ok && tok.Kind == token.Identifier && tsize.IsSupportedType(tok.Lexeme) {
		typeName, _ = c.ExpectIdentifier(handler)
	}

	var vars []*behaviour.Variable
	for {
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return nil, err
		}
		line := c.Line()
		v := behaviour.NewVariable(typeName, name, line)

		if tok, ok := c.Peek(); ok && tok.Lexeme == "[" {
			c.Advance()
			szTok, err := c.ExpectNumber(handler)
			if err != nil {
				return nil, err
			}
			if szTok < 1 {
				return nil, mferr.New(mferr.InconsistentDeclaration, handler, "array size must be >= 1, found %v", szTok)
			}
			v.ArraySize = int(szTok)
			if err := c.Expect(handler, "]"); err != nil {
				return nil, err
			}
		}

		if tok, ok := c.Peek(); ok && tok.Lexeme == "=" {
			c.Advance()
			values, err := parseDefaultValue(c, handler)
			if err != nil {
				return nil, err
			}
			if err := v.SetDefaultValue(values); err != nil {
				return nil, err
			}
		}

		vars = append(vars, v)

		tok, ok := c.Peek()
		if !ok {
			return nil, mferr.New(mferr.SyntaxError, handler, "unterminated variable list, expected ';'").At(c.File, c.Line())
		}
		if tok.Lexeme == "," {
			c.Advance()
			continue
		}
		if tok.Lexeme == ";" {
			c.Advance()
			break
		}
		return nil, mferr.New(mferr.SyntaxError, handler, "expected ',' or ';', found %q", tok.Lexeme).At(c.File, tok.Line)
	}
	return vars, nil
}

// parseDefaultValue parses "x" (scalar), "{x,y,z}" or "(x)" (array), per
// spec.md §6's "array literals accept {x,y,z} or (x)".
func parseDefaultValue(c *Cursor, handler string) ([]float64, error) {
	tok, ok := c.Peek()
	if !ok {
		return nil, mferr.New(mferr.SyntaxError, handler, "expected a default value, found end of input").At(c.File, c.Line())
	}
	switch tok.Lexeme {
	case "{":
		return parseBracedList(c, handler, "{", "}")
	case "(":
		return parseBracedList(c, handler, "(", ")")
	default:
		v, err := c.ExpectNumber(handler)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}
}

func parseBracedList(c *Cursor, handler, open, close string) ([]float64, error) {
	if err := c.Expect(handler, open); err != nil {
		return nil, err
	}
	var values []float64
	for {
		v, err := c.ExpectNumber(handler)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		tok, ok := c.Peek()
		if !ok {
			return nil, mferr.New(mferr.SyntaxError, handler, "unterminated list, expected %q", close).At(c.File, c.Line())
		}
		if tok.Lexeme == "," {
			c.Advance()
			continue
		}
		if tok.Lexeme == close {
			c.Advance()
			break
		}
		return nil, mferr.New(mferr.SyntaxError, handler, "expected ',' or %q, found %q", close, tok.Lexeme).At(c.File, tok.Line)
	}
	return values, nil
}
