package dsl

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/mferr"
)

// CodeBlockOptions is the parsed content of a "<...>" options list
// following a code-block keyword (spec.md §6).
type CodeBlockOptions struct {
	Policy      behaviour.InsertionPolicy
	Position    behaviour.Position
	Hypotheses  []hypothesis.Hypothesis
	Wildcard    bool   // ".+" was given instead of explicit hypotheses
	ExtraTokens []string
}

// ParseCodeBlockOptions parses the optional "< ... >" list preceding a code
// block's braced body: Append|Replace|Create, Body|AtBeginning|AtEnd,
// hypothesis identifiers or the quoted wildcard ".+", plus any
// block-specific free tokens (spec.md §6). Returns a default
// CodeBlockOptions with Policy=CreateOrAppend, Position=Body if no "<" is
// present (the defaults the teacher's equivalent handlers assume).
func ParseCodeBlockOptions(c *Cursor, handler string) (CodeBlockOptions, error) {
	opts := CodeBlockOptions{Policy: behaviour.CreateOrAppend, Position: behaviour.Body}
	tok, ok := c.Peek()
	if !ok || tok.Lexeme != "<" {
		return opts, nil
	}
	c.Advance()
	for {
		tok, ok := c.Peek()
		if !ok {
			return opts, mferr.New(mferr.SyntaxError, handler, "unterminated code-block options, expected '>'").At(c.File, c.Line())
		}
		if tok.Lexeme == ">" {
			c.Advance()
			return opts, nil
		}
		if tok.Lexeme == "," {
			c.Advance()
			continue
		}
		switch tok.Lexeme {
		case "Append":
			opts.Policy = behaviour.CreateOrAppend
			c.Advance()
		case "Replace":
			opts.Policy = behaviour.CreateOrReplace
			c.Advance()
		case "Create":
			opts.Policy = behaviour.Create
			c.Advance()
		case "Body":
			opts.Position = behaviour.Body
			c.Advance()
		case "AtBeginning":
			opts.Position = behaviour.AtBeginning
			c.Advance()
		case "AtEnd":
			opts.Position = behaviour.AtEnd
			c.Advance()
		case ".+":
			opts.Wildcard = true
			c.Advance()
		default:
			if h, err := hypothesis.Parse(tok.Lexeme); err == nil {
				opts.Hypotheses = append(opts.Hypotheses, h)
				c.Advance()
				continue
			}
			opts.ExtraTokens = append(opts.ExtraTokens, tok.Lexeme)
			c.Advance()
		}
	}
}

// TargetHypotheses resolves the hypotheses a code block's options apply
// to: the wildcard expands to every declared hypothesis, explicit
// hypotheses are used as-is, and no hypotheses at all means Undefined.
func (o CodeBlockOptions) TargetHypotheses(declared []hypothesis.Hypothesis) []hypothesis.Hypothesis {
	if o.Wildcard {
		return declared
	}
	if len(o.Hypotheses) > 0 {
		return o.Hypotheses
	}
	return []hypothesis.Hypothesis{hypothesis.Undefined}
}
