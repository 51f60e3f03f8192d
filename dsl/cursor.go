// Package dsl implements the DSL Base (spec.md §4.3): keyword dispatch,
// call-back registry, hook registry, name reservation, modelling-hypothesis
// parsing, code-block options parsing, variable-list parsing and
// variable-method parsing. It is grounded on the registry-map pattern the
// teacher uses for model lookup (msolid/solid.go's allocators/_models
// maps), generalised from "model name -> constructor" to "keyword -> handler".
package dsl

import (
	"github.com/cpmech/mfront/mferr"
	"github.com/cpmech/mfront/token"
)

// Cursor advances monotonically over a token stream. Each keyword handler
// may look ahead arbitrarily but must leave the cursor positioned after its
// terminator (spec.md §5).
type Cursor struct {
	File   string
	Tokens []token.Token
	pos    int
}

// NewCursor wraps a token stream produced by the tokeniser.
func NewCursor(file string, tokens []token.Token) *Cursor {
	return &Cursor{File: file, Tokens: tokens}
}

// Done reports whether the cursor has consumed every token.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.Tokens)
}

// Peek returns the current token without consuming it.
func (c *Cursor) Peek() (token.Token, bool) {
	if c.Done() {
		return token.Token{}, false
	}
	return c.Tokens[c.pos], true
}

// PeekAt returns the token offset tokens ahead of the cursor.
func (c *Cursor) PeekAt(offset int) (token.Token, bool) {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.Tokens) {
		return token.Token{}, false
	}
	return c.Tokens[idx], true
}

// Advance consumes and returns the current token.
func (c *Cursor) Advance() (token.Token, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Line returns the line of the current token, or the line of the last
// consumed token if the cursor is exhausted (used for end-of-file errors).
func (c *Cursor) Line() int {
	if tok, ok := c.Peek(); ok {
		return tok.Line
	}
	if c.pos > 0 {
		return c.Tokens[c.pos-1].Line
	}
	return 0
}

// Expect consumes the current token if its lexeme matches want, erroring
// with SyntaxError otherwise.
func (c *Cursor) Expect(handler, want string) error {
	tok, ok := c.Advance()
	if !ok {
		return mferr.New(mferr.SyntaxError, handler, "expected %q, found end of input", want).At(c.File, c.Line())
	}
	if tok.Lexeme != want {
		return mferr.New(mferr.SyntaxError, handler, "expected %q, found %q", want, tok.Lexeme).At(c.File, tok.Line)
	}
	return nil
}

// ExpectIdentifier consumes and returns the current token if it is an
// identifier.
func (c *Cursor) ExpectIdentifier(handler string) (string, error) {
	tok, ok := c.Advance()
	if !ok {
		return "", mferr.New(mferr.SyntaxError, handler, "expected an identifier, found end of input").At(c.File, c.Line())
	}
	if tok.Kind != token.Identifier {
		return "", mferr.New(mferr.SyntaxError, handler, "expected an identifier, found %q", tok.Lexeme).At(c.File, tok.Line)
	}
	return tok.Lexeme, nil
}

// ExpectString consumes and returns the current token if it is a string
// literal.
func (c *Cursor) ExpectString(handler string) (string, error) {
	tok, ok := c.Advance()
	if !ok {
		return "", mferr.New(mferr.SyntaxError, handler, "expected a string literal, found end of input").At(c.File, c.Line())
	}
	if tok.Kind != token.StringLiteral {
		return "", mferr.New(mferr.SyntaxError, handler, "expected a string literal, found %q", tok.Lexeme).At(c.File, tok.Line)
	}
	return tok.Lexeme, nil
}

// ExpectNumber consumes and parses the current token as a float64.
func (c *Cursor) ExpectNumber(handler string) (float64, error) {
	tok, ok := c.Advance()
	if !ok {
		return 0, mferr.New(mferr.SyntaxError, handler, "expected a number, found end of input").At(c.File, c.Line())
	}
	if tok.Kind != token.Number {
		return 0, mferr.New(mferr.SyntaxError, handler, "expected a number, found %q", tok.Lexeme).At(c.File, tok.Line)
	}
	v, err := parseFloat(tok.Lexeme)
	if err != nil {
		return 0, mferr.New(mferr.SyntaxError, handler, "invalid numeric literal %q", tok.Lexeme).At(c.File, tok.Line)
	}
	return v, nil
}

// AtTerminator reports whether the current token is the statement terminator ';'.
func (c *Cursor) AtTerminator() bool {
	tok, ok := c.Peek()
	return ok && tok.Lexeme == ";"
}
