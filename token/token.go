// Package token implements the tokeniser (spec.md §4.2): a flat ordered
// stream of lexical tokens with source positions, a unicode-identifier
// mangling function, and positional errors.
package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cpmech/mfront/mferr"
)

// Kind classifies a token's lexical category.
type Kind int

const (
	Identifier Kind = iota
	Number
	Punctuation
	StringLiteral
	Comment
	EOF
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Number:
		return "Number"
	case Punctuation:
		return "Punctuation"
	case StringLiteral:
		return "StringLiteral"
	case Comment:
		return "Comment"
	case EOF:
		return "EOF"
	}
	return "Unknown"
}

// Flag distinguishes a token produced by standard scanning from one that
// originated inside a string literal (spec.md §4.2's {standard,string}).
type Flag int

const (
	Standard Flag = iota
	StringFlag
)

// Token is one lexical unit with its source position.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Flag    Flag
	Comment string // set when Kind == Comment
}

// manglePrefix marks a mangled unicode placeholder so it cannot collide
// with a user-written ASCII identifier.
const manglePrefix = "_u"

// manglingTable maps the mangled ASCII placeholder back to the original
// unicode rune sequence, populated as Mangle is called. This is the
// "reverse table" spec.md §4.2 requires so the emitter can restore the
// visible form.
var manglingTable = map[string]string{}

// Mangle maps an identifier containing unicode symbols (e.g. "σ_eq") to a
// pure-ASCII placeholder ("_u03c3_eq") usable as a lookup key. ASCII
// identifiers pass through unchanged. The mapping is stable (idempotent)
// and recorded for Unmangle.
func Mangle(name string) string {
	if isASCII(name) {
		return name
	}
	var b strings.Builder
	b.WriteString(manglePrefix)
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		b.WriteString(hexRune(r))
	}
	mangled := b.String()
	manglingTable[mangled] = name
	return mangled
}

// Unmangle restores the original unicode form of a mangled placeholder, or
// returns the input unchanged if it was never mangled.
func Unmangle(mangled string) string {
	if original, ok := manglingTable[mangled]; ok {
		return original
	}
	return mangled
}

func isASCII(s string) bool {
	for _, r := range s {
		if r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func hexRune(r rune) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 0, 4)
	v := uint32(r)
	for shift := 12; shift >= 0; shift -= 4 {
		buf = append(buf, hexDigits[(v>>uint(shift))&0xF])
	}
	return string(buf)
}

// Lexer scans a UTF-8 source into a flat token stream.
type Lexer struct {
	file   string
	src    []rune
	pos    int
	line   int
	tokens []Token
}

// NewLexer builds a Lexer over src, attributing errors to file.
func NewLexer(file, src string) *Lexer {
	return &Lexer{file: file, src: []rune(src), line: 1}
}

// Tokenize runs the scanner to completion and returns the flat token
// stream, or the first error encountered.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF {
			break
		}
		l.tokens = append(l.tokens, tok)
	}
	return l.tokens, nil
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) advance() (rune, bool) {
	r, ok := l.peek()
	if !ok {
		return 0, false
	}
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r, true
}

func (l *Lexer) err(handler, format string, a ...interface{}) error {
	e := mferr.New(mferr.SyntaxError, handler, format, a...)
	return e.At(l.file, l.line)
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()
	r, ok := l.peek()
	if !ok {
		return Token{Kind: EOF, Line: l.line}, nil
	}
	startLine := l.line

	switch {
	case r == '/' && l.peekAt(1) == '/':
		return l.scanLineComment(startLine)
	case r == '/' && l.peekAt(1) == '*':
		return l.scanBlockComment(startLine)
	case r == '"':
		return l.scanString(startLine)
	case isIdentStart(r):
		return l.scanIdentifier(startLine)
	case isDigit(r):
		return l.scanNumber(startLine)
	default:
		return l.scanPunctuation(startLine)
	}
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) skipWhitespace() {
	for {
		r, ok := l.peek()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanLineComment(line int) (Token, error) {
	var b strings.Builder
	for {
		r, ok := l.peek()
		if !ok || r == '\n' {
			break
		}
		b.WriteRune(r)
		l.advance()
	}
	return Token{Kind: Comment, Lexeme: b.String(), Line: line, Comment: b.String()}, nil
}

func (l *Lexer) scanBlockComment(line int) (Token, error) {
	var b strings.Builder
	l.advance() // '/'
	l.advance() // '*'
	for {
		r, ok := l.peek()
		if !ok {
			return Token{}, l.err("tokeniser", "unterminated block comment")
		}
		if r == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		b.WriteRune(r)
		l.advance()
	}
	return Token{Kind: Comment, Lexeme: b.String(), Line: line, Comment: b.String()}, nil
}

func (l *Lexer) scanString(line int) (Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		r, ok := l.advance()
		if !ok {
			return Token{}, l.err("tokeniser", "unterminated string literal")
		}
		if r == '\\' {
			esc, ok := l.advance()
			if !ok {
				return Token{}, l.err("tokeniser", "unterminated escape sequence")
			}
			b.WriteRune(esc)
			continue
		}
		if r == '"' {
			break
		}
		b.WriteRune(r)
	}
	return Token{Kind: StringLiteral, Lexeme: b.String(), Line: line, Flag: StringFlag}, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) scanIdentifier(line int) (Token, error) {
	var b strings.Builder
	for {
		r, ok := l.peek()
		if !ok || !isIdentCont(r) {
			break
		}
		b.WriteRune(r)
		l.advance()
	}
	name := b.String()
	return Token{Kind: Identifier, Lexeme: Mangle(name), Line: line}, nil
}

// scanNumber accepts C-like numeric literals: integer, fixed-point,
// exponent and an optional trailing type suffix (f, F, l, L), matching
// spec.md §6's "Numbers parse with C-like syntax".
func (l *Lexer) scanNumber(line int) (Token, error) {
	var b strings.Builder
	for {
		r, ok := l.peek()
		if !ok || !isDigit(r) {
			break
		}
		b.WriteRune(r)
		l.advance()
	}
	if r, ok := l.peek(); ok && r == '.' {
		b.WriteRune(r)
		l.advance()
		for {
			r, ok := l.peek()
			if !ok || !isDigit(r) {
				break
			}
			b.WriteRune(r)
			l.advance()
		}
	}
	if r, ok := l.peek(); ok && (r == 'e' || r == 'E') {
		b.WriteRune(r)
		l.advance()
		if r, ok := l.peek(); ok && (r == '+' || r == '-') {
			b.WriteRune(r)
			l.advance()
		}
		for {
			r, ok := l.peek()
			if !ok || !isDigit(r) {
				break
			}
			b.WriteRune(r)
			l.advance()
		}
	}
	if r, ok := l.peek(); ok && strings.ContainsRune("fFlL", r) {
		b.WriteRune(r)
		l.advance()
	}
	return Token{Kind: Number, Lexeme: b.String(), Line: line}, nil
}

// multiCharPunctuation lists the punctuation sequences that must be
// scanned greedily as a single token (longest match first within a group).
var multiCharPunctuation = []string{"<=", ">=", "==", "!=", "&&", "||", "::", "->", "+=", "-=", "*=", "/=", ".+"}

func (l *Lexer) scanPunctuation(line int) (Token, error) {
	for _, seq := range multiCharPunctuation {
		if l.matchesAt(seq) {
			for range seq {
				l.advance()
			}
			return Token{Kind: Punctuation, Lexeme: seq, Line: line}, nil
		}
	}
	r, ok := l.advance()
	if !ok {
		return Token{}, l.err("tokeniser", "unexpected end of input")
	}
	return Token{Kind: Punctuation, Lexeme: string(r), Line: line}, nil
}

func (l *Lexer) matchesAt(seq string) bool {
	runes := []rune(seq)
	for i, r := range runes {
		if l.peekAt(i) != r {
			return false
		}
	}
	return true
}
