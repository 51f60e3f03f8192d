// Package mferr implements the typed error variants of the behaviour
// front-end (spec.md §7). Every handler failure carries its kind, the
// keyword/handler that raised it, and a source location so the top-level
// processing loop can report the offending line without re-deriving it.
package mferr

import "fmt"

// Kind is one of the seven error kinds the front-end distinguishes.
type Kind int

const (
	// SyntaxError is an invalid token, missing terminator or malformed list.
	SyntaxError Kind = iota
	// InvalidName is an identifier failing behaviour/material/library
	// validity rules, or a reserved name.
	InvalidName
	// DuplicateDeclaration is a variable, glossary, entry or keyword name
	// registered twice.
	DuplicateDeclaration
	// UnknownEntity is a reference to an unregistered brick, interface,
	// solver, hypothesis or variable method.
	UnknownEntity
	// InconsistentDeclaration is an invariant violation.
	InconsistentDeclaration
	// UnsupportedInHypothesis is an operation not permitted for the chosen
	// modelling hypotheses.
	UnsupportedInHypothesis
	// NumericalOutOfRange is a numerical parameter outside its valid range.
	NumericalOutOfRange
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case InvalidName:
		return "InvalidName"
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case UnknownEntity:
		return "UnknownEntity"
	case InconsistentDeclaration:
		return "InconsistentDeclaration"
	case UnsupportedInHypothesis:
		return "UnsupportedInHypothesis"
	case NumericalOutOfRange:
		return "NumericalOutOfRange"
	}
	return "UnknownKind"
}

// Error is the single error type raised by every handler in dsl, behaviour,
// implicit and emitter. Handler is set where the error is created and
// File/Line by the caller that has the token position; dsl's keyword
// dispatch (Registry.Dispatch) attaches the keyword's file/line only when
// the error has no location yet, so a bubbled-up error is never
// double-wrapped.
type Error struct {
	Kind    Kind
	Handler string // keyword or method name that raised the error
	File    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Handler, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s: %s", e.File, e.Line, e.Kind, e.Handler, e.Message)
}

// New builds an Error the way the teacher builds a chk.Err: a kind, the
// handler name, and a printf-style message.
func New(kind Kind, handler, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Handler: handler, Message: fmt.Sprintf(format, a...)}
}

// At attaches a source location to an existing error, without altering a
// location that is already set (first attach wins, matching §7's "within
// ±1 of the offending token" fidelity requirement -- later wrapping must
// not erase the original token's line).
func (e *Error) At(file string, line int) *Error {
	if e.File == "" {
		e.File = file
		e.Line = line
	}
	return e
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
