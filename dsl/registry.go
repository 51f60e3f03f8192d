package dsl

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
)

// Handler processes one keyword occurrence, consuming tokens from c and
// mutating desc. It must leave c positioned after the keyword's terminator
// (spec.md §5).
type Handler func(c *Cursor, desc *behaviour.Description) error

// Hook runs after a keyword's handler succeeds, in registration order
// (spec.md §4.3, §5).
type Hook func(c *Cursor, desc *behaviour.Description) error

// Registry is the keyword -> handler map plus per-keyword hook lists
// (spec.md §4.3). Exactly one handler is allowed per keyword; registering a
// "strict" keyword twice is rejected, an "overridable" one silently
// replaces the previous handler (spec.md §4.3's "overridable"/"strict").
type Registry struct {
	handlers    map[string]Handler
	overridable map[string]bool
	hooks       map[string][]Hook
	disabled    map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:    map[string]Handler{},
		overridable: map[string]bool{},
		hooks:       map[string][]Hook{},
		disabled:    map[string]bool{},
	}
}

// Register adds a handler for keyword. A keyword whose current handler was
// registered with strict=true rejects any later registration; one
// registered with strict=false (overridable) has its handler silently
// replaced by the next registration.
func (r *Registry) Register(keyword string, strict bool, h Handler) error {
	if _, exists := r.handlers[keyword]; exists && !r.overridable[keyword] {
		return mferr.New(mferr.DuplicateDeclaration, "registerKeyword", "keyword %q is already registered", keyword)
	}
	r.handlers[keyword] = h
	r.overridable[keyword] = !strict
	return nil
}

// AddHook appends a hook to run after keyword's handler succeeds.
func (r *Registry) AddHook(keyword string, h Hook) {
	r.hooks[keyword] = append(r.hooks[keyword], h)
}

// Disable replaces keyword's handler with one that always raises a fixed
// error (spec.md §4.3).
func (r *Registry) Disable(keyword string) {
	r.disabled[keyword] = true
}

// Dispatch runs keyword's handler (if not disabled) followed by its hooks,
// in registration order.
func (r *Registry) Dispatch(keyword string, c *Cursor, desc *behaviour.Description) error {
	if r.disabled[keyword] {
		return mferr.New(mferr.UnsupportedInHypothesis, keyword, "keyword %q has been disabled", keyword).At(c.File, c.Line())
	}
	h, ok := r.handlers[keyword]
	if !ok {
		return mferr.New(mferr.UnknownEntity, keyword, "unregistered keyword %q", keyword).At(c.File, c.Line())
	}
	line := c.Line()
	if err := h(c, desc); err != nil {
		return wrapWithLocation(err, keyword, c.File, line)
	}
	for _, hook := range r.hooks[keyword] {
		if err := hook(c, desc); err != nil {
			return wrapWithLocation(err, keyword, c.File, line)
		}
	}
	return nil
}

// Has reports whether keyword has a registered handler.
func (r *Registry) Has(keyword string) bool {
	_, ok := r.handlers[keyword]
	return ok
}

// wrapWithLocation prepends the offending keyword/line to err exactly once
// (spec.md §7's propagation policy): if err is already an *mferr.Error with
// a location, that location wins (mferr.Error.At is itself idempotent).
func wrapWithLocation(err error, keyword, file string, line int) error {
	if e, ok := err.(*mferr.Error); ok {
		return e.At(file, line)
	}
	return mferr.New(mferr.SyntaxError, keyword, "%s", err.Error()).At(file, line)
}
