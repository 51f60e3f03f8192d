// Package brick implements the registration/enumeration surface for
// bricks (spec.md §1 Out-of-scope, §4.3's @Brick): named, parameterised
// behaviour fragments that inject variables, code blocks and attributes
// into a Behaviour Description. Brick internals are an external
// collaborator; the core only ever calls a brick's three lifecycle
// points (variable-declaration completion, keyword extension, end of
// treatment), grounded on the `allocators` name->constructor registry
// pattern in gofem's msolid/solid.go, generalised from "one string picks a
// model constructor" to "one string picks a behaviour fragment".
package brick

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
)

// KeywordHandler is a keyword a brick contributes once attached (spec.md
// §4.3's "keyword extension" lifecycle point).
type KeywordHandler func(desc *behaviour.Description, args []string) error

// Brick is the full contract a registered brick implements: the two
// end-of-file hooks (behaviour.BrickHandle) plus the keyword-extension
// hook run at attachment time.
type Brick interface {
	behaviour.BrickHandle
	Name() string
	// ExtendKeywords lets the brick register additional keywords through
	// register, called once at @Brick attachment time.
	ExtendKeywords(register func(keyword string, handler KeywordHandler))
}

// Constructor builds a Brick instance from its @Brick { options }.
type Constructor func(options map[string]string) (Brick, error)

var registry = map[string]Constructor{}

// Register adds a brick constructor under name. Registering the same name
// twice replaces the previous constructor (the registry is process-wide
// and initialised eagerly, spec.md §5's Shared Resources).
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// New instantiates the brick registered under name.
func New(name string, options map[string]string) (Brick, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, mferr.New(mferr.UnknownEntity, "@Brick", "brick %q is not registered", name)
	}
	return ctor(options)
}

// Registered returns the names of every registered brick.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
