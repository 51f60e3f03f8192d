// Package iface implements the registration/enumeration/hand-off surface
// for target interfaces (spec.md §1 Out-of-scope, §4.3's @Interface):
// named plug-ins that emit solver-specific wrappers around a finished
// Behaviour Description. Interface internals are an external collaborator;
// the core's only contract with one is a single hand-off hook, called
// once the IR is complete. Grounded on the same `allocators` registry
// pattern in gofem's msolid/solid.go as the brick package.
package iface

import (
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/mferr"
)

// Interface is the contract a registered target interface implements.
type Interface interface {
	behaviour.InterfaceHandle
	Name() string
}

// Constructor builds an Interface instance.
type Constructor func() (Interface, error)

var registry = map[string]Constructor{}

// Register adds an interface constructor under name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// New instantiates the interface registered under name.
func New(name string) (Interface, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, mferr.New(mferr.UnknownEntity, "@Interface", "interface %q is not registered", name)
	}
	return ctor()
}

// Registered returns the names of every registered interface.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
