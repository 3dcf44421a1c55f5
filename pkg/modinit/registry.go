// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrModuleNotFound is returned by a Locator for names it cannot load.
var ErrModuleNotFound = errors.New("module not found")

type (
	// Locator finds module definitions by fully-qualified name. Implementations
	// return an error wrapping ErrModuleNotFound for unknown names.
	Locator interface {
		Locate(name string) (*Definition, error)
	}

	// Registry is an in-process Locator. It is safe for concurrent use.
	Registry struct {
		mu    sync.RWMutex
		defs  map[string]Definition
		order []string
	}
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a module definition.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return fmt.Errorf("register module: registry is nil")
	}
	if def.Name == "" {
		return fmt.Errorf("register module: name is empty")
	}
	if def.Setup == nil {
		return fmt.Errorf("register module %s: setup func is nil", def.Name)
	}
	for _, dep := range def.Requires {
		if dep.Name == "" {
			return fmt.Errorf("register module %s: dependency with empty name", def.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("register module %s: already registered", def.Name)
	}
	def.Requires = slices.Clone(def.Requires)
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Locate implements Locator.
func (r *Registry) Locate(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	def.Requires = slices.Clone(def.Requires)
	return &def, nil
}

// Definitions returns all registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		res = append(res, r.defs[name])
	}
	return res
}
