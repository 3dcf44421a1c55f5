// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"
)

type (
	// System is the aggregate result of one initialization episode. Entries
	// never change once published; finalization only advances their state,
	// so readers may observe states changing while Finalize runs.
	System struct {
		conf    Config
		order   []string
		byName  map[string]*entry
		byShort map[string]*entry
	}

	entry struct {
		name   string
		short  string
		module ConfiguredModule
		state  atomic.Int32
	}
)

func newSystem(conf Config, order []string, shortNames map[string]string, modules map[string]ConfiguredModule) *System {
	sys := &System{
		conf:    conf.Clone(),
		order:   slices.Clone(order),
		byName:  make(map[string]*entry, len(order)),
		byShort: make(map[string]*entry, len(order)),
	}
	for _, name := range order {
		e := &entry{name: name, short: shortNames[name], module: modules[name]}
		sys.byName[name] = e
		sys.byShort[e.short] = e
	}
	return sys
}

// Module returns the configured module with the given fully-qualified name.
func (s *System) Module(name string) (ConfiguredModule, bool) {
	e, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return e.module, true
}

// ByShortName returns the configured module with the given short name.
func (s *System) ByShortName(short string) (ConfiguredModule, bool) {
	e, ok := s.byShort[short]
	if !ok {
		return nil, false
	}
	return e.module, true
}

// Has reports whether a module with the given fully-qualified name is configured.
func (s *System) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the fully-qualified module names in initialization order.
func (s *System) Names() []string {
	return slices.Clone(s.order)
}

// Len returns the number of configured modules.
func (s *System) Len() int {
	return len(s.order)
}

// Config returns a copy of the merged configuration the system was built from.
func (s *System) Config() Config {
	return s.conf.Clone()
}

// State returns the finalization state of the named module.
func (s *System) State(name string) FinalizationState {
	e, ok := s.byName[name]
	if !ok {
		return StatePending
	}
	return FinalizationState(e.state.Load())
}

// Finalized reports whether the named module completed finalization.
func (s *System) Finalized(name string) bool {
	return s.State(name) == StateFinalized
}

// transition moves the named module to next if the state machine allows it.
func (s *System) transition(name string, next FinalizationState) error {
	e := s.byName[name]
	for {
		cur := FinalizationState(e.state.Load())
		if !cur.canTransition(next) {
			return fmt.Errorf("module %s: cannot move from %s to %s", name, cur, next)
		}
		if e.state.CompareAndSwap(int32(cur), int32(next)) {
			return nil
		}
	}
}

// Lookup returns the named module as T.
func Lookup[T any](s *System, name string) (T, error) {
	var zero T
	m, ok := s.Module(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	typed, ok := m.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Module:   name,
			Expected: reflect.TypeFor[T]().String(),
			Actual:   fmt.Sprintf("%T", m),
		}
	}
	return typed, nil
}
