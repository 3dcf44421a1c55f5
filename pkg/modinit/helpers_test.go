// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"testing"
)

type (
	// testModule is a ConfiguredModule recording what it was set up with.
	testModule struct {
		Base
		config   Section
		deps     map[string]ConfiguredModule
		finalize func(sys *System) FinalizeResult
	}

	// recorder tracks the order in which setup and finalize functions run.
	recorder struct {
		setups    []string
		finalizes []string
		modules   map[string]*testModule
	}

	// nilSetupLocator locates every module but never provides a setup function.
	nilSetupLocator struct{}
)

func (m *testModule) Finalize(sys *System) FinalizeResult {
	if m.finalize != nil {
		return m.finalize(sys)
	}
	return Done()
}

func (nilSetupLocator) Locate(name string) (*Definition, error) {
	return &Definition{Name: name}, nil
}

func newRecorder() *recorder {
	return &recorder{modules: make(map[string]*testModule)}
}

// define returns a Definition whose setup records the call and builds a testModule.
func (r *recorder) define(name string, requires ...Dependency) Definition {
	return Definition{
		Name:     name,
		Requires: requires,
		Setup: func(sc SetupContext) (any, error) {
			r.setups = append(r.setups, sc.Name)
			m := &testModule{Base: NewBase(sc), config: sc.Config, deps: sc.Deps}
			r.modules[sc.Name] = m
			return m, nil
		},
	}
}

// onFinalize installs fn as the finalize behavior of the named module and
// records every attempt.
func (r *recorder) onFinalize(name string, fn func(sys *System, attempt int) FinalizeResult) {
	attempts := 0
	r.modules[name].finalize = func(sys *System) FinalizeResult {
		attempts++
		r.finalizes = append(r.finalizes, name)
		return fn(sys, attempts)
	}
}

func newTestRegistry(t *testing.T, defs ...Definition) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	return reg
}

func configFor(modules ...string) Config {
	return Config{InitSection: Section{ModulesKey: modules}}
}

func required(name string) Dependency {
	return Dependency{Name: name}
}

func optional(name string) Dependency {
	return Dependency{Name: name, Optional: true}
}
