// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"fmt"

	"github.com/charmbracelet/log"
)

type (
	// Dependency declares that a module requires another module, identified by
	// its short name. An optional dependency is dropped silently when no
	// configured module carries that short name.
	Dependency struct {
		Name     string
		Optional bool
	}

	// SetupFunc builds a configured module. The returned value must implement
	// ConfiguredModule; anything else aborts initialization.
	SetupFunc func(sc SetupContext) (any, error)

	// Definition is the located handle of a module.
	Definition struct {
		// Name is the fully-qualified module name, e.g. "acme.store".
		Name string
		// Requires lists the modules that must be configured before this one.
		Requires []Dependency
		// Setup builds the module. A nil Setup means the module cannot be initialized.
		Setup SetupFunc
	}

	// SetupContext carries everything a module receives during setup.
	SetupContext struct {
		// Name is the fully-qualified module name.
		Name string
		// ShortName is the trailing dot-segment of Name.
		ShortName string
		// Config is the module's configuration section; empty if not configured.
		Config Section
		// Deps holds the configured dependencies keyed by short name. Optional
		// dependencies that are not configured are absent.
		Deps map[string]ConfiguredModule
		// Logger is the module's own logger, prefixed with its short name.
		Logger *log.Logger
	}

	// ConfiguredModule is the result of a module's setup.
	ConfiguredModule interface {
		// ModuleName returns the fully-qualified name of the module.
		ModuleName() string
		// Finalize completes the module once every module is configured.
		Finalize(sys *System) FinalizeResult
	}

	// Base implements ConfiguredModule for modules without finalization logic.
	// Embed it and set its fields from the SetupContext.
	Base struct {
		Name   string
		Logger *log.Logger
	}

	// FinalizeOutcome enumerates the results of a finalization attempt.
	FinalizeOutcome int

	// FinalizeResult is returned by ConfiguredModule.Finalize.
	FinalizeResult struct {
		Outcome FinalizeOutcome
		// WaitFor lists the full names of the modules that must be finalized
		// first. Only set when Outcome is OutcomeDeferred.
		WaitFor []string
		// Err is the failure reason. Only set when Outcome is OutcomeFailed.
		Err error
	}
)

const (
	// OutcomeFinalized means the module completed finalization.
	OutcomeFinalized FinalizeOutcome = iota
	// OutcomeDeferred means the module waits for other modules to finalize first.
	OutcomeDeferred
	// OutcomeFailed means finalization failed.
	OutcomeFailed
)

// Done reports a successful finalization.
func Done() FinalizeResult {
	return FinalizeResult{Outcome: OutcomeFinalized}
}

// Defer reports that finalization must wait for the named modules.
func Defer(modules ...string) FinalizeResult {
	return FinalizeResult{Outcome: OutcomeDeferred, WaitFor: modules}
}

// Fail reports a failed finalization.
func Fail(err error) FinalizeResult {
	return FinalizeResult{Outcome: OutcomeFailed, Err: err}
}

// String returns a human-readable representation of the outcome.
func (o FinalizeOutcome) String() string {
	switch o {
	case OutcomeFinalized:
		return "finalized"
	case OutcomeDeferred:
		return "deferred"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// NewBase returns a Base populated from the setup context.
func NewBase(sc SetupContext) Base {
	return Base{Name: sc.Name, Logger: sc.Logger}
}

// ModuleName implements ConfiguredModule.
func (b Base) ModuleName() string {
	return b.Name
}

// Finalize implements ConfiguredModule.
func (b Base) Finalize(*System) FinalizeResult {
	return Done()
}

// Dep returns the configured dependency with the given short name.
func (sc SetupContext) Dep(shortName string) (ConfiguredModule, bool) {
	m, ok := sc.Deps[shortName]
	return m, ok
}

// DepAs returns the configured dependency with the given short name as T.
// The second return value is false when the dependency is absent or has a
// different type.
func DepAs[T any](sc SetupContext, shortName string) (T, bool) {
	var zero T
	m, ok := sc.Deps[shortName]
	if !ok {
		return zero, false
	}
	typed, ok := m.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
