// SPDX-License-Identifier: MPL-2.0

// Package modinit initializes and finalizes a set of interdependent modules.
//
// A module is described by a Definition: its fully-qualified name, the short
// names of the modules it requires and a Setup function. The configuration
// lists the modules to initialize in the "modules" key of the "modinit"
// section; every other section carries per-module settings keyed by the
// module's fully-qualified name.
//
// # Initialization
//
// Initializer.Initialize locates every configured module, resolves declared
// dependencies by short name (the trailing dot-segment of the full name),
// orders the modules so that dependencies come first and calls each Setup
// with its configuration section and its already configured dependencies.
// Problems are reported in batches: all missing modules at once, then all
// missing required dependencies at once, then every dependency cycle.
//
//	reg := modinit.NewRegistry()
//	reg.MustRegister(modinit.Definition{
//	    Name:  "acme.store",
//	    Setup: newStore,
//	})
//	reg.MustRegister(modinit.Definition{
//	    Name:     "acme.cache",
//	    Requires: []modinit.Dependency{{Name: "store"}},
//	    Setup:    newCache,
//	})
//
//	sys, err := modinit.New(reg).Initialize(cfg)
//
// # Finalization
//
// Initializer.Finalize gives every configured module a chance to complete its
// setup once all modules exist. A module that needs another module to be
// finalized first returns Defer with the full names it waits for; deferred
// modules are retried once, in dependency order. Deferring twice is an
// internal consistency failure.
package modinit
