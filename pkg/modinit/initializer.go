// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/modboot/modboot/internal/dag"
)

// anchor is the synthetic node every module without dependencies depends on.
// It can never collide with a module name since names are non-empty.
const anchor = ""

type (
	// Initializer orders, sets up and finalizes the modules of one configuration.
	Initializer struct {
		locator   Locator
		logger    *log.Logger
		overrides Config
	}

	// Option configures an Initializer.
	Option func(*Initializer)

	// Step is one entry of an initialization plan.
	Step struct {
		Name         string
		ShortName    string
		Dependencies []string
	}
)

// WithLogger sets the logger used for tracing and handed to modules.
func WithLogger(l *log.Logger) Option {
	return func(in *Initializer) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithOverrides merges overrides into every configuration before it is used.
func WithOverrides(overrides Config) Option {
	return func(in *Initializer) {
		in.overrides = overrides.Clone()
	}
}

// New creates an Initializer that locates modules through locator.
func New(locator Locator, opts ...Option) *Initializer {
	in := &Initializer{
		locator: locator,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Plan computes the initialization order without setting up any module.
func (in *Initializer) Plan(cfg Config) ([]Step, error) {
	conf := in.prepare(cfg)
	if _, ok := conf.Modules(); !ok {
		return nil, nil
	}
	col, err := collectDependencies(in.locator, conf)
	if err != nil {
		return nil, err
	}
	order, err := solveOrder(col.deps, col.names(), "initialization")
	if err != nil {
		return nil, err
	}
	steps := make([]Step, len(order))
	for i, name := range order {
		steps[i] = Step{Name: name, ShortName: ShortName(name), Dependencies: col.deps[name]}
	}
	return steps, nil
}

// Initialize sets up every configured module in dependency order and
// returns the assembled System. Nothing is returned unless every module was
// set up successfully.
func (in *Initializer) Initialize(cfg Config) (*System, error) {
	conf := in.prepare(cfg)
	if _, ok := conf.Modules(); !ok {
		in.logger.Debug("no modules configured", "section", InitSection)
		return newSystem(conf, nil, nil, nil), nil
	}

	col, err := collectDependencies(in.locator, conf)
	if err != nil {
		return nil, err
	}
	order, err := solveOrder(col.deps, col.names(), "initialization")
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Descriptor, len(col.modules))
	shortNames := make(map[string]string, len(col.modules))
	for _, d := range col.modules {
		byName[d.Name] = d
		shortNames[d.Name] = d.ShortName
	}

	initialized := make(map[string]ConfiguredModule, len(order))
	for _, name := range order {
		d := byName[name]
		deps := make(map[string]ConfiguredModule, len(col.deps[name]))
		for _, dep := range col.deps[name] {
			deps[shortNames[dep]] = initialized[dep]
		}

		in.logger.Debug("initializing module", "module", name)
		out, err := d.Definition.Setup(SetupContext{
			Name:      name,
			ShortName: d.ShortName,
			Config:    d.Config.Clone(),
			Deps:      deps,
			Logger:    in.logger.WithPrefix(d.ShortName),
		})
		if err != nil {
			return nil, &InitializationError{Module: name, Reason: "setup failed", Cause: err}
		}
		module, ok := out.(ConfiguredModule)
		if !ok || module == nil {
			return nil, &InitializationError{
				Module: name,
				Reason: fmt.Sprintf("setup did not return a ConfiguredModule but %#v", out),
			}
		}
		initialized[name] = module
	}

	return newSystem(conf, order, shortNames, initialized), nil
}

// prepare returns a private copy of cfg with the configured overrides applied.
func (in *Initializer) prepare(cfg Config) Config {
	conf := cfg.Clone()
	conf.Merge(in.overrides)
	return conf
}

func (c *collection) names() []string {
	names := make([]string, len(c.modules))
	for i, m := range c.modules {
		names[i] = m.Name
	}
	return names
}

// solveOrder orders the keys of deps so that dependencies come first, using a
// fresh solver. Nodes that are only referenced as dependencies are left out.
// order fixes the insertion order of the solver for deterministic results.
func solveOrder(deps DependencyMap, order []string, operation string) ([]string, error) {
	s := dag.New[string]()
	for _, name := range order {
		if len(deps[name]) == 0 {
			s.AddDependency(name, anchor)
			continue
		}
		for _, dep := range deps[name] {
			s.AddDependency(name, dep)
		}
	}

	cycles := s.Cycles()
	sorted, err := s.Solve()
	if err != nil {
		if len(cycles) == 0 {
			var cycleErr *dag.CycleError[string]
			if errors.As(err, &cycleErr) {
				cycles = [][]string{cycleErr.Cycle}
			}
		}
		return nil, &CycleError{Operation: operation, Cycles: cycles, Cause: err}
	}

	res := make([]string, 0, len(deps))
	for _, name := range sorted {
		if _, ok := deps[name]; ok && name != anchor {
			res = append(res, name)
		}
	}
	return res, nil
}
