// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/modboot/modboot/internal/builtin"
	"github.com/modboot/modboot/internal/config"
	"github.com/modboot/modboot/internal/issue"
	"github.com/modboot/modboot/internal/logging"
	"github.com/modboot/modboot/pkg/modinit"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App and write through its streams.
	App struct {
		Registry *modinit.Registry
		Config   config.Provider
		stdout   io.Writer
		stderr   io.Writer
		opts     globalOptions
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Registry *modinit.Registry
		Config   config.Provider
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// globalOptions holds the persistent flag values.
	globalOptions struct {
		configPath string
		overrides  []string
		verbose    bool
	}
)

// NewApp creates an App, defaulting to the bundled modules, file based
// configuration and the process streams.
func NewApp(deps Dependencies) *App {
	app := &App{Registry: deps.Registry, Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
	if app.Registry == nil {
		app.Registry = builtin.NewRegistry()
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads the configuration selected by the global flags.
func (a *App) loadConfig(ctx context.Context) (modinit.Config, string, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		Path:      a.opts.configPath,
		Overrides: a.opts.overrides,
	})
}

// logger builds the logger described by the log section; --verbose forces debug.
func (a *App) logger(cfg modinit.Config) (*log.Logger, error) {
	l, err := logging.New(a.stderr, cfg.Section(logging.Section))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("configure logging").
			WithResource(logging.Section).
			WithSuggestion("Valid levels are debug, info, warn and error").
			WithSuggestion("Valid formatters are text, json and logfmt").
			Wrap(err).
			BuildError()
	}
	if a.opts.verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l, nil
}

// fail prints guidance for err and returns it as an ExitError.
func (a *App) fail(err error) error {
	if guide := issue.ForError(err); guide != nil {
		style := "dark"
		if a.stderr != os.Stderr {
			style = "notty"
		}
		if rendered, renderErr := guide.Render(style); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	var ae *issue.ActionableError
	if a.opts.verbose && errors.As(err, &ae) {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render(ae.Format(true)))
	}
	return &ExitError{Code: exitCode(err), Err: err}
}
