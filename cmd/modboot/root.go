// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for modboot.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modboot",
		Short: "Initialize interdependent modules from a configuration file",
		Long: TitleStyle.Render("modboot") + SubtitleStyle.Render(" - initialize interdependent modules") + `

modboot reads a configuration file, orders the modules listed in
modinit.modules so that every module comes after its dependencies,
sets them up and finalizes them.

` + SubtitleStyle.Render("Examples:") + `
  modboot modules                          List the bundled modules
  modboot plan -c modboot.toml             Show the initialization order
  modboot run --set modboot.store:capacity=16
  modboot config dump                      Print the merged configuration as TOML`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.opts.configPath, "config", "c", "", "config file (default is ./modboot.{cue,toml,yaml,yml,json})")
	flags.StringArrayVar(&app.opts.overrides, "set", nil, "override a setting as section:key=value (repeatable)")
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "enable debug logging and full error chains")

	rootCmd.AddCommand(
		newModulesCommand(app),
		newPlanCommand(app),
		newRunCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
