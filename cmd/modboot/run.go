// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modboot/modboot/pkg/modinit"
)

func newRunCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Initialize and finalize the configured modules",
		Long: `Initialize and finalize the configured modules.

Every module listed in modinit.modules is set up after its dependencies
and then given a chance to finalize. The final state of each module is
printed once all of them are finalized.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(cmd.Context(), app)
		},
	}
}

func runModules(ctx context.Context, app *App) error {
	cfg, path, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(err)
	}
	logger, err := app.logger(cfg)
	if err != nil {
		return app.fail(err)
	}
	if path != "" {
		logger.Debug("configuration loaded", "path", path)
	}

	in := modinit.New(app.Registry, modinit.WithLogger(logger))
	sys, err := in.Initialize(cfg)
	if err != nil {
		return app.fail(err)
	}
	finalizeErr := in.Finalize(sys)

	fmt.Fprintln(app.stdout, TitleStyle.Render("Modules"))
	fmt.Fprintln(app.stdout)
	if sys.Len() == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(no modules configured)"))
	}
	for _, name := range sys.Names() {
		state := sys.State(name)
		fmt.Fprintf(app.stdout, "  %s %s\n", ModuleStyle.Render(fmt.Sprintf("%-24s", name)), stateStyle(state).Render(state.String()))
	}

	if finalizeErr != nil {
		return app.fail(finalizeErr)
	}
	return nil
}
