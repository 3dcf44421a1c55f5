// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modboot/modboot/pkg/modinit"
)

func newPlanCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the initialization order without setting up any module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPlan(cmd.Context(), app)
		},
	}
}

func showPlan(ctx context.Context, app *App) error {
	cfg, _, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(err)
	}
	logger, err := app.logger(cfg)
	if err != nil {
		return app.fail(err)
	}

	steps, err := modinit.New(app.Registry, modinit.WithLogger(logger)).Plan(cfg)
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Initialization plan"))
	fmt.Fprintln(app.stdout)
	if len(steps) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(no modules configured)"))
		return nil
	}
	for i, step := range steps {
		fmt.Fprintf(app.stdout, "  %2d. %s", i+1, ModuleStyle.Render(step.Name))
		if len(step.Dependencies) > 0 {
			fmt.Fprintf(app.stdout, "  %s", SubtitleStyle.Render("after "+strings.Join(step.Dependencies, ", ")))
		}
		fmt.Fprintln(app.stdout)
	}
	return nil
}
