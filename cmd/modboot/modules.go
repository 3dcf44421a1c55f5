// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/modboot/modboot/pkg/modinit"
)

func newModulesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the available modules and their dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listModules(app)
			return nil
		},
	}
}

func listModules(app *App) {
	fmt.Fprintln(app.stdout, TitleStyle.Render("Available modules"))
	fmt.Fprintln(app.stdout)

	t := table.NewWriter()
	t.SetOutputMirror(app.stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Module", "Short name", "Requires"})
	for _, def := range app.Registry.Definitions() {
		t.AppendRow(table.Row{def.Name, modinit.ShortName(def.Name), formatRequires(def.Requires)})
	}
	t.Render()
}

// formatRequires renders dependencies as "store, clock?" where "?" marks
// optional ones, or "-" when there are none.
func formatRequires(deps []modinit.Dependency) string {
	if len(deps) == 0 {
		return "-"
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = d.Name
		if d.Optional {
			parts[i] += "?"
		}
	}
	return strings.Join(parts, ", ")
}
