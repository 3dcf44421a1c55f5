// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modboot/modboot/internal/config"
	"github.com/modboot/modboot/pkg/modinit"
)

// newConfigCommand creates the `modboot config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the modboot configuration",
		Long: `Inspect the modboot configuration.

The configuration is read from --config or, when omitted, from the first
of modboot.cue, modboot.toml, modboot.yaml, modboot.yml and modboot.json
in the working directory. --set overrides are applied last.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the merged configuration as TOML or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(config.DumpFormats, format) {
				return fmt.Errorf("invalid --format %q (valid: %s)", format, strings.Join(config.DumpFormats, ", "))
			}
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(err)
			}
			return config.DumpAs(app.stdout, cfg, format)
		},
	}
	dumpCmd.Flags().StringVarP(&format, "format", "f", "toml", "output format (toml, yaml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, path, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", ModuleStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", ModuleStyle.Render("Config file"), SubtitleStyle.Render("(none found)"))
	}

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		fmt.Fprintln(app.stdout)
		fmt.Fprintf(app.stdout, "%s:\n", ModuleStyle.Render(name))
		printSection(app, cfg[name])
	}
	return nil
}

func printSection(app *App, section modinit.Section) {
	if len(section) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(empty)"))
		return
	}
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(app.stdout, "  %s: %s\n", k, SuccessStyle.Render(formatValue(section[k])))
	}
}

func formatValue(v any) string {
	switch tv := v.(type) {
	case []any:
		parts := make([]string, len(tv))
		for i, item := range tv {
			parts[i] = fmt.Sprint(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
