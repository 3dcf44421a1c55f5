// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/modboot/modboot/internal/issue"
	"github.com/modboot/modboot/pkg/modinit"
)

const (
	// ConfigFileName is the name of the config file searched in the working
	// directory when no path is given (without extension).
	ConfigFileName = "modboot"

	// keyDelimiter replaces viper's "." so that dotted section names such as
	// "acme.store" stay single keys.
	keyDelimiter = "::"
)

// SupportedExtensions lists the config file formats in lookup order.
var SupportedExtensions = []string{"cue", "toml", "yaml", "yml", "json"}

// LoadOptions controls how the configuration is located and adjusted.
type LoadOptions struct {
	// Path is an explicit config file. When empty, Dir is searched for
	// ConfigFileName with one of SupportedExtensions.
	Path string
	// Dir is the directory searched when Path is empty. Defaults to the
	// working directory.
	Dir string
	// Overrides are "section:key=value" assignments applied after loading.
	Overrides []string
}

// Load reads the configuration described by opts. A missing implicit file is
// not an error and yields an empty configuration; a missing explicit file is.
// It returns the configuration and the path it was read from, if any.
func Load(ctx context.Context, opts LoadOptions) (modinit.Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	overrides, err := ParseOverrides(opts.Overrides)
	if err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("parse configuration overrides").
			WithSuggestion("Use the form section:key=value, e.g. --set acme.store:capacity=10").
			Wrap(err).
			BuildError()
	}

	path := opts.Path
	if path == "" {
		path = findConfigFile(opts.Dir)
	} else if !fileExists(path) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Run 'modboot config show' without --config to see the defaults").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	cfg := modinit.Config{}
	if path != "" {
		cfg, err = readFile(path)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file is valid " + strings.ToUpper(fileType(path))).
				WithSuggestion("Make sure every top-level entry is a table of settings").
				Wrap(err).
				BuildError()
		}
	}
	cfg.Merge(overrides)
	if err := checkModuleNames(cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Write the names in modinit.modules in lowercase").
			WithSuggestion("Section names are read case-insensitively and stored in lowercase").
			Wrap(err).
			BuildError()
	}
	return cfg, path, nil
}

// checkModuleNames rejects listed modules whose name is not lowercase. Their
// sections are lowercased when read, so the module would silently receive an
// empty section.
func checkModuleNames(cfg modinit.Config) error {
	names, _ := cfg.Modules()
	var mixed []string
	for _, name := range names {
		if name != strings.ToLower(name) {
			mixed = append(mixed, name)
		}
	}
	if len(mixed) > 0 {
		return fmt.Errorf("module names must be lowercase: %s", strings.Join(mixed, ", "))
	}
	return nil
}

// readFile loads one config file through viper.
func readFile(path string) (modinit.Config, error) {
	typ := fileType(path)
	if !slices.Contains(SupportedExtensions, typ) {
		return nil, fmt.Errorf("unsupported config format %q (supported: %s)", typ, strings.Join(SupportedExtensions, ", "))
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	if typ == "cue" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigFile(path)
		v.SetConfigType(typ)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return toConfig(v.AllSettings())
}

// toConfig converts viper's nested settings into the two-level mapping.
func toConfig(settings map[string]any) (modinit.Config, error) {
	cfg := make(modinit.Config, len(settings))
	for name, raw := range settings {
		section, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("section %q must be a table, got %T", name, raw)
		}
		cfg[name] = modinit.Section(section)
	}
	return cfg, nil
}

// findConfigFile returns the first existing ConfigFileName candidate in dir.
func findConfigFile(dir string) string {
	for _, ext := range SupportedExtensions {
		candidate := filepath.Join(dir, ConfigFileName+"."+ext)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileType(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
