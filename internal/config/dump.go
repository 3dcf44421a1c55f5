// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/modboot/modboot/pkg/modinit"
)

// DumpFormats lists the formats accepted by DumpAs.
var DumpFormats = []string{"toml", "yaml"}

// Dump writes cfg as a TOML document, one table per section.
func Dump(w io.Writer, cfg modinit.Config) error {
	return DumpAs(w, cfg, "toml")
}

// DumpAs writes cfg in the given format, one table or mapping per section.
func DumpAs(w io.Writer, cfg modinit.Config, format string) error {
	doc := make(map[string]map[string]any, len(cfg))
	for name, section := range cfg {
		doc[name] = section
	}

	switch format {
	case "toml":
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode config as toml: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode config as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode config as yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown dump format %q (valid: toml, yaml)", format)
	}
	return nil
}
