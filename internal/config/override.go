// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/modboot/modboot/pkg/modinit"
)

// Override is a single "section:key=value" assignment.
type Override struct {
	Section string
	Key     string
	Value   string
}

// ParseOverride parses "section:key=value". The section may contain dots,
// the value may contain any character including '=' and ':'. Section and key
// are lowercased to match the keys read from config files.
func ParseOverride(s string) (Override, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("override %q: missing '='", s)
	}
	section, key, ok := strings.Cut(target, ":")
	section, key = strings.ToLower(strings.TrimSpace(section)), strings.ToLower(strings.TrimSpace(key))
	if !ok || section == "" || key == "" {
		return Override{}, fmt.Errorf("override %q: expected section:key=value", s)
	}
	return Override{Section: section, Key: key, Value: value}, nil
}

// ParseOverrides parses every assignment into a Config. Later assignments to
// the same key win.
func ParseOverrides(assignments []string) (modinit.Config, error) {
	cfg := modinit.Config{}
	for _, a := range assignments {
		o, err := ParseOverride(a)
		if err != nil {
			return nil, err
		}
		if cfg[o.Section] == nil {
			cfg[o.Section] = modinit.Section{}
		}
		cfg[o.Section][o.Key] = o.Value
	}
	return cfg, nil
}
