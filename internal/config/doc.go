// SPDX-License-Identifier: MPL-2.0

// Package config loads the two-level module configuration from CUE, TOML,
// YAML or JSON files and applies command line overrides.
package config
