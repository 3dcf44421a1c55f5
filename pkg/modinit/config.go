// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	// InitSection is the well-known section that configures the initializer itself.
	InitSection = "modinit"
	// ModulesKey is the key in InitSection listing the modules to initialize.
	ModulesKey = "modules"
)

type (
	// Section is the key/value configuration of one module.
	Section map[string]any

	// Config is a two-level configuration mapping from section name to Section.
	Config map[string]Section
)

// String returns the value of key rendered as a string.
func (s Section) String(key string) (string, bool) {
	v, ok := s[key]
	if !ok {
		return "", false
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return str, true
}

// StringOr returns the value of key or def when the key is absent.
func (s Section) StringOr(key, def string) string {
	if str, ok := s.String(key); ok {
		return str
	}
	return def
}

// Bool returns the value of key as a bool, or def when the key is absent.
func (s Section) Bool(key string, def bool) (bool, error) {
	v, ok := s[key]
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def, fmt.Errorf("key %q: %w", key, err)
	}
	return b, nil
}

// Int returns the value of key as an int, or def when the key is absent.
func (s Section) Int(key string, def int) (int, error) {
	v, ok := s[key]
	if !ok {
		return def, nil
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def, fmt.Errorf("key %q: %w", key, err)
	}
	return i, nil
}

// Duration returns the value of key as a time.Duration, or def when the key
// is absent. Strings use time.ParseDuration syntax.
func (s Section) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := s[key]
	if !ok {
		return def, nil
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return def, fmt.Errorf("key %q: %w", key, err)
	}
	return d, nil
}

// List returns the value of key as a list of strings. A list value is used
// element by element; a string value is split on newlines and commas. Blank
// entries are dropped.
func (s Section) List(key string) []string {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch tv := v.(type) {
	case string:
		raw = strings.FieldsFunc(tv, func(r rune) bool { return r == '\n' || r == ',' })
	default:
		raw = cast.ToStringSlice(tv)
	}
	var res []string
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

// Clone returns a shallow copy of the section.
func (s Section) Clone() Section {
	if s == nil {
		return Section{}
	}
	return maps.Clone(s)
}

// Section returns the named section, or an empty one if it is absent.
func (c Config) Section(name string) Section {
	if s, ok := c[name]; ok && s != nil {
		return s
	}
	return Section{}
}

// Has reports whether the named section exists.
func (c Config) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Modules returns the fully-qualified module names listed in the init section.
// The second return value is false when the list is not configured at all.
func (c Config) Modules() ([]string, bool) {
	s, ok := c[InitSection]
	if !ok {
		return nil, false
	}
	if _, ok := s[ModulesKey]; !ok {
		return nil, false
	}
	return s.List(ModulesKey), true
}

// Merge writes every key of overrides into c, creating sections as needed.
func (c Config) Merge(overrides Config) {
	for name, section := range overrides {
		if c[name] == nil {
			c[name] = Section{}
		}
		for k, v := range section {
			c[name][k] = v
		}
	}
}

// Clone returns a copy of c whose sections can be modified independently.
func (c Config) Clone() Config {
	res := make(Config, len(c))
	for name, section := range c {
		res[name] = section.Clone()
	}
	return res
}

// ShortName returns the trailing dot-segment of a fully-qualified module name.
func ShortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
