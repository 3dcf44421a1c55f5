// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"slices"
	"testing"
	"time"
)

func TestSection_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"newline separated", "a\nb\n\nc\n", []string{"a", "b", "c"}},
		{"comma separated", "a, b ,c", []string{"a", "b", "c"}},
		{"mixed separators", "a,b\n c", []string{"a", "b", "c"}},
		{"string slice", []string{"a", " b ", ""}, []string{"a", "b"}},
		{"any slice", []any{"a", "b"}, []string{"a", "b"}},
		{"blank string", "  \n ", nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Section{"k": tt.value}.List("k")
			if !slices.Equal(got, tt.want) {
				t.Errorf("List() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := (Section{}).List("absent"); got != nil {
		t.Errorf("absent key should yield nil, got %q", got)
	}
}

func TestSection_TypedAccessors(t *testing.T) {
	t.Parallel()
	s := Section{
		"name":     "primary",
		"capacity": "12",
		"enabled":  "true",
		"ttl":      "1m30s",
		"broken":   "nope",
	}

	if got := s.StringOr("name", "x"); got != "primary" {
		t.Errorf("StringOr = %q", got)
	}
	if got := s.StringOr("absent", "x"); got != "x" {
		t.Errorf("StringOr default = %q", got)
	}
	if got, err := s.Int("capacity", 0); err != nil || got != 12 {
		t.Errorf("Int = %d, %v", got, err)
	}
	if got, err := s.Int("absent", 7); err != nil || got != 7 {
		t.Errorf("Int default = %d, %v", got, err)
	}
	if _, err := s.Int("broken", 0); err == nil {
		t.Error("Int of non-numeric string should fail")
	}
	if got, err := s.Bool("enabled", false); err != nil || !got {
		t.Errorf("Bool = %v, %v", got, err)
	}
	if _, err := s.Bool("broken", false); err == nil {
		t.Error("Bool of non-boolean string should fail")
	}
	if got, err := s.Duration("ttl", 0); err != nil || got != 90*time.Second {
		t.Errorf("Duration = %v, %v", got, err)
	}
	if got, err := s.Duration("absent", time.Second); err != nil || got != time.Second {
		t.Errorf("Duration default = %v, %v", got, err)
	}
}

func TestConfig_Modules(t *testing.T) {
	t.Parallel()

	if _, ok := (Config{}).Modules(); ok {
		t.Error("missing init section should report not configured")
	}
	if _, ok := (Config{InitSection: Section{}}).Modules(); ok {
		t.Error("missing modules key should report not configured")
	}
	got, ok := Config{InitSection: Section{ModulesKey: ""}}.Modules()
	if !ok || len(got) != 0 {
		t.Errorf("empty modules key = %q, %v", got, ok)
	}
	got, ok = Config{InitSection: Section{ModulesKey: "acme.a\nacme.b"}}.Modules()
	if !ok || !slices.Equal(got, []string{"acme.a", "acme.b"}) {
		t.Errorf("Modules() = %q, %v", got, ok)
	}
}

func TestConfig_MergeAndClone(t *testing.T) {
	t.Parallel()
	base := Config{"acme.store": Section{"capacity": 1, "name": "primary"}}
	clone := base.Clone()

	clone.Merge(Config{
		"acme.store": Section{"capacity": 2},
		"acme.cache": Section{"ttl": "1s"},
	})

	if base["acme.store"]["capacity"] != 1 || base.Has("acme.cache") {
		t.Errorf("merge into clone mutated the original: %v", base)
	}
	if clone["acme.store"]["capacity"] != 2 || clone["acme.store"]["name"] != "primary" {
		t.Errorf("merge should overwrite only given keys: %v", clone["acme.store"])
	}
	if clone.Section("acme.cache")["ttl"] != "1s" {
		t.Errorf("merge should create missing sections: %v", clone)
	}
	if s := base.Section("absent"); s == nil || len(s) != 0 {
		t.Errorf("absent section should be empty, got %v", s)
	}
}

func TestShortName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"acme.store":    "store",
		"acme.net.http": "http",
		"standalone":    "standalone",
		"trailing.":     "",
		"modboot.clock": "clock",
	}
	for name, want := range tests {
		if got := ShortName(name); got != want {
			t.Errorf("ShortName(%q) = %q, want %q", name, got, want)
		}
	}
}
