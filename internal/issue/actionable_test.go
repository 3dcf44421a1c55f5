// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "failed to load configuration",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load configuration", Resource: "./modboot.toml"},
			expected: "failed to load configuration: ./modboot.toml",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "./modboot.toml",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load configuration: ./modboot.toml: file not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()
	root := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("modboot.toml").
		WithSuggestion("Check the path").
		WithSuggestion("Check permissions").
		Wrap(root).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "  • Check the path\n  • Check permissions") {
		t.Errorf("suggestions missing:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("non-verbose output must not include the chain:\n%s", short)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. no such file") {
		t.Errorf("verbose output misses the chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError without operation should return a nil error")
	}

	err := NewErrorContext().WithOperation("parse overrides").Wrap(cause).BuildError()
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Operation != "parse overrides" {
		t.Errorf("expected *ActionableError, got %T", err)
	}
}
