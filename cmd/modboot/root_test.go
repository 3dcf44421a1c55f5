// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/modboot/modboot/internal/issue"
	"github.com/modboot/modboot/pkg/modinit"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version, Commit, BuildDate = "v1.2.3", "abc1234", "2025-06-15T10:00:00Z"
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing modules", &modinit.MissingModulesError{Names: []string{"x"}}, ExitConfigError},
		{"config load", issue.NewErrorContext().WithOperation("load configuration").BuildError(), ExitConfigError},
		{"setup failure", fmt.Errorf("run: %w", &modinit.InitializationError{Module: "x", Reason: "setup failed"}), ExitInitError},
		{"cycle", &modinit.CycleError{Operation: "initialization", Cause: modinit.ErrCycle}, ExitInitError},
		{"other", errors.New("boom"), ExitConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	if got := (&ExitError{Code: 2, Err: cause}).Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(&ExitError{Code: 2, Err: cause}, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
}
