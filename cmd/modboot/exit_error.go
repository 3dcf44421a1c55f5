// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/modboot/modboot/internal/issue"
	"github.com/modboot/modboot/pkg/modinit"
)

const (
	// ExitConfigError is returned for problems fixed by editing configuration.
	ExitConfigError = 1
	// ExitInitError is returned when modules could not be ordered, set up or finalized.
	ExitInitError = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode classifies err into the process exit code.
func exitCode(err error) int {
	var ae *issue.ActionableError
	switch {
	case errors.Is(err, modinit.ErrConfiguration), errors.As(err, &ae):
		return ExitConfigError
	case errors.Is(err, modinit.ErrCycle), errors.Is(err, modinit.ErrInitialization):
		return ExitInitError
	default:
		return ExitConfigError
	}
}
