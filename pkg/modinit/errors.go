// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modboot/modboot/internal/dag"
)

var (
	// ErrConfiguration marks problems the caller fixes by editing configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrInitialization marks internal consistency failures of a module.
	ErrInitialization = errors.New("initialization error")

	// ErrCycle marks a dependency cycle in either ordering pass.
	ErrCycle = dag.ErrCycle
)

type (
	// MissingModulesError lists configured modules that could not be located.
	MissingModulesError struct {
		Names []string
	}

	// MissingDependency names an unresolved required dependency and the
	// modules requiring it.
	MissingDependency struct {
		Name       string
		RequiredBy []string
	}

	// MissingDependenciesError lists every unresolved required dependency.
	MissingDependenciesError struct {
		Missing []MissingDependency
	}

	// DuplicateShortName names a short name shared by several configured modules.
	DuplicateShortName struct {
		ShortName string
		Modules   []string
	}

	// DuplicateShortNameError is returned when configured modules share a short name.
	DuplicateShortNameError struct {
		Duplicates []DuplicateShortName
	}

	// InitializationError reports a module that could not be initialized.
	InitializationError struct {
		Module string
		Reason string
		Cause  error
	}

	// CycleError reports the dependency cycles found while ordering modules.
	// Cycles holds one witness per group of mutually entangled modules.
	CycleError struct {
		// Operation is "initialization" or "finalization".
		Operation string
		Cycles    [][]string
		Cause     error
	}

	// EmptyDeferralError is returned when a module defers finalization
	// without naming any module to wait for.
	EmptyDeferralError struct {
		Module string
	}

	// UnknownDeferralTargetError is returned when a module waits for the
	// finalization of modules that are not configured.
	UnknownDeferralTargetError struct {
		Module  string
		Unknown []string
	}

	// InconsistentDeferralError is returned when a module defers finalization
	// again after its dependencies were finalized.
	InconsistentDeferralError struct {
		Module  string
		WaitFor []string
	}

	// FinalizationFailedError wraps the failure reported by a module.
	FinalizationFailedError struct {
		Module string
		Cause  error
	}

	// TypeMismatchError is returned by Lookup when a module has an unexpected type.
	TypeMismatchError struct {
		Module   string
		Expected string
		Actual   string
	}
)

func (e *MissingModulesError) Error() string {
	return "could not find the following modules:\n - " + strings.Join(e.Names, "\n - ")
}

// Unwrap returns ErrConfiguration for errors.Is() compatibility.
func (e *MissingModulesError) Unwrap() error { return ErrConfiguration }

func (e *MissingDependenciesError) Error() string {
	lines := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		lines[i] = fmt.Sprintf("%s (required by %s)", m.Name, strings.Join(m.RequiredBy, ", "))
	}
	return "could not find the following dependencies:\n - " + strings.Join(lines, "\n - ")
}

// Unwrap returns ErrConfiguration for errors.Is() compatibility.
func (e *MissingDependenciesError) Unwrap() error { return ErrConfiguration }

func (e *DuplicateShortNameError) Error() string {
	lines := make([]string, len(e.Duplicates))
	for i, d := range e.Duplicates {
		lines[i] = fmt.Sprintf("%s (shared by %s)", d.ShortName, strings.Join(d.Modules, ", "))
	}
	return "configured modules must have unique short names:\n - " + strings.Join(lines, "\n - ")
}

// Unwrap returns ErrConfiguration for errors.Is() compatibility.
func (e *DuplicateShortNameError) Unwrap() error { return ErrConfiguration }

func (e *InitializationError) Error() string {
	msg := fmt.Sprintf("cannot initialize %s: %s", e.Module, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches ErrInitialization.
func (e *InitializationError) Is(target error) bool { return target == ErrInitialization }

// Unwrap returns the underlying cause, if any.
func (e *InitializationError) Unwrap() error { return e.Cause }

func (e *CycleError) Error() string {
	lines := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		lines[i] = dag.FormatPath(c)
	}
	return fmt.Sprintf("dependency loop during %s:\n - %s", e.Operation, strings.Join(lines, "\n - "))
}

// Unwrap returns the solver error, which wraps ErrCycle.
func (e *CycleError) Unwrap() error { return e.Cause }

func (e *EmptyDeferralError) Error() string {
	return fmt.Sprintf("module %s deferred finalization without naming any module", e.Module)
}

// Unwrap returns ErrInitialization for errors.Is() compatibility.
func (e *EmptyDeferralError) Unwrap() error { return ErrInitialization }

func (e *UnknownDeferralTargetError) Error() string {
	return fmt.Sprintf("module %s awaits the finalization of modules that were not configured:\n - %s",
		e.Module, strings.Join(e.Unknown, "\n - "))
}

// Unwrap returns ErrInitialization for errors.Is() compatibility.
func (e *UnknownDeferralTargetError) Unwrap() error { return ErrInitialization }

func (e *InconsistentDeferralError) Error() string {
	return fmt.Sprintf("module %s changed its finalization dependencies (deferred again on %s)",
		e.Module, strings.Join(e.WaitFor, ", "))
}

// Unwrap returns ErrInitialization for errors.Is() compatibility.
func (e *InconsistentDeferralError) Unwrap() error { return ErrInitialization }

func (e *FinalizationFailedError) Error() string {
	return fmt.Sprintf("cannot finalize %s: %v", e.Module, e.Cause)
}

// Is matches ErrInitialization.
func (e *FinalizationFailedError) Is(target error) bool { return target == ErrInitialization }

// Unwrap returns the failure reported by the module.
func (e *FinalizationFailedError) Unwrap() error { return e.Cause }

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("module %s has type %s, expected %s", e.Module, e.Actual, e.Expected)
}
