// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"errors"
	"fmt"
)

const (
	// StatePending indicates finalization has not been attempted yet.
	StatePending FinalizationState = iota
	// StateDeferred indicates the module waits for other modules to finalize.
	StateDeferred
	// StateFinalized is terminal: the module completed finalization.
	StateFinalized
	// StateFailed is terminal: finalization of the module failed.
	StateFailed
)

// ErrInvalidState is returned when a FinalizationState value is not defined.
var ErrInvalidState = errors.New("invalid finalization state")

type (
	// FinalizationState is the finalization lifecycle state of a module.
	FinalizationState int32

	// InvalidStateError is returned when a FinalizationState value is not recognized.
	// It wraps ErrInvalidState for errors.Is() compatibility.
	InvalidStateError struct {
		Value FinalizationState
	}
)

// String returns a human-readable representation of the state.
func (s FinalizationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDeferred:
		return "deferred"
	case StateFinalized:
		return "finalized"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validate returns nil if s is one of the defined states.
func (s FinalizationState) Validate() error {
	switch s {
	case StatePending, StateDeferred, StateFinalized, StateFailed:
		return nil
	default:
		return &InvalidStateError{Value: s}
	}
}

// IsTerminal returns true for Finalized and Failed.
func (s FinalizationState) IsTerminal() bool {
	return s == StateFinalized || s == StateFailed
}

// canTransition reports whether the finalization state machine allows s -> next.
// Pending may go to any state, Deferred may only complete, terminal states stay put.
func (s FinalizationState) canTransition(next FinalizationState) bool {
	switch s {
	case StatePending:
		return next != StatePending
	case StateDeferred:
		return next == StateFinalized || next == StateFailed
	default:
		return false
	}
}

// Error implements the error interface for InvalidStateError.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid finalization state %d (valid: 0=pending, 1=deferred, 2=finalized, 3=failed)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
