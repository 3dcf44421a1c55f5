// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"fmt"
	"slices"
)

// Finalize gives every module of sys a chance to finalize, in initialization
// order. Modules that defer are retried once, after the modules they wait for,
// in an order computed by a fresh solver. Modules that are already finalized
// are skipped, so calling Finalize again after success is a no-op.
//
// Any deferral problem, failure or cycle aborts finalization. A system left
// with a failed or deferred module by an aborted run cannot be finalized
// again.
func (in *Initializer) Finalize(sys *System) error {
	if err := checkResumable(sys); err != nil {
		return err
	}

	deferred := make(DependencyMap)
	var deferredOrder []string

	for _, name := range sys.order {
		if sys.Finalized(name) {
			continue
		}
		waitFor, err := in.attempt(sys, name)
		if err != nil {
			return err
		}
		if waitFor == nil {
			continue
		}
		if err := validateDeferral(sys, name, waitFor); err != nil {
			_ = sys.transition(name, StateFailed)
			return err
		}
		if err := sys.transition(name, StateDeferred); err != nil {
			return &InitializationError{Module: name, Reason: "cannot defer finalization", Cause: err}
		}
		in.logger.Debug("module deferred finalization", "module", name, "waitFor", waitFor)
		deferred[name] = waitFor
		deferredOrder = append(deferredOrder, name)
	}

	if len(deferred) == 0 {
		return nil
	}

	order, err := solveOrder(deferred, deferredOrder, "finalization")
	if err != nil {
		return err
	}
	for _, name := range order {
		waitFor, err := in.attempt(sys, name)
		if err != nil {
			return err
		}
		if waitFor != nil {
			_ = sys.transition(name, StateFailed)
			return &InconsistentDeferralError{Module: name, WaitFor: waitFor}
		}
	}
	return nil
}

// checkResumable rejects a system whose earlier finalization was aborted.
func checkResumable(sys *System) error {
	for _, name := range sys.order {
		switch st := sys.State(name); st {
		case StateFailed, StateDeferred:
			return &InitializationError{
				Module: name,
				Reason: fmt.Sprintf("an earlier finalization left the module %s", st),
			}
		}
	}
	return nil
}

// attempt runs one finalization attempt. It returns the deduplicated wait-set
// when the module deferred (non-nil, possibly empty), and nil otherwise.
func (in *Initializer) attempt(sys *System, name string) ([]string, error) {
	e := sys.byName[name]
	in.logger.Debug("finalizing module", "module", name)

	res := e.module.Finalize(sys)
	switch res.Outcome {
	case OutcomeFinalized:
		if err := sys.transition(name, StateFinalized); err != nil {
			return nil, &InitializationError{Module: name, Reason: "cannot finalize", Cause: err}
		}
		return nil, nil
	case OutcomeDeferred:
		waitFor := []string{}
		for _, target := range res.WaitFor {
			if !slices.Contains(waitFor, target) {
				waitFor = append(waitFor, target)
			}
		}
		return waitFor, nil
	case OutcomeFailed:
		_ = sys.transition(name, StateFailed)
		return nil, &FinalizationFailedError{Module: name, Cause: res.Err}
	default:
		_ = sys.transition(name, StateFailed)
		return nil, &InitializationError{
			Module: name,
			Reason: fmt.Sprintf("finalize returned unknown outcome %s", res.Outcome),
		}
	}
}

// validateDeferral checks that a wait-set is non-empty and only names
// configured modules.
func validateDeferral(sys *System, name string, waitFor []string) error {
	if len(waitFor) == 0 {
		return &EmptyDeferralError{Module: name}
	}
	var unknown []string
	for _, target := range waitFor {
		if !sys.Has(target) {
			unknown = append(unknown, target)
		}
	}
	if len(unknown) > 0 {
		return &UnknownDeferralTargetError{Module: name, Unknown: unknown}
	}
	return nil
}
