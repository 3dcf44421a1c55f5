// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/modboot/modboot/pkg/modinit"
)

// AuditModule is the fully-qualified name of the audit module.
const AuditModule = "modboot.audit"

// Audit collects events and persists them to the store on finalization.
// When the cache is configured, it waits for the cache to be finalized so
// that its records land after every buffered write.
type Audit struct {
	modinit.Base
	mu     sync.Mutex
	store  *Store
	key    string
	events []string
}

func setupAudit(sc modinit.SetupContext) (any, error) {
	store, ok := modinit.DepAs[*Store](sc, "store")
	if !ok {
		return nil, fmt.Errorf("dependency store is not a *builtin.Store")
	}
	return &Audit{
		Base:  modinit.NewBase(sc),
		store: store,
		key:   sc.Config.StringOr("key", "audit"),
	}, nil
}

// Record appends an event.
func (a *Audit) Record(event string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

// Events returns the recorded events.
func (a *Audit) Events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.events...)
}

// Finalize writes every event to the store under "<key>.<n>" and the event
// count under "<key>.count".
func (a *Audit) Finalize(sys *modinit.System) modinit.FinalizeResult {
	if sys.Has(CacheModule) && !sys.Finalized(CacheModule) {
		return modinit.Defer(CacheModule)
	}

	events := a.Events()
	for i, event := range events {
		if err := a.store.Put(a.key+"."+strconv.Itoa(i), event); err != nil {
			return modinit.Fail(err)
		}
	}
	if err := a.store.Put(a.key+".count", strconv.Itoa(len(events))); err != nil {
		return modinit.Fail(err)
	}
	a.Logger.Debug("audit persisted", "events", len(events))
	return modinit.Done()
}
