// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"github.com/modboot/modboot/pkg/modinit"
)

// Definitions returns the bundled module definitions.
func Definitions() []modinit.Definition {
	return []modinit.Definition{
		{Name: ClockModule, Setup: setupClock},
		{
			Name:     StoreModule,
			Requires: []modinit.Dependency{{Name: "clock", Optional: true}},
			Setup:    setupStore,
		},
		{
			Name:     CacheModule,
			Requires: []modinit.Dependency{{Name: "store"}, {Name: "clock", Optional: true}},
			Setup:    setupCache,
		},
		{
			Name:     AuditModule,
			Requires: []modinit.Dependency{{Name: "store"}},
			Setup:    setupAudit,
		},
	}
}

// Register adds every bundled module to reg.
func Register(reg *modinit.Registry) error {
	for _, def := range Definitions() {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a Registry holding the bundled modules.
func NewRegistry() *modinit.Registry {
	reg := modinit.NewRegistry()
	for _, def := range Definitions() {
		reg.MustRegister(def)
	}
	return reg
}
