// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/modboot/modboot/pkg/modinit"
)

// ClockModule is the fully-qualified name of the clock module.
const ClockModule = "modboot.clock"

// Clock is a time source. When configured with "fixed" it always returns
// that instant.
type Clock struct {
	modinit.Base
	loc   *time.Location
	fixed time.Time
}

// Now returns the current time in the configured zone.
func (c *Clock) Now() time.Time {
	if !c.fixed.IsZero() {
		return c.fixed.In(c.loc)
	}
	return time.Now().In(c.loc)
}

// Location returns the configured time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

func setupClock(sc modinit.SetupContext) (any, error) {
	zone := sc.Config.StringOr("zone", "UTC")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("zone: %w", err)
	}

	c := &Clock{Base: modinit.NewBase(sc), loc: loc}
	if fixed, ok := sc.Config.String("fixed"); ok {
		if c.fixed, err = time.Parse(time.RFC3339, fixed); err != nil {
			return nil, fmt.Errorf("fixed: %w", err)
		}
	}
	sc.Logger.Debug("clock ready", "zone", loc, "fixed", !c.fixed.IsZero())
	return c, nil
}
