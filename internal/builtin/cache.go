// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"sync"
	"time"

	"github.com/modboot/modboot/pkg/modinit"
)

// CacheModule is the fully-qualified name of the cache module.
const CacheModule = "modboot.cache"

const defaultTTL = time.Minute

type (
	// Cache is a write-back cache in front of a Store. Writes are buffered
	// until Flush or finalization. Reads of buffered keys never reach the
	// store; other reads are cached for TTL.
	Cache struct {
		modinit.Base
		mu      sync.Mutex
		store   *Store
		clock   *Clock
		ttl     time.Duration
		dirty   map[string]string
		order   []string
		entries map[string]cached
	}

	cached struct {
		value   string
		expires time.Time
	}
)

func setupCache(sc modinit.SetupContext) (any, error) {
	store, ok := modinit.DepAs[*Store](sc, "store")
	if !ok {
		return nil, fmt.Errorf("dependency store is not a *builtin.Store")
	}
	ttl, err := sc.Config.Duration("ttl", defaultTTL)
	if err != nil {
		return nil, err
	}
	clock, _ := modinit.DepAs[*Clock](sc, "clock")
	return &Cache{
		Base:    modinit.NewBase(sc),
		store:   store,
		clock:   clock,
		ttl:     ttl,
		dirty:   make(map[string]string),
		entries: make(map[string]cached),
	}, nil
}

// Set buffers a write of value under key.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dirty[key]; !ok {
		c.order = append(c.order, key)
	}
	c.dirty[key] = value
	c.entries[key] = cached{value: value, expires: c.now().Add(c.ttl)}
}

// Get returns the value under key, reading through to the store on a miss.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.dirty[key]; ok {
		return v, true
	}
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		return e.value, true
	}
	e, ok := c.store.Get(key)
	if !ok {
		delete(c.entries, key)
		return "", false
	}
	c.entries[key] = cached{value: e.Value, expires: c.now().Add(c.ttl)}
	return e.Value, true
}

// Pending returns the number of buffered writes.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dirty)
}

// Flush writes every buffered value to the store in write order. Values that
// could not be written stay buffered.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, key := range c.order {
		if err := c.store.Put(key, c.dirty[key]); err != nil {
			c.order = c.order[i:]
			return fmt.Errorf("flush %s: %w", key, err)
		}
		delete(c.dirty, key)
	}
	c.order = c.order[:0]
	return nil
}

// Finalize flushes buffered writes.
func (c *Cache) Finalize(*modinit.System) modinit.FinalizeResult {
	pending := c.Pending()
	if err := c.Flush(); err != nil {
		return modinit.Fail(err)
	}
	c.Logger.Debug("cache flushed", "writes", pending)
	return modinit.Done()
}

func (c *Cache) now() time.Time {
	if c.clock != nil {
		return c.clock.Now()
	}
	return time.Now()
}
