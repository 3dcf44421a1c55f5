// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/modboot/modboot/pkg/modinit"
)

// StoreModule is the fully-qualified name of the store module.
const StoreModule = "modboot.store"

const defaultCapacity = 128

// ErrStoreFull is returned by Put when the store holds Capacity keys.
var ErrStoreFull = errors.New("store is full")

type (
	// Store is a bounded in-memory key/value store. It is safe for concurrent use.
	Store struct {
		modinit.Base
		mu       sync.RWMutex
		capacity int
		entries  map[string]Entry
		clock    *Clock
	}

	// Entry is a stored value with its write time. Written is zero when no
	// clock is configured.
	Entry struct {
		Value   string
		Written time.Time
	}
)

func setupStore(sc modinit.SetupContext) (any, error) {
	capacity, err := sc.Config.Int("capacity", defaultCapacity)
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	clock, _ := modinit.DepAs[*Clock](sc, "clock")
	return &Store{
		Base:     modinit.NewBase(sc),
		capacity: capacity,
		entries:  make(map[string]Entry),
		clock:    clock,
	}, nil
}

// Put stores value under key. Overwriting an existing key never fails.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		return fmt.Errorf("%w: capacity %d reached storing %q", ErrStoreFull, s.capacity, key)
	}
	e := Entry{Value: value}
	if s.clock != nil {
		e.Written = s.clock.Now()
	}
	s.entries[key] = e
	return nil
}

// Get returns the entry stored under key.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Keys returns the stored keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Capacity returns the maximum number of keys.
func (s *Store) Capacity() int {
	return s.capacity
}
