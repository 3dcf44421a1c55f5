// SPDX-License-Identifier: MPL-2.0

// Package builtin provides the modules bundled with the modboot binary:
//
//   - modboot.clock: a time source, optionally fixed for reproducible runs
//   - modboot.store: a bounded in-memory key/value store
//   - modboot.cache: a write-back cache in front of the store, flushed on finalize
//   - modboot.audit: an event log persisted to the store once the cache is flushed
package builtin
