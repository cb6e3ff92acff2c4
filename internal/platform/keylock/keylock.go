// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
Package keylock provides per-key mutual exclusion for multi-step lifecycle
operations.

The comic lifecycle mutates a database row and a storage folder that share
an id-derived name; those steps are not jointly transactional, so two
requests touching the same comic must be serialized. Locks are scoped to a
single comic id: operations on different comics never contend.
*/
package keylock

import "sync"

// KeyedMutex serializes callers that lock the same int64 key.
//
// Entries are reference-counted and removed once the last holder releases,
// so the map stays proportional to in-flight operations, not to the number
// of comics ever touched.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// New constructs an empty [KeyedMutex].
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]*lockEntry)}
}

// Lock blocks until the exclusive section for key is free and returns the
// matching unlock function.
//
// # Usage
//
//	unlock := locks.Lock(comicID)
//	defer unlock()
func (keyed *KeyedMutex) Lock(key int64) func() {
	keyed.mu.Lock()
	entry, ok := keyed.locks[key]
	if !ok {
		entry = &lockEntry{}
		keyed.locks[key] = entry
	}
	entry.refs++
	keyed.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			keyed.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(keyed.locks, key)
			}
			keyed.mu.Unlock()
		})
	}
}
