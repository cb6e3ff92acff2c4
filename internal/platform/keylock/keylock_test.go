// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

package keylock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panelku/panelku/internal/platform/keylock"
)

/*
TestKeyedMutex_SerializesSameKey runs many goroutines against one key and
checks the critical section never overlaps.
*/
func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	locks := keylock.New()

	const goroutines = 50
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(15)
			defer unlock()

			// Unsynchronized increment; only safe if the lock works.
			counter++
		}()
	}

	wg.Wait()
	assert.Equal(t, goroutines, counter)
}

/*
TestKeyedMutex_IndependentKeys verifies that a held lock on one comic does
not block another comic's lifecycle.
*/
func TestKeyedMutex_IndependentKeys(t *testing.T) {
	locks := keylock.New()

	unlockA := locks.Lock(1)
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlockB := locks.Lock(2)
		defer unlockB()
		close(acquired)
	}()

	// Lock(2) must succeed while Lock(1) is held.
	<-acquired
}

/*
TestKeyedMutex_UnlockIsIdempotent ensures a double unlock does not panic or
corrupt the entry table.
*/
func TestKeyedMutex_UnlockIsIdempotent(t *testing.T) {
	locks := keylock.New()

	unlock := locks.Lock(9)
	unlock()
	unlock()

	// The key must be reacquirable afterwards.
	again := locks.Lock(9)
	again()
}
