// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package keylock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiori-press/shiori/pkg/keylock"
)

/*
TestKeyLock_Serializes verifies that concurrent holders of the same key
never overlap.
*/
func TestKeyLock_Serializes(t *testing.T) {
	locks := keylock.New()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			locks.Lock("book-1")
			defer locks.Unlock("book-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

/*
TestKeyLock_IndependentKeys verifies that different keys do not block each other.
*/
func TestKeyLock_IndependentKeys(t *testing.T) {
	locks := keylock.New()

	locks.Lock("book-1")

	done := make(chan struct{})
	go func() {
		locks.Lock("book-2")
		locks.Unlock("book-2")
		close(done)
	}()

	// A second key must proceed while the first is held
	<-done

	locks.Unlock("book-1")
}
