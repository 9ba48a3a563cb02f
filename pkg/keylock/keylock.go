// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package keylock provides mutual exclusion scoped to a string key.

It serializes the read-decide-write sequences of a single aggregate (e.g. one
book) without blocking unrelated aggregates. Locks are created lazily on first
use and held in memory for the process lifetime.
*/
package keylock

import "sync"

// KeyLock hands out one mutex per key.
//
// # Concurrency
//
// All methods are safe for concurrent use. The zero value is not usable;
// construct with [New].
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs an empty [KeyLock].
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given key, creating it if needed.
// It blocks until the lock is held.
func (l *KeyLock) Lock(key string) {
	l.get(key).Lock()
}

// Unlock releases the mutex for the given key.
// Unlocking a key that was never locked panics, mirroring [sync.Mutex].
func (l *KeyLock) Unlock(key string) {
	l.get(key).Unlock()
}

// get returns the mutex for key, creating it under the registry lock.
func (l *KeyLock) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
