// Package lock serializes ledger load+decide+save sequences. Two concurrent
// borrows reading the same availability would both succeed and over-lend, so
// every loan operation runs inside one of these guards.
package lock

import (
	"context"
	"sync"
)

// Guard grants exclusive access to the ledger until the returned release
// function is called.
type Guard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Mutex is the in-process guard, enough for a single service instance.
type Mutex struct {
	mu sync.Mutex
}

func (m *Mutex) Acquire(ctx context.Context) (func(), error) {
	m.mu.Lock()
	return m.mu.Unlock, nil
}
