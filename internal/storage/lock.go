package storage

import (
	"context"
	"sync"
)

// Locker serializes read-modify-write sequences on one record. Lock blocks
// until key is free or ctx is done and returns the matching unlock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// LocalLocker excludes callers within a single process only. Deployments
// that share a store between instances need the store's own Locker.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	held chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localLock)}
}

func (k *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &localLock{held: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.held <- struct{}{}:
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}
	return func() {
		<-l.held
		k.release(key, l)
	}, nil
}

func (k *LocalLocker) release(key string, l *localLock) {
	k.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

// Pending reports how many keys have holders or waiters.
func (k *LocalLocker) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
