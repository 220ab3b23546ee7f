package core

import (
	"context"
	"strings"
	"sync"
)

// keyLock is a mutex that can be abandoned while waiting.
type keyLock struct {
	ch  chan struct{}
	ref int
}

// KeyLocker serializes work per key. Locks are created on first use and
// released once nobody holds or waits for them.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	sep   string
}

func NewKeyLocker() *KeyLocker {
	return &KeyLocker{locks: map[string]*keyLock{}, sep: "|"}
}

func (kl *KeyLocker) key(parts []string) string {
	return strings.Join(parts, kl.sep)
}

// Lock blocks until the key is free and returns the unlock function.
func (kl *KeyLocker) Lock(parts ...string) func() {
	unlock, _ := kl.LockContext(context.Background(), parts...)
	return unlock
}

// LockContext is Lock that gives up when ctx is done.
func (kl *KeyLocker) LockContext(ctx context.Context, parts ...string) (func(), error) {
	key := kl.key(parts)

	kl.mu.Lock()
	lock, ok := kl.locks[key]
	if !ok {
		lock = &keyLock{ch: make(chan struct{}, 1)}
		kl.locks[key] = lock
	}
	lock.ref++
	kl.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		kl.release(key, lock)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			kl.release(key, lock)
		})
	}, nil
}

func (kl *KeyLocker) release(key string, lock *keyLock) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	lock.ref--
	if lock.ref == 0 {
		delete(kl.locks, key)
	}
}

// size is the number of live locks.
func (kl *KeyLocker) size() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.locks)
}
