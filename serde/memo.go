package serde

import "sync"

// memo builds each value at most once per key, however many goroutines ask for
// it at the same time. Failed builds are cached too: a type whose tags are
// wrong stays wrong for the life of the process.
type memo[K comparable, V any] struct {
	entries sync.Map
}

type memoEntry[V any] struct {
	once sync.Once
	val  V
	err  error
}

func (m *memo[K, V]) get(key K, build func() (V, error)) (V, error) {
	e, ok := m.entries.Load(key)
	if !ok {
		e, _ = m.entries.LoadOrStore(key, &memoEntry[V]{})
	}
	entry := e.(*memoEntry[V])
	entry.once.Do(func() {
		entry.val, entry.err = build()
	})
	return entry.val, entry.err
}
