package core

import "sync"

// RetryEvent describes one retry of a request after a transient failure.
type RetryEvent struct {
	// Remaining is the number of retries left after this one.
	Remaining int
	// Attempt is the 1-based number of the attempt that failed.
	Attempt int
	URL     string
	Err     error
}

// Events fans out notifications to subscribers. Handlers run synchronously on
// the goroutine performing the request and must not block.
type Events struct {
	mu      sync.RWMutex
	retry   []func(RetryEvent)
	verbose []func(string)
}

// OnRetry subscribes fn to retry notifications.
func (e *Events) OnRetry(fn func(RetryEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.retry = append(e.retry, fn)
}

// OnVerboseLog subscribes fn to verbose progress messages.
func (e *Events) OnVerboseLog(fn func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.verbose = append(e.verbose, fn)
}

func (e *Events) emitRetry(ev RetryEvent) {
	e.mu.RLock()
	handlers := e.retry
	e.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

func (e *Events) emitVerbose(msg string) {
	e.mu.RLock()
	handlers := e.verbose
	e.mu.RUnlock()
	for _, fn := range handlers {
		fn(msg)
	}
}
