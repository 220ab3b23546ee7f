package core

import (
	"context"
	"sync"
)

// AsyncResult is the eventual outcome of an operation started on its own goroutine.
type AsyncResult[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Go runs fn on a new goroutine and returns a handle to its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *AsyncResult[T] {
	ar := &AsyncResult[T]{done: make(chan struct{})}
	go func() {
		value, err := fn(ctx)
		ar.complete(value, err)
	}()
	return ar
}

func (ar *AsyncResult[T]) complete(value T, err error) {
	ar.once.Do(func() {
		ar.value, ar.err = value, err
		close(ar.done)
	})
}

// Done is closed once the result is available.
func (ar *AsyncResult[T]) Done() <-chan struct{} {
	return ar.done
}

// Wait blocks until the operation completes or ctx is done. Abandoning the
// wait does not cancel the operation; cancel the context it was started with.
func (ar *AsyncResult[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ar.done:
		return ar.value, ar.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (ar *AsyncResult[T]) IsSuccess() bool {
	select {
	case <-ar.done:
		return ar.err == nil
	default:
		return false
	}
}

func (ar *AsyncResult[T]) IsFailed() bool {
	select {
	case <-ar.done:
		return ar.err != nil
	default:
		return false
	}
}
