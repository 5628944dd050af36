// Future is the single-assignment completion slot every TaskWrapper resolves
// exactly once, grounded on joeycumines-go-utilpkg/microbatch's
// JobResult[Job].Wait(ctx) generic-future idiom and generalized to carry a
// value, a business error, or a cancellation cause.

package taskforge_internal

import (
	"context"
	"sync"
)

// Try is the resolved outcome of a Future: exactly one of Value/Err is
// meaningful, distinguished by Canceled/Err==nil.
type Try[R any] struct {
	Value    R
	Err      error
	Canceled bool
}

func (t Try[R]) IsSuccess() bool { return !t.Canceled && t.Err == nil }

type futureState int

const (
	futurePending futureState = iota
	futureValue
	futureError
	futureCanceled
)

type Future[R any] struct {
	mu    sync.Mutex
	done  chan struct{}
	state futureState
	value R
	err   error
}

func NewFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// RejectedFuture returns an already-resolved future carrying err, for
// submission paths that must reject synchronously (e.g. a nil unit) without
// ever handing a wrapper to a manager/worker.
func RejectedFuture[R any](err error) *Future[R] {
	f := NewFuture[R]()
	f.ResolveError(err)
	return f
}

func (f *Future[R]) resolve(state futureState, value R, err error) bool {
	f.mu.Lock()
	if f.state != futurePending {
		f.mu.Unlock()
		return false
	}
	f.state = state
	f.value = value
	f.err = err
	f.mu.Unlock()
	close(f.done)
	return true
}

// ResolveValue completes the future with a success value. A no-op if the
// future is already resolved: subsequent calls on a completed wrapper are
// no-ops.
func (f *Future[R]) ResolveValue(v R) bool { return f.resolve(futureValue, v, nil) }

// ResolveError completes the future with a business/terminal error.
func (f *Future[R]) ResolveError(err error) bool {
	var zero R
	return f.resolve(futureError, zero, err)
}

// ResolveCanceled completes the future as cancelled, carrying the
// cancellation cause (either the inner token's Err() or, on final shutdown,
// the outer token's Err()).
func (f *Future[R]) ResolveCanceled(cause error) bool {
	var zero R
	return f.resolve(futureCanceled, zero, cause)
}

func (f *Future[R]) IsCompleted() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[R]) IsCanceled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == futureCanceled
}

func (f *Future[R]) IsFaulted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == futureError
}

// Try returns the resolved outcome, blocking only if not yet completed; call
// after IsCompleted() or Wait() to avoid blocking.
func (f *Future[R]) Try() Try[R] {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return Try[R]{Value: f.value, Err: f.err, Canceled: f.state == futureCanceled}
}

// Wait blocks until the future resolves or ctx is done, whichever first.
func (f *Future[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		t := f.Try()
		if t.Canceled {
			if t.Err != nil {
				return t.Value, t.Err
			}
			return t.Value, context.Canceled
		}
		return t.Value, t.Err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Done exposes the completion channel directly, e.g. for select statements
// that also watch other events.
func (f *Future[R]) Done() <-chan struct{} { return f.done }
