// mergeContext composes the inner (caller-supplied, terminal) and outer
// (worker/shutdown, transient) cancellation sources into one effective
// context, along with a way to tell which one fired.

package taskforge_internal

import (
	"context"
	"sync"
)

// mergeContext returns a context done when either inner or outer is done,
// and a cancel func the caller must invoke to release the watcher goroutine
// once the effective context is no longer needed.
func mergeContext(inner, outer context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	go func() {
		select {
		case <-inner.Done():
		case <-outer.Done():
		case <-stop:
		}
		cancel()
	}()
	var once sync.Once
	release := func() {
		once.Do(func() { close(stop) })
		cancel()
	}
	return merged, release
}
