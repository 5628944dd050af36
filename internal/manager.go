// TaskManager: submit / has-work / wait-for-work / take-next / revert,
// signalled at most once per submit/revert via a non-blocking size-1
// notify channel, chosen over sync.Cond because it composes with
// ctx.Done() via select.

package taskforge_internal

import (
	"context"
	"sync"
)

// Manager is the contract Processor/Worker consume. M is the per-take
// metadata opaque to everyone but the specific Manager implementation
// (struct{}{} for FIFO, an int priority index for priority managers).
type Manager[A, R any] interface {
	Submit(w *TaskWrapper[A, R])
	HasTask() bool
	WaitForTask(ctx context.Context) error
	Take() (*TaskWrapper[A, R], any)
	Revert(w *TaskWrapper[A, R], meta any)
	Stats() Uint64Stats
}

type FIFOManager[A, R any] struct {
	mu     sync.Mutex
	c      container[A, R]
	notify chan struct{}
	stats  *CounterBlock
}

func NewFIFOManager[A, R any]() *FIFOManager[A, R] {
	return &FIFOManager[A, R]{
		notify: make(chan struct{}, 1),
		stats:  NewCounterBlock(ManagerStatsCount),
	}
}

func (m *FIFOManager[A, R]) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *FIFOManager[A, R]) Submit(w *TaskWrapper[A, R]) {
	m.mu.Lock()
	m.c.PushTail(w)
	m.mu.Unlock()
	m.stats.Incr(ManagerStatsSubmitted)
	m.signal()
}

func (m *FIFOManager[A, R]) HasTask() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.HasLive()
}

func (m *FIFOManager[A, R]) WaitForTask(ctx context.Context) error {
	if m.HasTask() {
		return nil
	}
	select {
	case <-m.notify:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *FIFOManager[A, R]) Take() (*TaskWrapper[A, R], any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.c.PopFrontLive()
	if w == nil {
		return nil, nil
	}
	m.stats.Incr(ManagerStatsTaken)
	return w, struct{}{}
}

func (m *FIFOManager[A, R]) Revert(w *TaskWrapper[A, R], _ any) {
	m.mu.Lock()
	m.c.PushTail(w)
	m.mu.Unlock()
	m.stats.Incr(ManagerStatsReverted)
	m.signal()
}

func (m *FIFOManager[A, R]) Stats() Uint64Stats { return m.stats.Snap() }
