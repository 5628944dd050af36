// PriorityManager: an array of FIFO containers indexed 0..maxPriority,
// scanned high-to-low on Take. Metadata returned from Take is the priority
// index, so Revert restores it — and, by design, Revert re-files at that
// priority's tail even though newer same-priority work may have arrived
// meanwhile (deliberate: prevents poison-unit starvation from crowding out
// new work).

package taskforge_internal

import (
	"context"
	"sync"
)

type PriorityManager[A, R any] struct {
	mu          sync.Mutex
	containers  []container[A, R]
	maxPriority int
	notify      chan struct{}
	stats       *CounterBlock
}

func NewPriorityManager[A, R any](maxPriority int) *PriorityManager[A, R] {
	if maxPriority < 0 {
		maxPriority = 0
	}
	return &PriorityManager[A, R]{
		containers:  make([]container[A, R], maxPriority+1),
		maxPriority: maxPriority,
		notify:      make(chan struct{}, 1),
		stats:       NewCounterBlock(ManagerStatsCount),
	}
}

func (m *PriorityManager[A, R]) MaxPriority() int { return m.maxPriority }

func (m *PriorityManager[A, R]) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// SubmitPriority clamps priority to [0,maxPriority] and appends to that
// container's tail. Submit (the Manager interface method) always uses
// priority 0, the default container.
func (m *PriorityManager[A, R]) SubmitPriority(w *TaskWrapper[A, R], priority int) {
	priority = ClampPriority(priority, m.maxPriority)
	m.mu.Lock()
	m.containers[priority].PushTail(w)
	m.mu.Unlock()
	m.stats.Incr(ManagerStatsSubmitted)
	m.signal()
}

func (m *PriorityManager[A, R]) Submit(w *TaskWrapper[A, R]) {
	m.SubmitPriority(w, 0)
}

func (m *PriorityManager[A, R]) HasTask() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.containers) - 1; i >= 0; i-- {
		if m.containers[i].HasLive() {
			return true
		}
	}
	return false
}

func (m *PriorityManager[A, R]) WaitForTask(ctx context.Context) error {
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

func (m *PriorityManager[A, R]) Take() (*TaskWrapper[A, R], any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.containers) - 1; i >= 0; i-- {
		if w := m.containers[i].PopFrontLive(); w != nil {
			m.stats.Incr(ManagerStatsTaken)
			return w, i
		}
	}
	return nil, nil
}

func (m *PriorityManager[A, R]) Revert(w *TaskWrapper[A, R], meta any) {
	priority, _ := meta.(int)
	priority = ClampPriority(priority, m.maxPriority)
	m.mu.Lock()
	m.containers[priority].PushTail(w)
	m.mu.Unlock()
	m.stats.Incr(ManagerStatsReverted)
	m.signal()
}

func (m *PriorityManager[A, R]) Stats() Uint64Stats { return m.stats.Snap() }
