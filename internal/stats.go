// Counter-block stats: a small mutex-guarded slice of counters addressed by
// iota indices, copied out whole by Snap. In-process only, no
// metrics-registry wiring.

package taskforge_internal

import "sync"

type Uint64Stats []uint64

func NewUint64Stats(n int) Uint64Stats {
	return make(Uint64Stats, n)
}

// CounterBlock is embedded by Manager/Processor/Worker/Scheduler stats.
type CounterBlock struct {
	mu     sync.Mutex
	counts Uint64Stats
}

func NewCounterBlock(n int) *CounterBlock {
	return &CounterBlock{counts: NewUint64Stats(n)}
}

func (c *CounterBlock) Incr(i int) {
	c.mu.Lock()
	c.counts[i]++
	c.mu.Unlock()
}

func (c *CounterBlock) Add(i int, delta uint64) {
	c.mu.Lock()
	c.counts[i] += delta
	c.mu.Unlock()
}

// Snap copies the current counters into a fresh slice.
func (c *CounterBlock) Snap() Uint64Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Uint64Stats, len(c.counts))
	copy(out, c.counts)
	return out
}

// Manager stats indices.
const (
	ManagerStatsSubmitted = iota
	ManagerStatsTaken
	ManagerStatsReverted
	ManagerStatsDroppedCanceled
	ManagerStatsCount
)

// Processor stats indices.
const (
	ProcessorStatsExecuted = iota
	ProcessorStatsRetried
	ProcessorStatsCompleted
	ProcessorStatsCanceled
	ProcessorStatsFaulted
	ProcessorStatsActivationFailures
	ProcessorStatsCount
)

// Worker stats indices.
const (
	WorkerStatsDrainCycles = iota
	WorkerStatsWaits
	WorkerStatsPanicsRecovered
	WorkerStatsCount
)

// Scheduler stats indices.
const (
	SchedulerStatsScheduled = iota
	SchedulerStatsExecuted
	SchedulerStatsRescheduled
	SchedulerStatsDropped
	SchedulerStatsOverrun
	SchedulerStatsCount
)
