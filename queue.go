// WorkQueue/PriorityWorkQueue: the "no argument" queue flavor, processors
// over a FIFO or priority TaskManager. Concurrency 1 drains sequentially;
// >1 fans out up to Concurrency units at a time.

package taskforge

import (
	"context"

	taskforge_internal "github.com/taskforge/taskforge/internal"
)

// WorkQueue runs argument-less units FIFO over up to Concurrency workers.
type WorkQueue[R any] struct {
	manager   *taskforge_internal.FIFOManager[struct{}, R]
	processor *taskforge_internal.WorkProcessor[R]
	worker    *taskforge_internal.Worker[struct{}, R]
	sc        ServiceContext
}

// NewWorkQueue builds and starts a WorkQueue. concurrency < 1 is treated as
// 1 (sequential draining).
func NewWorkQueue[R any](concurrency int, sc ServiceContext) *WorkQueue[R] {
	manager := taskforge_internal.NewFIFOManager[struct{}, R]()
	processor := taskforge_internal.NewWorkProcessor[R](concurrency, taskforge_internal.NewCompLogger("work-queue"))
	worker := taskforge_internal.NewWorker[struct{}, R](manager, processor, sc, taskforge_internal.NewCompLogger("work-queue"))
	worker.Start()
	return &WorkQueue[R]{manager: manager, processor: processor, worker: worker, sc: sc}
}

// Submit enqueues unit with the given retry budget and inner cancellation
// token, returning a future that resolves once the unit completes, is
// cancelled, or exhausts its retries.
func (q *WorkQueue[R]) Submit(unit UnitFunc[R], attempts int, inner context.Context) *Future[R] {
	if unit == nil {
		return taskforge_internal.RejectedFuture[R](Errorf(KindInvalidArgument, "nil unit"))
	}
	w := taskforge_internal.NewWorkWrapper(unit, attempts, inner)
	q.manager.Submit(w)
	return w.Future()
}

func (q *WorkQueue[R]) Stop(ctx context.Context) { q.worker.Stop(ctx) }

func (q *WorkQueue[R]) Stats() Uint64Stats { return q.manager.Stats() }

// PriorityWorkQueue is WorkQueue with priority-ordered dispatch, high to
// low, over 0..maxPriority.
type PriorityWorkQueue[R any] struct {
	manager   *taskforge_internal.PriorityManager[struct{}, R]
	processor *taskforge_internal.WorkProcessor[R]
	worker    *taskforge_internal.Worker[struct{}, R]
	sc        ServiceContext
}

func NewPriorityWorkQueue[R any](maxPriority, concurrency int, sc ServiceContext) *PriorityWorkQueue[R] {
	manager := taskforge_internal.NewPriorityManager[struct{}, R](maxPriority)
	processor := taskforge_internal.NewWorkProcessor[R](concurrency, taskforge_internal.NewCompLogger("priority-work-queue"))
	worker := taskforge_internal.NewWorker[struct{}, R](manager, processor, sc, taskforge_internal.NewCompLogger("priority-work-queue"))
	worker.Start()
	return &PriorityWorkQueue[R]{manager: manager, processor: processor, worker: worker, sc: sc}
}

// Submit files unit at priority 0, the manager's default level.
func (q *PriorityWorkQueue[R]) Submit(unit UnitFunc[R], attempts int, inner context.Context) *Future[R] {
	return q.SubmitPriority(unit, 0, attempts, inner)
}

// SubmitPriority files unit at priority, clamped to [0, maxPriority].
func (q *PriorityWorkQueue[R]) SubmitPriority(unit UnitFunc[R], priority, attempts int, inner context.Context) *Future[R] {
	if unit == nil {
		return taskforge_internal.RejectedFuture[R](Errorf(KindInvalidArgument, "nil unit"))
	}
	w := taskforge_internal.NewWorkWrapper(unit, attempts, inner)
	q.manager.SubmitPriority(w, priority)
	return w.Future()
}

func (q *PriorityWorkQueue[R]) Stop(ctx context.Context) { q.worker.Stop(ctx) }

func (q *PriorityWorkQueue[R]) Stats() Uint64Stats { return q.manager.Stats() }
