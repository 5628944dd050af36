// AccessQueue/PriorityAccessQueue: units that need an acquired resource T.
// The reuse strategy picks the processor:
// ReuseSingleReusable/ReuseSingleTransient drain through ResourceProcessor
// (one lazily-built or per-batch value); ReuseMultipleStatic drains through
// PoolProcessor over a fixed set of resources with Stoppable start/stop.

package taskforge

import (
	"context"

	taskforge_internal "github.com/taskforge/taskforge/internal"
)

// AccessQueue runs resource-argument units FIFO.
type AccessQueue[T, R any] struct {
	manager   *taskforge_internal.FIFOManager[T, R]
	processor taskforge_internal.Drainer[T, R]
	worker    *taskforge_internal.Worker[T, R]
}

// NewAccessQueue builds and starts an AccessQueue for ReuseSingleReusable or
// ReuseSingleTransient. factory must be non-nil.
func NewAccessQueue[T, R any](strategy ReuseStrategy, factory ArgFactory[T], sc ServiceContext) (*AccessQueue[T, R], error) {
	if factory == nil {
		return nil, Errorf(KindInvalidArgument, "nil argument factory")
	}
	manager := taskforge_internal.NewFIFOManager[T, R]()
	processor := taskforge_internal.NewResourceProcessor[T, R](factory, strategy == ReuseSingleTransient, taskforge_internal.NewCompLogger("access-queue"))
	worker := taskforge_internal.NewWorker[T, R](manager, processor, sc, taskforge_internal.NewCompLogger("access-queue"))
	worker.Start()
	return &AccessQueue[T, R]{manager: manager, processor: processor, worker: worker}, nil
}

// NewPooledAccessQueue builds and starts a ReuseMultipleStatic AccessQueue
// over the fixed resource set pool.
func NewPooledAccessQueue[T, R any](pool []T, sc ServiceContext) (*AccessQueue[T, R], error) {
	if len(pool) == 0 {
		return nil, Errorf(KindInvalidArgument, "empty resource pool")
	}
	manager := taskforge_internal.NewFIFOManager[T, R]()
	processor := taskforge_internal.NewPoolProcessor[T, R](pool, taskforge_internal.NewCompLogger("access-queue-pool"))
	worker := taskforge_internal.NewWorker[T, R](manager, processor, sc, taskforge_internal.NewCompLogger("access-queue-pool"))
	worker.Start()
	return &AccessQueue[T, R]{manager: manager, processor: processor, worker: worker}, nil
}

func (q *AccessQueue[T, R]) Submit(unit AccessFunc[T, R], attempts int, inner context.Context) *Future[R] {
	if unit == nil {
		return taskforge_internal.RejectedFuture[R](Errorf(KindInvalidArgument, "nil unit"))
	}
	w := taskforge_internal.NewAccessWrapper(unit, attempts, inner)
	q.manager.Submit(w)
	return w.Future()
}

func (q *AccessQueue[T, R]) Stop(ctx context.Context) { q.worker.Stop(ctx) }

func (q *AccessQueue[T, R]) Stats() Uint64Stats { return q.manager.Stats() }

// PriorityAccessQueue is AccessQueue with priority-ordered dispatch.
type PriorityAccessQueue[T, R any] struct {
	manager   *taskforge_internal.PriorityManager[T, R]
	processor taskforge_internal.Drainer[T, R]
	worker    *taskforge_internal.Worker[T, R]
}

func NewPriorityAccessQueue[T, R any](maxPriority int, strategy ReuseStrategy, factory ArgFactory[T], sc ServiceContext) (*PriorityAccessQueue[T, R], error) {
	if factory == nil {
		return nil, Errorf(KindInvalidArgument, "nil argument factory")
	}
	manager := taskforge_internal.NewPriorityManager[T, R](maxPriority)
	processor := taskforge_internal.NewResourceProcessor[T, R](factory, strategy == ReuseSingleTransient, taskforge_internal.NewCompLogger("priority-access-queue"))
	worker := taskforge_internal.NewWorker[T, R](manager, processor, sc, taskforge_internal.NewCompLogger("priority-access-queue"))
	worker.Start()
	return &PriorityAccessQueue[T, R]{manager: manager, processor: processor, worker: worker}, nil
}

func NewPooledPriorityAccessQueue[T, R any](maxPriority int, pool []T, sc ServiceContext) (*PriorityAccessQueue[T, R], error) {
	if len(pool) == 0 {
		return nil, Errorf(KindInvalidArgument, "empty resource pool")
	}
	manager := taskforge_internal.NewPriorityManager[T, R](maxPriority)
	processor := taskforge_internal.NewPoolProcessor[T, R](pool, taskforge_internal.NewCompLogger("priority-access-queue-pool"))
	worker := taskforge_internal.NewWorker[T, R](manager, processor, sc, taskforge_internal.NewCompLogger("priority-access-queue-pool"))
	worker.Start()
	return &PriorityAccessQueue[T, R]{manager: manager, processor: processor, worker: worker}, nil
}

func (q *PriorityAccessQueue[T, R]) Submit(unit AccessFunc[T, R], attempts int, inner context.Context) *Future[R] {
	return q.SubmitPriority(unit, 0, attempts, inner)
}

func (q *PriorityAccessQueue[T, R]) SubmitPriority(unit AccessFunc[T, R], priority, attempts int, inner context.Context) *Future[R] {
	if unit == nil {
		return taskforge_internal.RejectedFuture[R](Errorf(KindInvalidArgument, "nil unit"))
	}
	w := taskforge_internal.NewAccessWrapper(unit, attempts, inner)
	q.manager.SubmitPriority(w, priority)
	return w.Future()
}

func (q *PriorityAccessQueue[T, R]) Stop(ctx context.Context) { q.worker.Stop(ctx) }

func (q *PriorityAccessQueue[T, R]) Stats() Uint64Stats { return q.manager.Stats() }

// Errorf is re-exported for hosts constructing their own Kind-tagged errors
// at the same taxonomy units/managers use.
func Errorf(kind Kind, format string, args ...any) *Error {
	return taskforge_internal.Errorf(kind, format, args...)
}
