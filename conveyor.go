// Conveyor/PriorityConveyor: stateful D->R transformers, reused across
// data items per the configured reuse strategy exactly like AccessQueue,
// but the "resource" is a
// ConveyorMachine[D,R] and each submission carries its own datum rather
// than supplying the machine itself.

package taskforge

import (
	"context"

	taskforge_internal "github.com/taskforge/taskforge/internal"
)

type Conveyor[D, R any] struct {
	manager   *taskforge_internal.FIFOManager[ConveyorMachine[D, R], R]
	processor taskforge_internal.Drainer[ConveyorMachine[D, R], R]
	worker    *taskforge_internal.Worker[ConveyorMachine[D, R], R]
}

// NewConveyor builds and starts a Conveyor for ReuseSingleReusable or
// ReuseSingleTransient, reusing (or rebuilding, if transient) one machine
// instance across submitted data.
func NewConveyor[D, R any](strategy ReuseStrategy, factory ArgFactory[ConveyorMachine[D, R]], sc ServiceContext) (*Conveyor[D, R], error) {
	if factory == nil {
		return nil, Errorf(KindInvalidArgument, "nil machine factory")
	}
	manager := taskforge_internal.NewFIFOManager[ConveyorMachine[D, R], R]()
	processor := taskforge_internal.NewResourceProcessor[ConveyorMachine[D, R], R](factory, strategy == ReuseSingleTransient, taskforge_internal.NewCompLogger("conveyor"))
	worker := taskforge_internal.NewWorker[ConveyorMachine[D, R], R](manager, processor, sc, taskforge_internal.NewCompLogger("conveyor"))
	worker.Start()
	return &Conveyor[D, R]{manager: manager, processor: processor, worker: worker}, nil
}

// NewPooledConveyor builds and starts a ReuseMultipleStatic Conveyor over a
// fixed set of machine instances.
func NewPooledConveyor[D, R any](machines []ConveyorMachine[D, R], sc ServiceContext) (*Conveyor[D, R], error) {
	if len(machines) == 0 {
		return nil, Errorf(KindInvalidArgument, "empty machine pool")
	}
	manager := taskforge_internal.NewFIFOManager[ConveyorMachine[D, R], R]()
	processor := taskforge_internal.NewPoolProcessor[ConveyorMachine[D, R], R](machines, taskforge_internal.NewCompLogger("conveyor-pool"))
	worker := taskforge_internal.NewWorker[ConveyorMachine[D, R], R](manager, processor, sc, taskforge_internal.NewCompLogger("conveyor-pool"))
	worker.Start()
	return &Conveyor[D, R]{manager: manager, processor: processor, worker: worker}, nil
}

// Submit feeds one datum through whichever machine the reuse strategy
// supplies next. badData, if non-nil, classifies an error returned by the
// machine as terminal (KindBadData) regardless of remaining attempts.
//
// Unlike WorkQueue/AccessQueue, there's no unit argument here to reject
// up front: data is a plain value, not a callable, and the machine that
// will process it comes from the factory/pool, already checked non-nil at
// construction. A machine that slips through nil anyway panics inside
// TaskWrapper.runAction, which recovers it into a terminal
// KindInvalidArgument rather than leaving the future unresolved.
func (c *Conveyor[D, R]) Submit(data D, attempts int, inner context.Context, badData func(error) bool) *Future[R] {
	w := taskforge_internal.NewConveyorWrapper[D, R](data, attempts, inner, badData)
	c.manager.Submit(w)
	return w.Future()
}

func (c *Conveyor[D, R]) Stop(ctx context.Context) { c.worker.Stop(ctx) }

func (c *Conveyor[D, R]) Stats() Uint64Stats { return c.manager.Stats() }

// PriorityConveyor is Conveyor with priority-ordered dispatch.
type PriorityConveyor[D, R any] struct {
	manager   *taskforge_internal.PriorityManager[ConveyorMachine[D, R], R]
	processor taskforge_internal.Drainer[ConveyorMachine[D, R], R]
	worker    *taskforge_internal.Worker[ConveyorMachine[D, R], R]
}

func NewPriorityConveyor[D, R any](maxPriority int, strategy ReuseStrategy, factory ArgFactory[ConveyorMachine[D, R]], sc ServiceContext) (*PriorityConveyor[D, R], error) {
	if factory == nil {
		return nil, Errorf(KindInvalidArgument, "nil machine factory")
	}
	manager := taskforge_internal.NewPriorityManager[ConveyorMachine[D, R], R](maxPriority)
	processor := taskforge_internal.NewResourceProcessor[ConveyorMachine[D, R], R](factory, strategy == ReuseSingleTransient, taskforge_internal.NewCompLogger("priority-conveyor"))
	worker := taskforge_internal.NewWorker[ConveyorMachine[D, R], R](manager, processor, sc, taskforge_internal.NewCompLogger("priority-conveyor"))
	worker.Start()
	return &PriorityConveyor[D, R]{manager: manager, processor: processor, worker: worker}, nil
}

func (c *PriorityConveyor[D, R]) Submit(data D, attempts int, inner context.Context, badData func(error) bool) *Future[R] {
	return c.SubmitPriority(data, 0, attempts, inner, badData)
}

func (c *PriorityConveyor[D, R]) SubmitPriority(data D, priority, attempts int, inner context.Context, badData func(error) bool) *Future[R] {
	w := taskforge_internal.NewConveyorWrapper[D, R](data, attempts, inner, badData)
	c.manager.SubmitPriority(w, priority)
	return w.Future()
}

func (c *PriorityConveyor[D, R]) Stop(ctx context.Context) { c.worker.Stop(ctx) }

func (c *PriorityConveyor[D, R]) Stats() Uint64Stats { return c.manager.Stats() }
