// Unit shapes, collapsed onto Go's single synchronous-call model: one
// generic function type per unit kind, cancellation always carried by ctx.

package taskforge_internal

import "context"

// UnitFunc is a work unit: the work-queue case, argument-less.
type UnitFunc[R any] func(ctx context.Context, sc ServiceContext) (R, error)

// AccessFunc is an access unit: same shape plus the acquired resource.
type AccessFunc[T, R any] func(ctx context.Context, sc ServiceContext, resource T) (R, error)

// ConveyorMachine is a user-supplied stateful transformer from D to R,
// reused across calls per the configured reuse strategy.
type ConveyorMachine[D, R any] interface {
	Process(ctx context.Context, sc ServiceContext, data D) (R, error)
}

// ConveyorMachineFunc adapts a plain function to ConveyorMachine.
type ConveyorMachineFunc[D, R any] func(ctx context.Context, sc ServiceContext, data D) (R, error)

func (f ConveyorMachineFunc[D, R]) Process(ctx context.Context, sc ServiceContext, data D) (R, error) {
	return f(ctx, sc, data)
}

// action is the shape TaskWrapper[A,R] ultimately invokes; unit/access/
// conveyor construction sites all reduce to this.
type action[A, R any] func(ctx context.Context, sc ServiceContext, arg A) (R, error)

// WorkAction adapts a UnitFunc[R] to action[struct{}, R] (argument is
// unused: the work-queue case has no argument source).
func WorkAction[R any](unit UnitFunc[R]) action[struct{}, R] {
	return func(ctx context.Context, sc ServiceContext, _ struct{}) (R, error) {
		return unit(ctx, sc)
	}
}

// AccessAction adapts an AccessFunc[T,R] to action[T, R] directly.
func AccessAction[T, R any](unit AccessFunc[T, R]) action[T, R] {
	return func(ctx context.Context, sc ServiceContext, resource T) (R, error) {
		return unit(ctx, sc, resource)
	}
}

// ConveyorAction closes a single datum D over a ConveyorMachine[D,R],
// producing action[ConveyorMachine[D,R], R] — the machine is the argument
// acquired from the reuse-strategy source, the datum travels with the
// closure.
func ConveyorAction[D, R any](data D) action[ConveyorMachine[D, R], R] {
	return func(ctx context.Context, sc ServiceContext, machine ConveyorMachine[D, R]) (R, error) {
		return machine.Process(ctx, sc, data)
	}
}
