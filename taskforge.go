// Package taskforge is the public face of the task engine for its callers.
// The internal package carries the mechanics (managers, processors, workers,
// the scheduler); this package re-exports the types callers actually need
// and assembles them into the ready-to-use queue/conveyor/scheduler
// constructors below.
package taskforge

import (
	taskforge_internal "github.com/taskforge/taskforge/internal"
)

// Core aliases a caller needs regardless of which queue flavor it uses.
type (
	ServiceContext    = taskforge_internal.ServiceContext
	MapServiceContext = taskforge_internal.MapServiceContext

	UnitFunc[R any]               = taskforge_internal.UnitFunc[R]
	AccessFunc[T, R any]          = taskforge_internal.AccessFunc[T, R]
	ConveyorMachine[D, R any]     = taskforge_internal.ConveyorMachine[D, R]
	ConveyorMachineFunc[D, R any] = taskforge_internal.ConveyorMachineFunc[D, R]
	ArgFactory[T any]             = taskforge_internal.ArgFactory[T]

	Future[R any] = taskforge_internal.Future[R]
	Try[R any]    = taskforge_internal.Try[R]
	Stream[R any] = taskforge_internal.Stream[R]

	Uint64Stats = taskforge_internal.Uint64Stats

	Kind  = taskforge_internal.Kind
	Error = taskforge_internal.Error

	Activatable = taskforge_internal.Activatable
	Stoppable   = taskforge_internal.Stoppable
	Throttling  = taskforge_internal.Throttling

	ReuseStrategy = taskforge_internal.ReuseStrategy
)

const (
	KindInvalidArgument   = taskforge_internal.KindInvalidArgument
	KindOutOfRange        = taskforge_internal.KindOutOfRange
	KindNoSuchService     = taskforge_internal.KindNoSuchService
	KindAttemptsExhausted = taskforge_internal.KindAttemptsExhausted
	KindCancelled         = taskforge_internal.KindCancelled
	KindBusinessError     = taskforge_internal.KindBusinessError
	KindBadData           = taskforge_internal.KindBadData

	ReuseSingleReusable  = taskforge_internal.ReuseSingleReusable
	ReuseSingleTransient = taskforge_internal.ReuseSingleTransient
	ReuseMultipleStatic  = taskforge_internal.ReuseMultipleStatic
)

// NewMapServiceContext builds a minimal concurrency-safe ServiceContext a
// host can populate directly without pulling in a DI container.
func NewMapServiceContext() *MapServiceContext {
	return taskforge_internal.NewMapServiceContext()
}

// GetService is a typed lookup helper over a ServiceContext.
func GetService[T any](sc ServiceContext, key any) (T, error) {
	return taskforge_internal.GetService[T](sc, key)
}

// KindOf reports the Kind carried by err, if err is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	return taskforge_internal.KindOf(err)
}
