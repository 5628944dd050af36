// TaskWrapper is the one-shot envelope around a unit plus its retry budget,
// cancellation link and completion slot. Built around a bool-returning
// action shape, widened to a richer {done,retry} x {value,error,cancelled}
// outcome.

package taskforge_internal

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// TaskWrapper wraps a callable of shape action[A,R]: A is the argument kind
// (struct{} for work, a resource T for access, a ConveyorMachine[D,R] for
// conveyors), R is the result type.
type TaskWrapper[A, R any] struct {
	id      uint64
	action  action[A, R]
	inner   context.Context
	future  *Future[R]
	badData func(error) bool // conveyor-only terminal-error classifier; nil otherwise

	mu                sync.Mutex
	attemptsRemaining int32
}

var wrapperIDCounter struct {
	mu  sync.Mutex
	cur uint64
}

func nextWrapperID() uint64 {
	wrapperIDCounter.mu.Lock()
	defer wrapperIDCounter.mu.Unlock()
	wrapperIDCounter.cur++
	return wrapperIDCounter.cur
}

func newTaskWrapper[A, R any](act action[A, R], attempts int, inner context.Context, badData func(error) bool) *TaskWrapper[A, R] {
	if inner == nil {
		inner = context.Background()
	}
	attempts = ClampAttempts(attempts, QUEUE_DEFAULTS_MAX_ATTEMPTS_DEFAULT)
	return &TaskWrapper[A, R]{
		id:                nextWrapperID(),
		action:            act,
		inner:             inner,
		future:            NewFuture[R](),
		badData:           badData,
		attemptsRemaining: int32(attempts),
	}
}

// NewWorkWrapper builds a TaskWrapper for the "none" argument source.
func NewWorkWrapper[R any](unit UnitFunc[R], attempts int, inner context.Context) *TaskWrapper[struct{}, R] {
	return newTaskWrapper(WorkAction(unit), attempts, inner, nil)
}

// NewAccessWrapper builds a TaskWrapper for a resource-argument unit.
func NewAccessWrapper[T, R any](unit AccessFunc[T, R], attempts int, inner context.Context) *TaskWrapper[T, R] {
	return newTaskWrapper(AccessAction(unit), attempts, inner, nil)
}

// NewConveyorWrapper builds a TaskWrapper for a single datum processed by
// whichever ConveyorMachine[D,R] the processor's reuse strategy supplies.
// badData, if non-nil, classifies an error as terminal regardless of
// remaining attempts.
func NewConveyorWrapper[D, R any](data D, attempts int, inner context.Context, badData func(error) bool) *TaskWrapper[ConveyorMachine[D, R], R] {
	return newTaskWrapper(ConveyorAction[D, R](data), attempts, inner, badData)
}

func (w *TaskWrapper[A, R]) ID() uint64           { return w.id }
func (w *TaskWrapper[A, R]) Future() *Future[R]   { return w.future }
func (w *TaskWrapper[A, R]) IsCompleted() bool    { return w.future.IsCompleted() }
func (w *TaskWrapper[A, R]) IsCanceled() bool     { return w.future.IsCanceled() }
func (w *TaskWrapper[A, R]) IsFaulted() bool      { return w.future.IsFaulted() }

// Execute runs one attempt and returns true ("done": the wrapper will never
// be executed again) or false ("retry": revert it to its manager). outer is
// the worker/host shutdown token.
func (w *TaskWrapper[A, R]) Execute(outer context.Context, arg A, sc ServiceContext, log *logrus.Entry) bool {
	if w.future.IsCompleted() {
		return true
	}

	w.mu.Lock()
	if w.attemptsRemaining < 1 {
		w.mu.Unlock()
		w.future.ResolveError(ErrAttemptsExhausted)
		return true
	}
	w.attemptsRemaining--
	w.mu.Unlock()

	value, err := w.runAction(outer, arg, sc)

	if err == nil {
		w.future.ResolveValue(value)
		return true
	}

	// A panicking action (e.g. a nil unit invoked directly, bypassing
	// Submit-time validation) is recovered in runAction and reported as
	// KindInvalidArgument; it is always terminal, never retried, so the
	// wrapper can't be left pending forever behind a broken unit.
	if kind, ok := KindOf(err); ok && kind == KindInvalidArgument {
		w.future.ResolveError(err)
		return true
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if w.inner.Err() != nil {
			w.future.ResolveCanceled(w.inner.Err())
			return true
		}
		// Outer-only cancellation: transient, does not consume the retry
		// budget. A restart must not lose work.
		w.mu.Lock()
		w.attemptsRemaining++
		remaining := w.attemptsRemaining
		w.mu.Unlock()
		log.Warn("cancelled by runtime")
		if remaining > 0 {
			return false
		}
		w.future.ResolveCanceled(outer.Err())
		return true
	}

	if w.badData != nil && w.badData(err) {
		w.future.ResolveError(Errorf(KindBadData, "%w", err))
		return true
	}

	w.mu.Lock()
	remaining := w.attemptsRemaining
	w.mu.Unlock()
	if remaining > 0 {
		log.WithError(err).Error("task execution failed, will retry")
		return false
	}
	w.future.ResolveError(Errorf(KindBusinessError, "%w", err))
	return true
}

// runAction merges the inner/outer cancellation tokens, invokes the action,
// and always releases the merge watcher goroutine, even if the action
// panics. A panic is recovered and reported as KindInvalidArgument rather
// than propagated, so a broken unit can't escape Execute mid-release and
// strand its wrapper's future unresolved.
func (w *TaskWrapper[A, R]) runAction(outer context.Context, arg A, sc ServiceContext) (value R, err error) {
	effective, release := mergeContext(w.inner, outer)
	defer release()
	defer func() {
		if r := recover(); r != nil {
			err = Errorf(KindInvalidArgument, "task action panicked: %v", r)
		}
	}()
	return w.action(effective, sc, arg)
}
