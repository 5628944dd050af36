// Concrete ScheduledTaskWrapper variants: delayed (one-shot), repeated
// (fixed period), cron (robfig/cron-driven). Each occurrence runs a
// fresh TaskWrapper to completion (looping internally to exhaust its own
// retry budget, or until the outer token is done) before deciding
// reschedule/drop.

package taskforge_internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func runToCompletion[R any](ctx context.Context, tw *TaskWrapper[struct{}, R], sc ServiceContext, log *logrus.Entry) {
	for {
		if tw.Execute(ctx, struct{}{}, sc, log) {
			return
		}
		// Outer-only cancellation hands the attempt back as a retry; once the
		// outer token is done no further attempt can succeed, so resolve the
		// occurrence cancelled with the outer token's cause.
		if ctx.Err() != nil {
			tw.Future().ResolveCanceled(ctx.Err())
			return
		}
	}
}

// delayedWrapper is a one-shot occurrence; its future is allocated at
// construction time, before the schedule is ever added to the store, so
// callers never observe a nil future while the occurrence is pending.
type delayedWrapper[R any] struct {
	unit     UnitFunc[R]
	attempts int
	inner    context.Context
	future   *Future[R]
}

func newDelayedWrapper[R any](unit UnitFunc[R], attempts int, inner context.Context) *delayedWrapper[R] {
	return &delayedWrapper[R]{unit: unit, attempts: attempts, inner: inner, future: NewFuture[R]()}
}

func (d *delayedWrapper[R]) Fire(ctx context.Context, sc ServiceContext, log *logrus.Entry, _ time.Time) (time.Time, bool) {
	tw := NewWorkWrapper(d.unit, d.attempts, d.inner)
	runToCompletion(ctx, tw, sc, log)
	outcome := tw.Future().Try()
	switch {
	case outcome.Canceled:
		d.future.ResolveCanceled(outcome.Err)
	case outcome.Err != nil:
		d.future.ResolveError(outcome.Err)
	default:
		d.future.ResolveValue(outcome.Value)
	}
	return time.Time{}, false
}

// repeatedWrapper fires on a fixed nominal period; occurrences push onto an
// observable stream instead of resolving a single future.
type repeatedWrapper[R any] struct {
	unit      UnitFunc[R]
	attempts  int
	inner     context.Context
	period    time.Duration
	remaining int // -1 == unlimited
	stream    *Stream[R]
}

func newRepeatedWrapper[R any](unit UnitFunc[R], attempts int, inner context.Context, period time.Duration, execCount int) *repeatedWrapper[R] {
	return &repeatedWrapper[R]{
		unit:      unit,
		attempts:  attempts,
		inner:     inner,
		period:    period,
		remaining: execCount,
		stream:    NewStream[R](),
	}
}

func (r *repeatedWrapper[R]) decrement() {
	if r.remaining > 0 {
		r.remaining--
	}
}

func (r *repeatedWrapper[R]) Fire(ctx context.Context, sc ServiceContext, log *logrus.Entry, due time.Time) (time.Time, bool) {
	if r.inner.Err() != nil {
		r.stream.Complete()
		return time.Time{}, false
	}

	tw := NewWorkWrapper(r.unit, r.attempts, r.inner)
	runToCompletion(ctx, tw, sc, log)
	outcome := tw.Future().Try()

	switch {
	case outcome.Canceled:
		if r.inner.Err() != nil {
			r.stream.Complete()
			return time.Time{}, false
		}
		// Outer-final cancellation: the occurrence did not complete, so the
		// counter is not decremented, but the schedule carries on.
	case outcome.Err != nil:
		r.stream.Error(outcome.Err)
		r.decrement()
	default:
		r.stream.Next(outcome.Value)
		r.decrement()
	}

	if r.remaining == 0 {
		r.stream.Complete()
		return time.Time{}, false
	}
	return due.Add(r.period), true
}

// cronWrapper fires on CronExpression-computed occurrences, over UTC,
// converted to local time.
type cronWrapper[R any] struct {
	unit      UnitFunc[R]
	attempts  int
	inner     context.Context
	schedule  cron.Schedule
	remaining int
	stream    *Stream[R]
}

func newCronWrapper[R any](unit UnitFunc[R], attempts int, inner context.Context, schedule cron.Schedule, execCount int) *cronWrapper[R] {
	return &cronWrapper[R]{
		unit:      unit,
		attempts:  attempts,
		inner:     inner,
		schedule:  schedule,
		remaining: execCount,
		stream:    NewStream[R](),
	}
}

func (c *cronWrapper[R]) decrement() {
	if c.remaining > 0 {
		c.remaining--
	}
}

func (c *cronWrapper[R]) Fire(ctx context.Context, sc ServiceContext, log *logrus.Entry, _ time.Time) (time.Time, bool) {
	if c.inner.Err() != nil {
		c.stream.Complete()
		return time.Time{}, false
	}

	tw := NewWorkWrapper(c.unit, c.attempts, c.inner)
	runToCompletion(ctx, tw, sc, log)
	outcome := tw.Future().Try()

	switch {
	case outcome.Canceled:
		if c.inner.Err() != nil {
			c.stream.Complete()
			return time.Time{}, false
		}
	case outcome.Err != nil:
		c.stream.Error(outcome.Err)
		c.decrement()
	default:
		c.stream.Next(outcome.Value)
		c.decrement()
	}

	if c.remaining == 0 {
		c.stream.Complete()
		return time.Time{}, false
	}
	next := c.schedule.Next(time.Now().UTC()).Local()
	return next, true
}
