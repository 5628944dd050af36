// WorkScheduler dispatcher: a dispatch loop where the heap top arms a
// timer and a new-entry signal can wake it early, covering the three
// scheduledEntry variants in scheduler_wrappers.go, widened to
// horizon/beforehand windowed dispatch: entries due within
// [now, now+horizon+beforehand] are popped together each iteration and each
// fired from its own goroutine that sleeps out the remainder until its
// exact due time. The heap/store mechanics live in scheduler_store.go.

package taskforge_internal

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var defaultSchedulerLog = NewCompLogger("scheduler")

type WorkScheduler struct {
	store      *schedulerStore
	horizon    time.Duration
	beforehand time.Duration
	sc         ServiceContext
	log        *logrus.Entry
	stats      *CounterBlock

	mu     sync.Mutex
	state  workerState
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkScheduler(cfg *SchedulerConfig, sc ServiceContext) *WorkScheduler {
	if cfg == nil {
		cfg = DefaultSchedulerConfig()
	}
	return &WorkScheduler{
		store:      newSchedulerStore(),
		horizon:    ClampHorizon(cfg.Horizon),
		beforehand: cfg.Beforehand,
		sc:         sc,
		log:        defaultSchedulerLog,
		stats:      NewCounterBlock(SchedulerStatsCount),
		state:      workerCreated,
	}
}

func (s *WorkScheduler) Start() {
	s.mu.Lock()
	if s.state == workerRunning {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = workerRunning
	s.mu.Unlock()

	s.wg.Add(1)
	go s.dispatchLoop(ctx)
}

// Stop cancels the dispatch loop and awaits every in-flight process()
// goroutine until ctx expires, mirroring Worker.Stop.
func (s *WorkScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.state != workerRunning {
		s.mu.Unlock()
		return
	}
	s.state = workerStopping
	cancel := s.cancel
	s.mu.Unlock()
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	s.mu.Lock()
	s.state = workerStopped
	s.mu.Unlock()
}

func (s *WorkScheduler) add(due time.Time, entry scheduledEntry) {
	s.stats.Incr(SchedulerStatsScheduled)
	s.store.Add(due, entry)
}

func (s *WorkScheduler) dispatchLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}

		now := time.Now()
		windowEnd := now.Add(s.horizon + s.beforehand)
		for _, h := range s.store.PopDueWithin(windowEnd) {
			s.wg.Add(1)
			go s.process(ctx, h)
		}

		minDue, ok := s.store.MinDue()
		var timeout time.Duration
		if !ok {
			timeout = time.Hour
		} else {
			timeout = time.Until(minDue) - s.beforehand
			if timeout < s.beforehand {
				continue
			}
			if timeout > time.Hour {
				timeout = time.Hour
			}
		}

		timer := time.NewTimer(timeout)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.store.added:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (s *WorkScheduler) process(ctx context.Context, h *schedulerEntryHandle) {
	defer s.wg.Done()

	if wait := time.Until(h.due); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	if late := time.Since(h.due); late > s.beforehand {
		s.stats.Incr(SchedulerStatsOverrun)
	}

	s.stats.Incr(SchedulerStatsExecuted)
	next, reschedule := h.entry.Fire(ctx, s.sc, s.log, h.due)
	if reschedule {
		s.stats.Incr(SchedulerStatsRescheduled)
		s.add(next, h.entry)
	} else {
		s.stats.Incr(SchedulerStatsDropped)
	}
}

func (s *WorkScheduler) Stats() Uint64Stats { return s.stats.Snap() }

func (s *WorkScheduler) Len() int { return s.store.Len() }

// --- generic submission entry points ---
//
// Go has no generic methods, so these are free functions over the
// non-generic *WorkScheduler core.

// AddScheduledWorkAt registers a one-shot unit due at a fixed instant. The
// returned future resolves once the occurrence fires (and exhausts its own
// retry budget if it fails transiently).
func AddScheduledWorkAt[R any](s *WorkScheduler, unit UnitFunc[R], at time.Time, attempts int, inner context.Context) (*Future[R], error) {
	if unit == nil {
		return nil, Errorf(KindInvalidArgument, "nil unit")
	}
	if !at.After(time.Now()) {
		return nil, Errorf(KindOutOfRange, "scheduled time %s is not in the future", at)
	}
	if inner == nil {
		inner = context.Background()
	}
	d := newDelayedWrapper(unit, attempts, inner)
	s.add(at, d)
	return d.future, nil
}

func AddScheduledWorkDelay[R any](s *WorkScheduler, unit UnitFunc[R], delay time.Duration, attempts int, inner context.Context) (*Future[R], error) {
	if delay <= 0 {
		return nil, Errorf(KindOutOfRange, "delay %s must be positive", delay)
	}
	return AddScheduledWorkAt(s, unit, time.Now().Add(delay), attempts, inner)
}

// AddRepeatedWork registers a fixed-period recurring unit. execCount is the
// number of occurrences that end in a value or an error to run, or -1 for
// unlimited; the returned
// stream receives one item per occurrence and a terminal Complete when the
// count is exhausted or the inner token is cancelled.
func AddRepeatedWork[R any](s *WorkScheduler, unit UnitFunc[R], startAt time.Time, period time.Duration, execCount int, attempts int, inner context.Context) (*Stream[R], error) {
	if unit == nil {
		return nil, Errorf(KindInvalidArgument, "nil unit")
	}
	if period <= 0 {
		return nil, Errorf(KindOutOfRange, "period %s must be positive", period)
	}
	if execCount == 0 || execCount < -1 {
		return nil, Errorf(KindOutOfRange, "execCount %d must be -1 or a positive integer", execCount)
	}
	if inner == nil {
		inner = context.Background()
	}
	r := newRepeatedWrapper(unit, attempts, inner, period, execCount)
	s.add(startAt, r)
	return r.stream, nil
}

// AddCronWork registers a robfig/cron-scheduled recurring unit. Occurrence
// times are computed in UTC and converted to local time before dispatch.
func AddCronWork[R any](s *WorkScheduler, unit UnitFunc[R], cronExpr string, execCount int, attempts int, inner context.Context) (*Stream[R], error) {
	if unit == nil {
		return nil, Errorf(KindInvalidArgument, "nil unit")
	}
	if execCount == 0 || execCount < -1 {
		return nil, Errorf(KindOutOfRange, "execCount %d must be -1 or a positive integer", execCount)
	}
	schedule, err := ParseCronExpression(cronExpr)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		inner = context.Background()
	}
	first := schedule.Next(time.Now().UTC()).Local()
	c := newCronWrapper(unit, attempts, inner, schedule, execCount)
	s.add(first, c)
	return c.stream, nil
}
