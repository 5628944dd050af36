// Multiple-static resource pool processor, built around active/inactive
// bags (plain slices) and state transitions between them, generalized to
// the Stoppable start/stop capability. A resource that also implements
// CreditController is drawn down one credit per task before Execute,
// the same pacing hook ResourceProcessor honors. Teardown of
// running resources at end of drain uses golang.org/x/sync/errgroup so the
// Stop calls are joined rather than racing bare goroutines; only the first
// Stop failure is logged.

package taskforge_internal

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type PoolProcessor[T, R any] struct {
	log   *logrus.Entry
	stats *CounterBlock

	mu                 sync.Mutex
	inactive           []T
	active             []T
	resetCh            chan struct{}
	teardownInProgress bool
}

func NewPoolProcessor[T, R any](args []T, log *logrus.Entry) *PoolProcessor[T, R] {
	inactive := make([]T, len(args))
	copy(inactive, args)
	return &PoolProcessor[T, R]{
		log:      log,
		stats:    NewCounterBlock(ProcessorStatsCount),
		inactive: inactive,
		resetCh:  make(chan struct{}, 1),
	}
}

func (p *PoolProcessor[T, R]) signalReset() {
	select {
	case p.resetCh <- struct{}{}:
	default:
	}
}

func (p *PoolProcessor[T, R]) takeArg() (arg T, fromActive, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.active); n > 0 {
		arg = p.active[n-1]
		p.active = p.active[:n-1]
		return arg, true, true
	}
	if n := len(p.inactive); n > 0 {
		arg = p.inactive[n-1]
		p.inactive = p.inactive[:n-1]
		return arg, false, true
	}
	return arg, false, false
}

func (p *PoolProcessor[T, R]) putBack(arg T, running bool) {
	p.mu.Lock()
	if running {
		p.active = append(p.active, arg)
	} else {
		p.inactive = append(p.inactive, arg)
	}
	p.mu.Unlock()
	p.signalReset()
}

func (p *PoolProcessor[T, R]) isTearingDown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.teardownInProgress
}

func (p *PoolProcessor[T, R]) Drain(ctx context.Context, m Manager[T, R], sc ServiceContext) {
	for m.HasTask() && ctx.Err() == nil {
		if p.isTearingDown() {
			select {
			case <-p.resetCh:
			case <-ctx.Done():
				return
			}
			continue
		}

		arg, fromActive, ok := p.takeArg()
		if !ok {
			select {
			case <-p.resetCh:
				continue
			case <-ctx.Done():
				return
			}
		}

		w, meta := m.Take()
		if w == nil {
			p.putBack(arg, fromActive)
			continue
		}

		running := fromActive
		if s, isStoppable := any(arg).(Stoppable); isStoppable && !s.IsRunning() {
			if err := s.Start(ctx); err != nil {
				p.stats.Incr(ProcessorStatsActivationFailures)
				p.log.WithError(err).Error("resource start failed")
				m.Revert(w, meta)
				p.putBack(arg, false)
				continue
			}
			running = true
		}

		if cc, ok := any(arg).(CreditController); ok {
			cc.GetCredit(1, 1)
		}
		p.stats.Incr(ProcessorStatsExecuted)
		if !w.Execute(ctx, arg, sc, p.log) {
			p.stats.Incr(ProcessorStatsRetried)
			m.Revert(w, meta)
		} else {
			switch {
			case w.IsCanceled():
				p.stats.Incr(ProcessorStatsCanceled)
			case w.IsFaulted():
				p.stats.Incr(ProcessorStatsFaulted)
			default:
				p.stats.Incr(ProcessorStatsCompleted)
			}
		}

		if th, ok := any(arg).(Throttling); ok {
			time.Sleep(th.ThrottleTimeout())
		}

		p.putBack(arg, running)
	}

	if !m.HasTask() && ctx.Err() == nil {
		p.teardown()
	}
}

// teardown opportunistically stops every running (active) resource in the
// background and moves it to inactive once stopped. A submission that
// arrives during teardown waits on resetCh rather than starting a fresh
// batch immediately.
func (p *PoolProcessor[T, R]) teardown() {
	p.mu.Lock()
	if p.teardownInProgress || len(p.active) == 0 {
		p.mu.Unlock()
		return
	}
	p.teardownInProgress = true
	toStop := p.active
	p.active = nil
	p.mu.Unlock()

	go func() {
		var eg errgroup.Group
		for i := range toStop {
			v := toStop[i]
			eg.Go(func() error {
				if s, ok := any(v).(Stoppable); ok {
					return s.Stop(context.Background())
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			p.log.WithError(err).Error("pool teardown error")
		}

		p.mu.Lock()
		p.inactive = append(p.inactive, toStop...)
		p.teardownInProgress = false
		p.mu.Unlock()
		p.signalReset()
	}()
}

func (p *PoolProcessor[T, R]) Stats() Uint64Stats { return p.stats.Snap() }
