// Single-reusable and single-transient resource processors, built around
// an acquire/use/release-around-a-batch lifecycle. A resource that also
// implements CreditController (e.g. one embedding a *RateLimiter) is
// drawn down one credit per task before Execute, pacing dispatch to
// whatever rate the resource enforces.

package taskforge_internal

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type ArgFactory[T any] func(ctx context.Context) (T, error)

// ResourceProcessor drains a Manager[T, R] using one argument per batch.
// Transient=false (single-reusable): the factory runs once, lazily, and the
// value survives across batches, deactivated (not discarded) between them.
// Transient=true (single-transient): a fresh value is produced every batch
// and discarded at the end of it.
type ResourceProcessor[T, R any] struct {
	Factory   ArgFactory[T]
	Transient bool
	log       *logrus.Entry
	stats     *CounterBlock

	mu        sync.Mutex
	reused    T
	hasReused bool
}

func NewResourceProcessor[T, R any](factory ArgFactory[T], transient bool, log *logrus.Entry) *ResourceProcessor[T, R] {
	return &ResourceProcessor[T, R]{
		Factory:   factory,
		Transient: transient,
		log:       log,
		stats:     NewCounterBlock(ProcessorStatsCount),
	}
}

func (p *ResourceProcessor[T, R]) acquire(ctx context.Context) (T, error) {
	if !p.Transient {
		p.mu.Lock()
		if p.hasReused {
			v := p.reused
			p.mu.Unlock()
			return v, nil
		}
		p.mu.Unlock()
	}
	v, err := p.Factory(ctx)
	if err != nil {
		return v, err
	}
	if !p.Transient {
		p.mu.Lock()
		p.reused = v
		p.hasReused = true
		p.mu.Unlock()
	}
	return v, nil
}

func (p *ResourceProcessor[T, R]) Drain(ctx context.Context, m Manager[T, R], sc ServiceContext) {
	arg, err := p.acquire(ctx)
	if err != nil {
		p.log.WithError(err).Error("argument factory failed, tasks remain queued")
		return
	}

	if a, ok := any(arg).(Activatable); ok && !a.IsActive() {
		if err := a.Activate(ctx); err != nil {
			p.stats.Incr(ProcessorStatsActivationFailures)
			p.log.WithError(err).Error("activation failed, tasks remain queued")
			return
		}
	}

	for m.HasTask() && ctx.Err() == nil {
		w, meta := m.Take()
		if w == nil {
			break
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
	}

	if a, ok := any(arg).(Activatable); ok {
		go func() {
			if err := a.Deactivate(context.Background()); err != nil {
				p.log.WithError(err).Error("deactivation failed")
			}
		}()
	}

	if p.Transient {
		p.mu.Lock()
		p.hasReused = false
		p.mu.Unlock()
	}
}

func (p *ResourceProcessor[T, R]) Stats() Uint64Stats { return p.stats.Snap() }
