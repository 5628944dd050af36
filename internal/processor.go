// Null-argument processor variants, built around a select/drain loop
// generalized to optional N-way fan-out bounded by a semaphore.

package taskforge_internal

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Drainer is what a Worker drives once per HasTask iteration.
type Drainer[A, R any] interface {
	Drain(ctx context.Context, m Manager[A, R], sc ServiceContext)
}

// WorkProcessor drains a Manager[struct{}, R] with up to Concurrency
// concurrent execute() calls (1 == sequential; >1 == fanned out).
type WorkProcessor[R any] struct {
	Concurrency int
	log         *logrus.Entry
	stats       *CounterBlock
	sem         *semaphore.Weighted
}

func NewWorkProcessor[R any](concurrency int, log *logrus.Entry) *WorkProcessor[R] {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WorkProcessor[R]{
		Concurrency: concurrency,
		log:         log,
		stats:       NewCounterBlock(ProcessorStatsCount),
		sem:         semaphore.NewWeighted(int64(concurrency)),
	}
}

func (p *WorkProcessor[R]) runOne(ctx context.Context, m Manager[struct{}, R], w *TaskWrapper[struct{}, R], meta any, sc ServiceContext) {
	p.stats.Incr(ProcessorStatsExecuted)
	if !w.Execute(ctx, struct{}{}, sc, p.log) {
		p.stats.Incr(ProcessorStatsRetried)
		m.Revert(w, meta)
		return
	}
	switch {
	case w.IsCanceled():
		p.stats.Incr(ProcessorStatsCanceled)
	case w.IsFaulted():
		p.stats.Incr(ProcessorStatsFaulted)
	default:
		p.stats.Incr(ProcessorStatsCompleted)
	}
}

func (p *WorkProcessor[R]) Drain(ctx context.Context, m Manager[struct{}, R], sc ServiceContext) {
	if p.Concurrency <= 1 {
		for m.HasTask() && ctx.Err() == nil {
			w, meta := m.Take()
			if w == nil {
				return
			}
			p.runOne(ctx, m, w, meta, sc)
		}
		return
	}

	var wg sync.WaitGroup
	for m.HasTask() && ctx.Err() == nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			break
		}
		w, meta := m.Take()
		if w == nil {
			p.sem.Release(1)
			break
		}
		wg.Add(1)
		go func(w *TaskWrapper[struct{}, R], meta any) {
			defer wg.Done()
			defer p.sem.Release(1)
			p.runOne(ctx, m, w, meta, sc)
		}(w, meta)
	}
	wg.Wait()
}

func (p *WorkProcessor[R]) Stats() Uint64Stats { return p.stats.Snap() }
