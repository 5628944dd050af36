// Worker loop: created -> running -> stopping -> stopped, one background
// goroutine alternating between draining and waiting.

package taskforge_internal

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type workerState int32

const (
	workerCreated workerState = iota
	workerRunning
	workerStopping
	workerStopped
)

type Worker[A, R any] struct {
	manager   Manager[A, R]
	processor Drainer[A, R]
	sc        ServiceContext
	log       *logrus.Entry
	stats     *CounterBlock

	mu     sync.Mutex
	state  workerState
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker[A, R any](manager Manager[A, R], processor Drainer[A, R], sc ServiceContext, log *logrus.Entry) *Worker[A, R] {
	return &Worker[A, R]{
		manager:   manager,
		processor: processor,
		sc:        sc,
		log:       log,
		stats:     NewCounterBlock(WorkerStatsCount),
		state:     workerCreated,
	}
}

func (w *Worker[A, R]) Start() {
	w.mu.Lock()
	if w.state == workerRunning {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.state = workerRunning
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *Worker[A, R]) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		w.drainUntilEmpty(ctx)
		if ctx.Err() != nil {
			return
		}
		w.stats.Incr(WorkerStatsWaits)
		if err := w.manager.WaitForTask(ctx); err != nil {
			return
		}
	}
}

func (w *Worker[A, R]) drainUntilEmpty(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.stats.Incr(WorkerStatsPanicsRecovered)
			w.log.Errorf("recovered from processor panic: %v", r)
		}
	}()
	for w.manager.HasTask() {
		if ctx.Err() != nil {
			return
		}
		w.stats.Incr(WorkerStatsDrainCycles)
		w.processor.Drain(ctx, w.manager, w.sc)
	}
}

// Stop signals shutdown and awaits the loop's goroutine until ctx expires;
// it does not block further beyond that deadline.
func (w *Worker[A, R]) Stop(ctx context.Context) {
	w.mu.Lock()
	if w.state != workerRunning {
		w.mu.Unlock()
		return
	}
	w.state = workerStopping
	cancel := w.cancel
	w.mu.Unlock()
	cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	w.mu.Lock()
	w.state = workerStopped
	w.mu.Unlock()
}

func (w *Worker[A, R]) Stats() Uint64Stats { return w.stats.Snap() }
