package taskforge_internal

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkProcessorSequentialDrainsInOrder(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	p := NewWorkProcessor[int](1, testLog)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		m.Submit(NewWorkWrapper(func(ctx context.Context, sc ServiceContext) (int, error) {
			order = append(order, i)
			return i, nil
		}, 1, nil))
	}

	p.Drain(context.Background(), m, nil)

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("want [0 1 2], got %v", order)
	}
	stats := p.Stats()
	if stats[ProcessorStatsCompleted] != 3 {
		t.Errorf("want 3 completed, got %d", stats[ProcessorStatsCompleted])
	}
}

func TestWorkProcessorConcurrentBoundsParallelism(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	p := NewWorkProcessor[int](2, testLog)

	var inFlight, maxInFlight int32
	for i := 0; i < 6; i++ {
		m.Submit(NewWorkWrapper(func(ctx context.Context, sc ServiceContext) (int, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&maxInFlight)
				if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return 0, nil
		}, 1, nil))
	}

	p.Drain(context.Background(), m, nil)

	if maxInFlight > 2 {
		t.Errorf("want at most 2 concurrent executions, observed %d", maxInFlight)
	}
	if maxInFlight < 2 {
		t.Errorf("want concurrency actually exercised, observed %d", maxInFlight)
	}
}

func TestWorkProcessorRevertsOnRetry(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	p := NewWorkProcessor[int](1, testLog)

	var calls int32
	m.Submit(NewWorkWrapper(func(ctx context.Context, sc ServiceContext) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, errTransient
		}
		return 1, nil
	}, 2, nil))

	p.Drain(context.Background(), m, nil)
	if m.HasTask() {
		p.Drain(context.Background(), m, nil)
	}

	stats := p.Stats()
	if stats[ProcessorStatsRetried] != 1 {
		t.Errorf("want 1 retry, got %d", stats[ProcessorStatsRetried])
	}
	if stats[ProcessorStatsCompleted] != 1 {
		t.Errorf("want 1 completed, got %d", stats[ProcessorStatsCompleted])
	}
}

var errTransient = errStr("transient")

type errStr string

func (e errStr) Error() string { return string(e) }
