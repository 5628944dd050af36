package taskforge_internal

import (
	"context"
	"sync"
	"testing"
	"time"
)

type resourceStub struct {
	active bool
}

func (r *resourceStub) IsActive() bool                { return r.active }
func (r *resourceStub) Activate(context.Context) error { r.active = true; return nil }
func (r *resourceStub) Deactivate(context.Context) error { r.active = false; return nil }

func TestResourceProcessorReusesAcrossBatches(t *testing.T) {
	built := 0
	factory := func(ctx context.Context) (*resourceStub, error) {
		built++
		return &resourceStub{}, nil
	}
	p := NewResourceProcessor[*resourceStub, int](factory, false, testLog)

	m1 := NewFIFOManager[*resourceStub, int]()
	m1.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *resourceStub) (int, error) { return 1, nil }, 1, nil))
	p.Drain(context.Background(), m1, nil)

	m2 := NewFIFOManager[*resourceStub, int]()
	m2.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *resourceStub) (int, error) { return 2, nil }, 1, nil))
	p.Drain(context.Background(), m2, nil)

	if built != 1 {
		t.Errorf("want factory invoked once across reused batches, got %d", built)
	}
}

func TestResourceProcessorTransientRebuildsEveryBatch(t *testing.T) {
	built := 0
	factory := func(ctx context.Context) (*resourceStub, error) {
		built++
		return &resourceStub{}, nil
	}
	p := NewResourceProcessor[*resourceStub, int](factory, true, testLog)

	for i := 0; i < 3; i++ {
		m := NewFIFOManager[*resourceStub, int]()
		m.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *resourceStub) (int, error) { return 0, nil }, 1, nil))
		p.Drain(context.Background(), m, nil)
	}

	if built != 3 {
		t.Errorf("want factory invoked once per batch, got %d", built)
	}
}

func TestResourceProcessorActivatesResource(t *testing.T) {
	r := &resourceStub{}
	p := NewResourceProcessor[*resourceStub, int](func(ctx context.Context) (*resourceStub, error) { return r, nil }, false, testLog)
	m := NewFIFOManager[*resourceStub, int]()

	activeDuringExecute := false
	m.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, res *resourceStub) (int, error) {
		activeDuringExecute = res.IsActive()
		return 0, nil
	}, 1, nil))

	p.Drain(context.Background(), m, nil)
	if !activeDuringExecute {
		t.Error("want resource activated before execution")
	}
}

type creditGatedResource struct {
	*RateLimiter
}

func TestResourceProcessorGatesOnCreditController(t *testing.T) {
	limiter := NewRateLimiter(1, 1, 20*time.Millisecond)
	defer limiter.StopReplenishWait()
	res := &creditGatedResource{RateLimiter: limiter}

	p := NewResourceProcessor[*creditGatedResource, int](func(ctx context.Context) (*creditGatedResource, error) {
		return res, nil
	}, false, testLog)
	m := NewFIFOManager[*creditGatedResource, int]()

	var mu sync.Mutex
	var executed int
	for i := 0; i < 3; i++ {
		m.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *creditGatedResource) (int, error) {
			mu.Lock()
			executed++
			mu.Unlock()
			return 0, nil
		}, 1, nil))
	}

	start := time.Now()
	p.Drain(context.Background(), m, nil)
	elapsed := time.Since(start)

	if executed != 3 {
		t.Fatalf("want 3 executions, got %d", executed)
	}
	// One credit is granted up front; the other two must each wait out a
	// replenish tick, so draining all three spans at least two intervals.
	if elapsed < 30*time.Millisecond {
		t.Errorf("want credit gating to pace execution across replenish ticks, elapsed only %s", elapsed)
	}
}
