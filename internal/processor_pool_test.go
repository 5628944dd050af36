package taskforge_internal

import (
	"context"
	"sync"
	"testing"
	"time"
)

type poolResourceStub struct {
	mu      sync.Mutex
	running bool
	stops   int
}

func (r *poolResourceStub) IsRunning() bool { r.mu.Lock(); defer r.mu.Unlock(); return r.running }
func (r *poolResourceStub) Start(context.Context) error {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()
	return nil
}
func (r *poolResourceStub) Stop(context.Context) error {
	r.mu.Lock()
	r.running = false
	r.stops++
	r.mu.Unlock()
	return nil
}

func TestPoolProcessorStartsIdleResource(t *testing.T) {
	res := &poolResourceStub{}
	p := NewPoolProcessor[*poolResourceStub, int]([]*poolResourceStub{res}, testLog)
	m := NewFIFOManager[*poolResourceStub, int]()

	var sawRunning bool
	m.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *poolResourceStub) (int, error) {
		sawRunning = r.IsRunning()
		return 0, nil
	}, 1, nil))

	p.Drain(context.Background(), m, nil)
	if !sawRunning {
		t.Error("want resource started before execution")
	}
}

func TestPoolProcessorTearsDownAfterDrain(t *testing.T) {
	res := &poolResourceStub{}
	p := NewPoolProcessor[*poolResourceStub, int]([]*poolResourceStub{res}, testLog)
	m := NewFIFOManager[*poolResourceStub, int]()
	m.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *poolResourceStub) (int, error) { return 0, nil }, 1, nil))

	p.Drain(context.Background(), m, nil)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		res.mu.Lock()
		stopped := res.stops == 1 && !res.running
		res.mu.Unlock()
		if stopped {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("want resource stopped asynchronously after the manager drains empty")
}

func TestPoolProcessorDrainsAllSubmittedTasks(t *testing.T) {
	resources := []*poolResourceStub{{}, {}}
	p := NewPoolProcessor[*poolResourceStub, int](resources, testLog)
	m := NewFIFOManager[*poolResourceStub, int]()

	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		m.Submit(NewAccessWrapper(func(ctx context.Context, sc ServiceContext, r *poolResourceStub) (int, error) {
			<-release
			return 0, nil
		}, 1, nil))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Drain(context.Background(), m, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
}
