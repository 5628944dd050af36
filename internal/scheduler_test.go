package taskforge_internal

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestScheduler() *WorkScheduler {
	cfg := &SchedulerConfig{Horizon: time.Second, Beforehand: 10 * time.Millisecond}
	s := NewWorkScheduler(cfg, nil)
	s.Start()
	return s
}

func TestAddScheduledWorkAtResolves(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	var got int
	fut, err := AddScheduledWorkAt(s, func(ctx context.Context, sc ServiceContext) (int, error) {
		return 42, nil
	}, time.Now().Add(30*time.Millisecond), 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err = fut.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("want 42, got %d", got)
	}
}

func TestAddScheduledWorkAtRejectsPastTime(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	_, err := AddScheduledWorkAt(s, func(ctx context.Context, sc ServiceContext) (int, error) { return 0, nil }, time.Now().Add(-time.Second), 1, nil)
	if err == nil {
		t.Fatal("want error for past scheduled time, got nil")
	}
	if kind, ok := KindOf(err); !ok || kind != KindOutOfRange {
		t.Errorf("want KindOutOfRange, got %v", err)
	}
}

func TestAddScheduledWorkDelayRejectsNonPositive(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	if _, err := AddScheduledWorkDelay(s, func(ctx context.Context, sc ServiceContext) (int, error) { return 0, nil }, 0, 1, nil); err == nil {
		t.Fatal("want error for zero delay, got nil")
	}
}

func TestAddRepeatedWorkFiresExecCountTimes(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	var mu sync.Mutex
	var values []int
	done := make(chan struct{})

	var n int
	stream, err := AddRepeatedWork(s, func(ctx context.Context, sc ServiceContext) (int, error) {
		mu.Lock()
		n++
		v := n
		mu.Unlock()
		return v, nil
	}, time.Now().Add(20*time.Millisecond), 20*time.Millisecond, 3, 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	unsub := stream.Subscribe(
		func(v int) {
			mu.Lock()
			values = append(values, v)
			mu.Unlock()
		},
		func(error) {},
		func() { close(done) },
	)
	defer unsub()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream completion")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(values) != 3 {
		t.Fatalf("want 3 values, got %d: %v", len(values), values)
	}
	for i, v := range values {
		if v != i+1 {
			t.Errorf("values[%d]: want %d, got %d", i, i+1, v)
		}
	}
}

func TestAddRepeatedWorkRejectsBadExecCount(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	for _, execCount := range []int{0, -2} {
		if _, err := AddRepeatedWork(s, func(ctx context.Context, sc ServiceContext) (int, error) { return 0, nil }, time.Now().Add(time.Second), time.Second, execCount, 1, nil); err == nil {
			t.Errorf("execCount=%d: want error, got nil", execCount)
		}
	}
}

func TestAddCronWorkRejectsBadExpression(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	if _, err := AddCronWork(s, func(ctx context.Context, sc ServiceContext) (int, error) { return 0, nil }, "not a cron expression", 1, 1, nil); err == nil {
		t.Fatal("want error for invalid cron expression, got nil")
	}
}

func TestAddCronWorkRunsOnce(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	done := make(chan int, 1)
	// Every second, limited to a single execution.
	stream, err := AddCronWork(s, func(ctx context.Context, sc ServiceContext) (int, error) {
		return 7, nil
	}, "* * * * * *", 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	unsub := stream.Subscribe(func(v int) { done <- v }, func(error) {}, func() {})
	defer unsub()

	select {
	case v := <-done:
		if v != 7 {
			t.Errorf("want 7, got %d", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for cron occurrence")
	}
}

func TestSchedulerInnerCancellationCompletesStream(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop(context.Background())

	inner, cancel := context.WithCancel(context.Background())
	cancel()

	completed := make(chan struct{})
	stream, err := AddRepeatedWork(s, func(ctx context.Context, sc ServiceContext) (int, error) { return 0, nil }, time.Now().Add(20*time.Millisecond), 20*time.Millisecond, -1, 1, inner)
	if err != nil {
		t.Fatal(err)
	}
	unsub := stream.Subscribe(nil, nil, func() { close(completed) })
	defer unsub()

	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream to complete after inner cancellation")
	}
}
