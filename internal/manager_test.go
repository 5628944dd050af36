package taskforge_internal

import (
	"context"
	"testing"
	"time"
)

func newTestWrapper(t *testing.T) *TaskWrapper[struct{}, int] {
	t.Helper()
	return NewWorkWrapper(func(ctx context.Context, sc ServiceContext) (int, error) { return 0, nil }, 1, nil)
}

func TestFIFOManagerOrdering(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	w1, w2, w3 := newTestWrapper(t), newTestWrapper(t), newTestWrapper(t)
	m.Submit(w1)
	m.Submit(w2)
	m.Submit(w3)

	for _, want := range []*TaskWrapper[struct{}, int]{w1, w2, w3} {
		got, meta := m.Take()
		if got != want {
			t.Errorf("want %p, got %p", want, got)
		}
		if meta == nil {
			t.Error("want non-nil meta for FIFO take")
		}
	}
	if w, _ := m.Take(); w != nil {
		t.Error("want nil on empty manager")
	}
}

func TestFIFOManagerRevertGoesToTail(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	w1, w2 := newTestWrapper(t), newTestWrapper(t)
	m.Submit(w1)
	m.Submit(w2)

	got, meta := m.Take()
	if got != w1 {
		t.Fatal("want w1 first")
	}
	m.Revert(got, meta)

	if got, _ := m.Take(); got != w2 {
		t.Error("want w2 before reverted w1")
	}
	if got, _ := m.Take(); got != w1 {
		t.Error("want reverted w1 last")
	}
}

func TestFIFOManagerWaitForTaskWakesOnSubmit(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.WaitForTask(ctx) }()

	time.Sleep(10 * time.Millisecond)
	m.Submit(newTestWrapper(t))

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for WaitForTask to return")
	}
}

func TestFIFOManagerWaitForTaskRespectsContext(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := m.WaitForTask(ctx); err == nil {
		t.Fatal("want context deadline error, got nil")
	}
}

func TestFIFOManagerSkipsCanceledOnTake(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	canceled := newTestWrapper(t)
	canceled.Future().ResolveCanceled(context.Canceled)
	live := newTestWrapper(t)
	m.Submit(canceled)
	m.Submit(live)

	got, _ := m.Take()
	if got != live {
		t.Error("want cancelled entry skipped, live entry returned")
	}
}

func TestFIFOManagerStatsCounters(t *testing.T) {
	m := NewFIFOManager[struct{}, int]()
	w := newTestWrapper(t)
	m.Submit(w)
	m.Take()
	stats := m.Stats()
	if stats[ManagerStatsSubmitted] != 1 || stats[ManagerStatsTaken] != 1 {
		t.Errorf("want submitted=1 taken=1, got %v", stats)
	}
}
