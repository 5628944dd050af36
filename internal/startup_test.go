package taskforge_internal

import (
	"context"
	"errors"
	"testing"
)

func TestStartupRegistryRunsInOrder(t *testing.T) {
	r := NewStartupRegistry()
	var order []string
	r.Register("a", func(ctx context.Context, sc ServiceContext) error {
		order = append(order, "a")
		return nil
	})
	r.Register("b", func(ctx context.Context, sc ServiceContext) error {
		order = append(order, "b")
		return nil
	})

	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("want [a b], got %v", order)
	}
}

func TestStartupRegistryStopsOnFirstError(t *testing.T) {
	r := NewStartupRegistry()
	wantErr := errors.New("boom")
	ran := false
	r.Register("fails", func(ctx context.Context, sc ServiceContext) error { return wantErr })
	r.Register("never", func(ctx context.Context, sc ServiceContext) error {
		ran = true
		return nil
	})

	err := r.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("want wrapped %v, got %v", wantErr, err)
	}
	if ran {
		t.Error("unit after the failing one should not have run")
	}
}

func TestStartupRegistryRunIsIdempotent(t *testing.T) {
	r := NewStartupRegistry()
	count := 0
	r.Register("once", func(ctx context.Context, sc ServiceContext) error {
		count++
		return nil
	})

	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("want unit to run exactly once, got %d", count)
	}
}

func TestStartupRegistryRegisterAfterRunPanics(t *testing.T) {
	r := NewStartupRegistry()
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("want panic registering after Run, got none")
		}
	}()
	r.Register("late", func(ctx context.Context, sc ServiceContext) error { return nil })
}
