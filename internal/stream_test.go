package taskforge_internal

import (
	"testing"
	"time"
)

func TestStreamDeliversNextAndComplete(t *testing.T) {
	s := NewStream[int]()
	var got []int
	done := make(chan struct{})

	unsub := s.Subscribe(
		func(v int) { got = append(got, v) },
		func(error) { t.Error("unexpected error callback") },
		func() { close(done) },
	)
	defer unsub()

	s.Next(1)
	s.Next(2)
	s.Complete()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion")
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("want [1 2], got %v", got)
	}
	if !s.IsClosed() {
		t.Error("want stream closed after Complete")
	}
}

func TestStreamErrorCallback(t *testing.T) {
	s := NewStream[int]()
	errCh := make(chan error, 1)
	unsub := s.Subscribe(nil, func(err error) { errCh <- err }, nil)
	defer unsub()

	wantErr := errorString("boom")
	s.Error(wantErr)

	select {
	case got := <-errCh:
		if got != wantErr {
			t.Errorf("want %v, got %v", wantErr, got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error callback")
	}
}

func TestStreamLateSubscriberReplaysTerminal(t *testing.T) {
	s := NewStream[int]()
	s.Complete()

	done := make(chan struct{})
	unsub := s.Subscribe(nil, nil, func() { close(done) })
	defer unsub()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("want late subscriber to receive replayed completion")
	}
}

func TestStreamUnsubscribeStopsDelivery(t *testing.T) {
	s := NewStream[int]()
	got := make(chan int, 1)
	unsub := s.Subscribe(func(v int) { got <- v }, nil, nil)
	unsub()

	s.Next(1)
	select {
	case v := <-got:
		t.Errorf("want no delivery after unsubscribe, got %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

type errorString string

func (e errorString) Error() string { return string(e) }
