// Stream is the push-stream returned for repeated/cron schedules:
// subscribers get every next(value)/error(e), and a terminal complete. Backpressure is not modelled beyond drop-oldest: a slow
// subscriber's channel holds at most one pending item, and a fresh item
// overwrites it rather than blocking the dispatcher.

package taskforge_internal

import "sync"

type StreamItem[R any] struct {
	Value    R
	Err      error
	Complete bool
}

type streamSub[R any] struct {
	ch chan StreamItem[R]
}

type Stream[R any] struct {
	mu     sync.Mutex
	subs   map[int]*streamSub[R]
	nextID int
	closed bool
	last   StreamItem[R] // replayed to late subscribers once terminal
}

func NewStream[R any]() *Stream[R] {
	return &Stream[R]{subs: make(map[int]*streamSub[R])}
}

// Subscribe registers callbacks invoked from a dedicated goroutine per
// subscriber; onNext/onError may be called any number of times, onComplete
// at most once and always last. Returns an unsubscribe func.
func (s *Stream[R]) Subscribe(onNext func(R), onError func(error), onComplete func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	sub := &streamSub[R]{ch: make(chan StreamItem[R], 1)}
	if s.closed {
		sub.ch <- s.last
	} else {
		s.subs[id] = sub
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case item, ok := <-sub.ch:
				if !ok {
					return
				}
				switch {
				case item.Complete:
					if onComplete != nil {
						onComplete()
					}
					return
				case item.Err != nil:
					if onError != nil {
						onError(item.Err)
					}
				default:
					if onNext != nil {
						onNext(item.Value)
					}
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Stream[R]) push(item StreamItem[R]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if item.Complete {
		s.closed = true
		s.last = item
	}
	for _, sub := range s.subs {
		select {
		case sub.ch <- item:
		default:
			// drop-oldest: drain the stale pending item, then send the fresh one.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- item:
			default:
			}
		}
	}
	if s.closed {
		s.subs = make(map[int]*streamSub[R])
	}
}

func (s *Stream[R]) Next(v R)     { s.push(StreamItem[R]{Value: v}) }
func (s *Stream[R]) Error(e error) { s.push(StreamItem[R]{Err: e}) }
func (s *Stream[R]) Complete()    { s.push(StreamItem[R]{Complete: true}) }

func (s *Stream[R]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
