// Scheduler store: a thread-safe time-ordered collection of scheduledEntry
// with a new-entry-added signal, built on a heap.Interface/sort.Interface
// pair.

package taskforge_internal

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// scheduledEntry is the non-generic contract every delayed/repeated/cron
// wrapper implements, so the store's heap can hold any mix of result types.
// Fire runs one due occurrence to completion and returns the next due time
// plus whether to reschedule; due is the nominal time this firing was due
// at (not the actual wall-clock time execute started), so repeated/cron
// progression doesn't drift under load.
type scheduledEntry interface {
	Fire(ctx context.Context, sc ServiceContext, log *logrus.Entry, due time.Time) (next time.Time, reschedule bool)
}

type schedulerEntryHandle struct {
	due   time.Time
	idx   int
	entry scheduledEntry
}

type entryHeap []*schedulerEntryHandle

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].due.Before(h[j].due) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].idx = i; h[j].idx = j }
func (h *entryHeap) Push(x any) {
	e := x.(*schedulerEntryHandle)
	e.idx = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

type schedulerStore struct {
	mu    sync.Mutex
	h     entryHeap
	added chan struct{}
}

func newSchedulerStore() *schedulerStore {
	return &schedulerStore{added: make(chan struct{}, 1)}
}

func (s *schedulerStore) signal() {
	select {
	case s.added <- struct{}{}:
	default:
	}
}

func (s *schedulerStore) Add(due time.Time, entry scheduledEntry) {
	s.mu.Lock()
	heap.Push(&s.h, &schedulerEntryHandle{due: due, entry: entry})
	s.mu.Unlock()
	s.signal()
}

// PopDueWithin removes and returns every entry due at or before windowEnd.
func (s *schedulerStore) PopDueWithin(windowEnd time.Time) []*schedulerEntryHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*schedulerEntryHandle
	for len(s.h) > 0 && !s.h[0].due.After(windowEnd) {
		due = append(due, heap.Pop(&s.h).(*schedulerEntryHandle))
	}
	return due
}

func (s *schedulerStore) MinDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.h) == 0 {
		return time.Time{}, false
	}
	return s.h[0].due, true
}

func (s *schedulerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.h)
}
