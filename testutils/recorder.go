// Recorder: a concurrency-safe call-order log for end-to-end scenario
// tests, e.g. asserting a high-priority submission's unit ran before a
// low-priority one, or that a pool's resources were each exercised.

package taskforge_testutils

import "sync"

type Recorder struct {
	mu      sync.Mutex
	entries []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a snapshot of the recorded order.
func (r *Recorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
