package resource

import (
	"sync"
	"time"

	"github.com/poiesic/strategit/core"
)

// snapshotRing is a fixed-capacity ring of resource snapshots. Push is
// O(1); the oldest entry is overwritten when full.
type snapshotRing struct {
	mu    sync.RWMutex
	buf   []core.ResourceSnapshot
	head  int // next write position
	count int
}

func newSnapshotRing(capacity int) *snapshotRing {
	if capacity < 1 {
		capacity = 1
	}
	return &snapshotRing{buf: make([]core.ResourceSnapshot, capacity)}
}

func (r *snapshotRing) push(s core.ResourceSnapshot) {
	r.mu.Lock()
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.mu.Unlock()
}

// latest returns the most recent snapshot, if any.
func (r *snapshotRing) latest() (core.ResourceSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return core.ResourceSnapshot{}, false
	}
	idx := (r.head - 1 + len(r.buf)) % len(r.buf)
	return r.buf[idx], true
}

// window returns all snapshots no older than the given duration, oldest
// first.
func (r *snapshotRing) window(d time.Duration) []core.ResourceSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().Add(-d)
	out := make([]core.ResourceSnapshot, 0, r.count)
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	for i := 0; i < r.count; i++ {
		s := r.buf[(start+i)%len(r.buf)]
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

func (r *snapshotRing) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
