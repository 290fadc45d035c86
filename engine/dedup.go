package engine

import "sync"

// DefaultDedupCapacity bounds the dedup window.
const DefaultDedupCapacity = 1000

// DedupWindow remembers which message ids are already materialized in the
// local list, so the push echo of an optimistically applied message is not
// processed twice. When the capacity is exceeded the whole set is cleared and
// re-seeded with the newest id. That full reset (rather than LRU eviction) is
// deliberate: the window only needs to cover the short gap between a local
// insert and the matching push event arriving.
type DedupWindow struct {
	mu       sync.Mutex
	capacity int
	ids      map[int64]struct{}
}

// NewDedupWindow builds a window. A non-positive capacity falls back to
// DefaultDedupCapacity.
func NewDedupWindow(capacity int) *DedupWindow {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &DedupWindow{
		capacity: capacity,
		ids:      make(map[int64]struct{}),
	}
}

// Has reports whether id was recorded since the last reset.
func (w *DedupWindow) Has(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.ids[id]
	return ok
}

// Record inserts id, resetting the window first if it is full.
func (w *DedupWindow) Record(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ids[id] = struct{}{}
	if len(w.ids) > w.capacity {
		w.ids = map[int64]struct{}{id: {}}
	}
}

// Len returns the number of recorded ids.
func (w *DedupWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.ids)
}
