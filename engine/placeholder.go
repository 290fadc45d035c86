package engine

import (
	"sync"
	"time"
)

// placeholderGen hands out negative placeholder ids for unconfirmed sends.
// Ids are derived from the epoch-millisecond clock, negated so they can never
// collide with server-assigned ids (always positive). Two calls within the
// same millisecond fall back to a monotonic step so ids stay pairwise
// distinct.
type placeholderGen struct {
	mu   sync.Mutex
	last int64
}

func (g *placeholderGen) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return -now
}
