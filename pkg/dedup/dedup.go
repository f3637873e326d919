// Package dedup suppresses re-delivery of telemetry messages when a
// broker delivers at-least-once.
package dedup

import (
	"sync"
	"time"
)

// Deduper remembers recently seen message IDs for a TTL, with a bounded
// map size. Safe for concurrent use.
type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	max  int
	now  func() time.Time
	seen map[string]time.Time
}

func New(ttl time.Duration, max int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{
		ttl:  ttl,
		max:  max,
		now:  time.Now,
		seen: make(map[string]time.Time, max),
	}
}

// SetClock replaces the time source. Test hook.
func (d *Deduper) SetClock(now func() time.Time) {
	d.mu.Lock()
	d.now = now
	d.mu.Unlock()
}

// ShouldProcess reports whether the ID has not been seen within the TTL,
// marking it seen as a side effect. Empty IDs are always processed.
func (d *Deduper) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	d.seen[id] = now.Add(d.ttl)
	if len(d.seen) > d.max {
		for k, v := range d.seen {
			if now.After(v) {
				delete(d.seen, k)
			}
			if len(d.seen) <= d.max {
				break
			}
		}
	}
	return true
}
