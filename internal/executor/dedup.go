package executor

import (
	"sync"
	"time"
)

// Dedup suppresses redelivered signals within a time-to-live window. Charting
// platforms are known to fire the same webhook more than once; a duplicate
// inside the window skips the order sub-pipeline but still notifies. It is
// safe for concurrent use.
type Dedup struct {
	seen map[string]time.Time // signal fingerprint -> last seen time
	ttl  time.Duration
	mu   sync.Mutex
}

// NewDedup creates a Dedup instance that considers a signal a duplicate if it
// has been seen within the given ttl. A zero ttl disables deduplication.
func NewDedup(ttl time.Duration) *Dedup {
	return &Dedup{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// IsDuplicate returns true if the fingerprint has been seen within the TTL
// window. If it has not been seen (or has expired), it is recorded and false
// is returned.
func (d *Dedup) IsDuplicate(fingerprint string) bool {
	if d.ttl <= 0 {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if lastSeen, ok := d.seen[fingerprint]; ok {
		if now.Sub(lastSeen) < d.ttl {
			return true
		}
	}

	// Opportunistically drop expired entries so the map stays bounded in a
	// long-lived process.
	for fp, ts := range d.seen {
		if now.Sub(ts) >= d.ttl {
			delete(d.seen, fp)
		}
	}

	d.seen[fingerprint] = now
	return false
}
