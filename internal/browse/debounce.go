package browse

import (
	"sync"
	"time"
)

// Debouncer gates a trigger on the leading edge of a burst.
//
// The first call fires. Any call arriving less than the interval after the previous call (fired or not) is
// suppressed and restarts the quiet window, so a burst of rapid calls fires exactly once.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
	seen     bool
}

// NewDebouncer creates a [Debouncer]. now defaults to [time.Now].
func NewDebouncer(interval time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{interval: interval, now: now}
}

// Allow records a call and reports whether it fires.
func (d *Debouncer) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.now()
	fire := !d.seen || t.Sub(d.last) >= d.interval
	d.seen = true
	d.last = t
	return fire
}

// Reset forgets the previous call so the next one fires.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = false
}

// Interval returns the quiet interval.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}
