package search

import "time"

// DefaultDebounce is the quiet period between the last keystroke and the lookup
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces bursts of input into one trigger. Each Schedule call
// hands out a new tag and invalidates the previous one; the caller arms a
// timer carrying the tag and asks Ready when it fires. Only the tag of the
// most recent Schedule is ever ready, and only once.
type Debouncer struct {
	delay   time.Duration
	current uint64
	armed   bool
}

// NewDebouncer creates a debouncer; a zero delay fires on the next tick
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule restarts the quiet period and returns the tag for the new timer
func (d *Debouncer) Schedule() uint64 {
	d.current++
	d.armed = true
	return d.current
}

// Cancel drops any pending trigger
func (d *Debouncer) Cancel() {
	d.current++
	d.armed = false
}

// Pending reports whether a trigger is scheduled and not yet consumed
func (d *Debouncer) Pending() bool {
	return d.armed
}

// Ready reports whether a timer carrying tag is the latest one, consuming it
func (d *Debouncer) Ready(tag uint64) bool {
	if !d.armed || tag != d.current {
		return false
	}
	d.armed = false
	return true
}
