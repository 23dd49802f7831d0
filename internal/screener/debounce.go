package screener

import "time"

// Debouncer derives a value that follows its input only after the input has
// been stable for the delay. It does not own a timer: Push returns a
// sequence number the caller schedules, and Fire is called with that number
// once the delay elapses. Only the newest sequence promotes.
type Debouncer[T comparable] struct {
	delay   time.Duration
	value   T
	latest  T
	seq     uint64
	stopped bool
}

func NewDebouncer[T comparable](initial T, delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, value: initial, latest: initial}
}

func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Push records a new input and returns the sequence to schedule.
func (d *Debouncer[T]) Push(v T) uint64 {
	d.latest = v
	d.seq++
	return d.seq
}

// Fire promotes the latest input if seq is still current. It reports
// whether the derived value changed.
func (d *Debouncer[T]) Fire(seq uint64) (T, bool) {
	if d.stopped || seq != d.seq {
		return d.value, false
	}
	changed := d.value != d.latest
	d.value = d.latest
	return d.value, changed
}

// Value is the derived (debounced) value.
func (d *Debouncer[T]) Value() T {
	return d.value
}

func (d *Debouncer[T]) Latest() T {
	return d.latest
}

// Pending reports whether an input is waiting to be promoted.
func (d *Debouncer[T]) Pending() bool {
	return !d.stopped && d.latest != d.value
}

// Stop makes every outstanding fire inert.
func (d *Debouncer[T]) Stop() {
	d.stopped = true
}

func (d *Debouncer[T]) Stopped() bool {
	return d.stopped
}
