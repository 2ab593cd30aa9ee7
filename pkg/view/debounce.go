package view

import "time"

// DefaultDebounce is the quiet period for resize and theme events.
const DefaultDebounce = 160 * time.Millisecond

// Debouncer keeps the latest of a burst of values and releases it once no new
// value has arrived for its delay. It has no goroutines or timers of its own:
// the owning event loop asks it with Due, which keeps all state changes on
// one goroutine.
type Debouncer[T any] struct {
	delay    time.Duration
	value    T
	deadline time.Time
	pending  bool
}

// NewDebouncer creates a debouncer. A non-positive delay selects
// DefaultDebounce.
func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[T]{delay: delay}
}

// Push records v at now, replacing any pending value and restarting the
// quiet period.
func (d *Debouncer[T]) Push(now time.Time, v T) {
	d.value = v
	d.deadline = now.Add(d.delay)
	d.pending = true
}

// Due returns the pending value once its quiet period has passed at now.
func (d *Debouncer[T]) Due(now time.Time) (T, bool) {
	var zero T
	if !d.pending || now.Before(d.deadline) {
		return zero, false
	}
	v := d.value
	d.value, d.pending = zero, false
	return v, true
}

// Deadline reports when the pending value becomes due.
func (d *Debouncer[T]) Deadline() (time.Time, bool) {
	return d.deadline, d.pending
}

// Cancel drops the pending value.
func (d *Debouncer[T]) Cancel() {
	var zero T
	d.value, d.pending = zero, false
}
