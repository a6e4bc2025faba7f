// Package ring provides a fixed-capacity evicting circular buffer.
//
// It backs every bounded window in the core: mid-price windows, per-minute
// trade counters, recently-filled order id sets and historical P&L series.
package ring

// Buffer keeps the last Cap() pushed values, evicting the oldest.
type Buffer[T any] struct {
	buf   []T
	head  int
	count int
}

// New allocates a buffer with the given capacity. Capacity below 1 is
// clamped to 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{buf: make([]T, capacity)}
}

// Push appends a value, evicting the oldest when full.
func (b *Buffer[T]) Push(v T) {
	b.buf[(b.head+b.count)%len(b.buf)] = v
	if b.count < len(b.buf) {
		b.count++
		return
	}
	b.head = (b.head + 1) % len(b.buf)
}

// Len returns the number of stored values.
func (b *Buffer[T]) Len() int {
	if b == nil {
		return 0
	}
	return b.count
}

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int { return len(b.buf) }

// Full reports whether the buffer holds Cap() values.
func (b *Buffer[T]) Full() bool { return b.count == len(b.buf) }

// At returns the i-th stored value, oldest first.
func (b *Buffer[T]) At(i int) T {
	return b.buf[(b.head+i)%len(b.buf)]
}

// Last returns the most recently pushed value.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if b.count == 0 {
		return zero, false
	}
	return b.At(b.count - 1), true
}

// Values copies the stored values, oldest first.
func (b *Buffer[T]) Values() []T {
	if b == nil || b.count == 0 {
		return nil
	}
	out := make([]T, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.At(i)
	}
	return out
}

// Reset drops all stored values keeping the capacity.
func (b *Buffer[T]) Reset() {
	b.head = 0
	b.count = 0
}

// Contains reports whether eq matches any stored value.
func Contains[T comparable](b *Buffer[T], v T) bool {
	if b == nil {
		return false
	}
	for i := 0; i < b.count; i++ {
		if b.At(i) == v {
			return true
		}
	}
	return false
}
