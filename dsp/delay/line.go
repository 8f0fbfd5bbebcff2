package delay

import "fmt"

// Line is a fixed-length circular delay line imposing an exact lag of
// Len() writes between a value entering and leaving the line. Storage is
// allocated once by New; Push never allocates.
type Line[T any] struct {
	buffer   []T
	writePos int
	filled   int
}

// New returns a delay line holding frames pending values.
func New[T any](frames int) (*Line[T], error) {
	if frames <= 0 {
		return nil, fmt.Errorf("delay frames must be > 0: %d", frames)
	}
	return &Line[T]{buffer: make([]T, frames)}, nil
}

// Len returns the configured lag in writes.
func (d *Line[T]) Len() int {
	return len(d.buffer)
}

// Pending returns the number of values currently held by the line.
func (d *Line[T]) Pending() int {
	return d.filled
}

// Push writes v. Until Len() values have accumulated the write is absorbed
// and ok is false. Afterwards each write releases the oldest value.
func (d *Line[T]) Push(v T) (out T, ok bool) {
	if d.filled < len(d.buffer) {
		d.buffer[d.writePos] = v
		d.advance()
		d.filled++
		return out, false
	}

	// writePos wraps onto the oldest entry once the line is full.
	out = d.buffer[d.writePos]
	d.buffer[d.writePos] = v
	d.advance()
	return out, true
}

// Reset drops all pending values.
func (d *Line[T]) Reset() {
	var zero T
	for i := range d.buffer {
		d.buffer[i] = zero
	}
	d.writePos = 0
	d.filled = 0
}

func (d *Line[T]) advance() {
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}
