package port

import "github.com/cwbudde/algo-modular/dsp/delay"

// Cell is the value-storage primitive shared by all port kinds: the current
// value plus an optional fixed-length delay line in front of it.
type Cell[T any] struct {
	value T
	line  *delay.Line[T]
}

// Value returns the most recently stored value.
func (c *Cell[T]) Value() T {
	return c.value
}

// Delay returns the configured lag in writes.
func (c *Cell[T]) Delay() int {
	if c.line == nil {
		return 0
	}
	return c.line.Len()
}

func (c *Cell[T]) setDelay(frames int) error {
	if frames <= 0 {
		c.line = nil
		return nil
	}
	line, err := delay.New[T](frames)
	if err != nil {
		return err
	}
	c.line = line
	return nil
}

// admit runs the delay stage. ok is false while the write is absorbed.
func (c *Cell[T]) admit(v T) (T, bool) {
	if c.line == nil {
		return v, true
	}
	return c.line.Push(v)
}

func (c *Cell[T]) store(v T) {
	c.value = v
}
