package ringbuf

import "fmt"

// Cap returns the number of elements the Deque can hold before it reallocates.
func (d *Deque[T]) Cap() int {
	return len(d.buf)
}

// SetCap reallocates the Deque to hold exactly n elements. The live elements are laid out from
// slot 0 in the new buffer, so SetCap also unwraps a split Deque. It is the only way to shrink
// a Deque.
//
// SetCap returns ErrInvalidArgument when n is less than one and ErrInvalidState when n cannot
// hold the current elements. Setting the current capacity does nothing.
func (d *Deque[T]) SetCap(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: capacity %d must be positive", ErrInvalidArgument, n)
	}
	if n < d.count {
		return fmt.Errorf("%w: capacity %d with length %d", ErrInvalidState, n, d.count)
	}
	if n == len(d.buf) {
		return nil
	}
	d.resize(n)
	return nil
}

// resize moves the live elements into a new buffer of length n. n must be at least d.count.
func (d *Deque[T]) resize(n int) {
	buf := make([]T, n)
	head, tail := d.segments()
	copy(buf[copy(buf, head):], tail)
	d.buf = buf
	d.offset = 0
}

// reserve makes room for n more elements. Growth is exact: a caller inserting a known number
// of elements gets precisely the capacity it asked for.
func (d *Deque[T]) reserve(n int) {
	if len(d.buf)-d.count >= n {
		return
	}
	d.resize(d.count + n)
}

// growFull doubles the capacity of a full Deque ahead of a single-element push.
func (d *Deque[T]) growFull() {
	if d.count < len(d.buf) {
		return
	}
	d.resize(max(1, 2*len(d.buf)))
}
