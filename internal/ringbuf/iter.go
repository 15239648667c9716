package ringbuf

import (
	"fmt"
	"iter"
)

// CopyTo copies every element, in logical order, into dst starting at dst[offset]. It returns
// ErrInvalidArgument if dst is nil, offset is negative, or dst[offset:] is shorter than Len().
func (d *Deque[T]) CopyTo(dst []T, offset int) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrInvalidArgument)
	}
	if offset < 0 {
		return fmt.Errorf("%w: negative destination offset %d", ErrInvalidArgument, offset)
	}
	if len(dst)-offset < d.count {
		return fmt.Errorf("%w: destination has %d slots after offset %d, need %d",
			ErrInvalidArgument, max(0, len(dst)-offset), offset, d.count)
	}
	head, tail := d.segments()
	n := copy(dst[offset:], head)
	copy(dst[offset+n:], tail)
	return nil
}

// Slice returns a newly allocated slice holding the elements in logical order.
func (d *Deque[T]) Slice() []T {
	s := make([]T, d.count)
	head, tail := d.segments()
	copy(s[copy(s, head):], tail)
	return s
}

// All returns an iterator over index-value pairs in logical order. Each iteration reads the
// Deque as it is when the iteration starts; modifying the Deque mid-iteration gives undefined
// results.
func (d *Deque[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < d.count; i++ {
			if !yield(i, d.buf[d.physical(i)]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in logical order.
func (d *Deque[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, t := range d.All() {
			if !yield(t) {
				return
			}
		}
	}
}

// Backward returns an iterator over index-value pairs from the back to the front.
func (d *Deque[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := d.count - 1; i >= 0; i-- {
			if !yield(i, d.buf[d.physical(i)]) {
				return
			}
		}
	}
}
