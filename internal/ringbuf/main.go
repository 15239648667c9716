// Package ringbuf implements a double-ended queue over a single wrap-around buffer.
//
// A Deque keeps its elements in one backing slice. The element at logical index 0 lives at
// physical slot offset and logical index i lives at (offset + i) mod Cap(), so the live range may
// run past the end of the slice and continue at slot 0. Every operation is written in terms of
// that translation, which means a "split" deque needs no special handling anywhere.
//
// A Deque is not synchronized. Callers that share one between goroutines must guard it
// themselves.
package ringbuf

import "fmt"

// DefaultCapacity is the capacity of a Deque created without an explicit capacity.
const DefaultCapacity = 8

// A Deque is a growable double-ended queue with O(1) access by index.
type Deque[T any] struct {
	buf    []T
	offset int
	count  int
}

// New returns an empty Deque with DefaultCapacity.
func New[T any]() *Deque[T] {
	return &Deque[T]{buf: make([]T, DefaultCapacity)}
}

// NewWithCapacity returns an empty Deque with room for capacity elements. It returns
// ErrInvalidArgument when capacity is less than one.
func NewWithCapacity[T any](capacity int) (*Deque[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity %d must be positive", ErrInvalidArgument, capacity)
	}
	return &Deque[T]{buf: make([]T, capacity)}, nil
}

// FromSlice returns a Deque holding a copy of items, in order, with a capacity of exactly
// len(items). An empty items falls back to DefaultCapacity.
func FromSlice[T any](items []T) *Deque[T] {
	if len(items) == 0 {
		return New[T]()
	}
	buf := make([]T, len(items))
	copy(buf, items)
	return &Deque[T]{buf: buf, count: len(items)}
}

// Len returns the number of elements in the Deque.
func (d *Deque[T]) Len() int {
	return d.count
}

// Get returns the element at logical index i.
func (d *Deque[T]) Get(i int) (T, error) {
	if err := d.checkIndex(i); err != nil {
		var t T
		return t, err
	}
	return d.buf[d.physical(i)], nil
}

// Set replaces the element at logical index i. No other element moves.
func (d *Deque[T]) Set(i int, v T) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.buf[d.physical(i)] = v
	return nil
}

// physical maps a logical index to its slot in buf. i may fall anywhere in
// [-Cap(), 2*Cap()) so that the shifting code can address slots just outside the live range.
func (d *Deque[T]) physical(i int) int {
	c := len(d.buf)
	p := (d.offset + i) % c
	if p < 0 {
		p += c
	}
	return p
}

func (d *Deque[T]) checkIndex(i int) error {
	if i < 0 || i >= d.count {
		return fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, i, d.count)
	}
	return nil
}

func (d *Deque[T]) checkInsertIndex(i int) error {
	if i < 0 || i > d.count {
		return fmt.Errorf("%w: insert index %d with length %d", ErrOutOfRange, i, d.count)
	}
	return nil
}

// segments returns the live elements as at most two slices of buf, in logical order. The
// second slice is non-empty only when the Deque is split.
func (d *Deque[T]) segments() (head, tail []T) {
	if d.count == 0 {
		return nil, nil
	}
	end := d.offset + d.count
	if end <= len(d.buf) {
		return d.buf[d.offset:end], nil
	}
	return d.buf[d.offset:], d.buf[:end-len(d.buf)]
}
