package ringbuf

import "fmt"

// Insert places item at logical index, shifting later elements back by one. index may equal
// Len(), which appends.
func (d *Deque[T]) Insert(index int, item T) error {
	if err := d.checkInsertIndex(index); err != nil {
		return err
	}
	switch index {
	case 0:
		d.AddToFront(item)
	case d.count:
		d.AddToBack(item)
	default:
		d.insert(index, []T{item})
	}
	return nil
}

// InsertRange places items, in order, starting at logical index. If the Deque lacks room it
// grows to exactly Len()+len(items). Only the elements on the shorter side of index move.
func (d *Deque[T]) InsertRange(index int, items ...T) error {
	if err := d.checkInsertIndex(index); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	d.insert(index, items)
	return nil
}

func (d *Deque[T]) insert(index int, items []T) {
	k := len(items)
	d.reserve(k)

	if index < d.count-index {
		// Slide the leading elements k slots toward the front. Ascending order never
		// overwrites an element that has not been moved yet.
		for i := 0; i < index; i++ {
			d.buf[d.physical(i-k)] = d.buf[d.physical(i)]
		}
		d.offset = d.physical(-k)
	} else {
		for i := d.count - 1; i >= index; i-- {
			d.buf[d.physical(i+k)] = d.buf[d.physical(i)]
		}
	}

	for i, item := range items {
		d.buf[d.physical(index+i)] = item
	}
	d.count += k
}

// RemoveAt removes the element at logical index.
func (d *Deque[T]) RemoveAt(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	var err error
	switch index {
	case 0:
		_, err = d.RemoveFromFront()
	case d.count - 1:
		_, err = d.RemoveFromBack()
	default:
		d.remove(index, 1)
	}
	return err
}

// RemoveRange removes n elements starting at logical index. Only the elements on the shorter
// side of the removed range move, and the capacity is never reduced.
func (d *Deque[T]) RemoveRange(index, n int) error {
	if index < 0 || index > d.count {
		return fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, index, d.count)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	if index+n > d.count {
		return fmt.Errorf("%w: range [%d, %d) exceeds length %d", ErrInvalidArgument, index, index+n, d.count)
	}
	if n == 0 {
		return nil
	}
	d.remove(index, n)
	return nil
}

func (d *Deque[T]) remove(index, n int) {
	var zero T

	if index < d.count-index-n {
		for i := index - 1; i >= 0; i-- {
			d.buf[d.physical(i+n)] = d.buf[d.physical(i)]
		}
		for i := 0; i < n; i++ {
			d.buf[d.physical(i)] = zero
		}
		d.offset = d.physical(n)
	} else {
		for i := index + n; i < d.count; i++ {
			d.buf[d.physical(i-n)] = d.buf[d.physical(i)]
		}
		for i := d.count - n; i < d.count; i++ {
			d.buf[d.physical(i)] = zero
		}
	}
	d.count -= n
}

// IndexFunc returns the logical index of the first element satisfying f, or -1.
func (d *Deque[T]) IndexFunc(f func(T) bool) int {
	for i := 0; i < d.count; i++ {
		if f(d.buf[d.physical(i)]) {
			return i
		}
	}
	return -1
}

// RemoveFunc removes the first element satisfying f and reports whether one was found.
func (d *Deque[T]) RemoveFunc(f func(T) bool) bool {
	i := d.IndexFunc(f)
	if i < 0 {
		return false
	}
	// i is in range, so RemoveAt cannot fail.
	_ = d.RemoveAt(i)
	return true
}

// IndexOf returns the logical index of the first element equal to item, or -1. It is a
// function rather than a method so that Deque itself does not require comparable elements.
func IndexOf[T comparable](d *Deque[T], item T) int {
	return d.IndexFunc(func(t T) bool { return t == item })
}

// Contains reports whether item is in d.
func Contains[T comparable](d *Deque[T], item T) bool {
	return IndexOf(d, item) >= 0
}

// Remove removes the first element equal to item and reports whether one was found. The
// Deque is unchanged when there is no match.
func Remove[T comparable](d *Deque[T], item T) bool {
	return d.RemoveFunc(func(t T) bool { return t == item })
}
