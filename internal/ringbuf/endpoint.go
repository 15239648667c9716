package ringbuf

// AddToFront inserts item before the first element. A full Deque doubles its capacity first.
func (d *Deque[T]) AddToFront(item T) {
	d.growFull()
	d.offset = d.physical(-1)
	d.buf[d.offset] = item
	d.count++
}

// AddToBack appends item after the last element. A full Deque doubles its capacity first.
func (d *Deque[T]) AddToBack(item T) {
	d.growFull()
	d.buf[d.physical(d.count)] = item
	d.count++
}

// RemoveFromFront removes and returns the first element. It returns ErrEmpty when there is
// nothing to remove.
func (d *Deque[T]) RemoveFromFront() (T, error) {
	var zero T
	if d.count == 0 {
		return zero, ErrEmpty
	}
	item := d.buf[d.offset]
	d.buf[d.offset] = zero
	d.offset = d.physical(1)
	d.count--
	return item, nil
}

// RemoveFromBack removes and returns the last element. It returns ErrEmpty when there is
// nothing to remove.
func (d *Deque[T]) RemoveFromBack() (T, error) {
	var zero T
	if d.count == 0 {
		return zero, ErrEmpty
	}
	p := d.physical(d.count - 1)
	item := d.buf[p]
	d.buf[p] = zero
	d.count--
	return item, nil
}

// Front returns the first element without removing it.
func (d *Deque[T]) Front() (T, error) {
	if d.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return d.buf[d.offset], nil
}

// Back returns the last element without removing it.
func (d *Deque[T]) Back() (T, error) {
	if d.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return d.buf[d.physical(d.count-1)], nil
}

// Clear removes every element and releases the references they held. The capacity is kept.
func (d *Deque[T]) Clear() {
	head, tail := d.segments()
	clear(head)
	clear(tail)
	d.offset = 0
	d.count = 0
}
