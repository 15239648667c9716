package ringbuf

import "errors"

var (
	// ErrOutOfRange is returned when a logical index falls outside the range an operation
	// accepts.
	ErrOutOfRange = errors.New("requested index was out of range")

	// ErrInvalidArgument is returned for a non-positive capacity, a negative or oversized
	// removal count, or an unusable copy destination.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when the capacity is set below the current length.
	ErrInvalidState = errors.New("capacity cannot hold existing elements")

	// ErrEmpty is returned when removing from or peeking at an empty Deque.
	ErrEmpty = errors.New("deque is empty")
)
