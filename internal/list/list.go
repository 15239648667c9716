// Package list adapts a ringbuf.Deque to callers that only deal in untyped values.
//
// Every value entering a List is checked against the element type and converted before it
// reaches the deque. A value of the wrong type fails with ErrTypeMismatch and leaves the List
// unchanged.
package list

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/ttd2089/ringdeque/internal/ringbuf"
)

// ErrTypeMismatch is returned when a value cannot be stored as the List's element type.
var ErrTypeMismatch = errors.New("value has the wrong type for this list")

// A List exposes a deque of T through methods that accept and return any.
type List[T any] struct {
	d *ringbuf.Deque[T]
}

// New returns an empty List backed by a deque with the default capacity.
func New[T any]() *List[T] {
	return Wrap(ringbuf.New[T]())
}

// Wrap returns a List that reads and writes d. d must not be nil.
func Wrap[T any](d *ringbuf.Deque[T]) *List[T] {
	return &List[T]{d: d}
}

// Deque returns the deque behind the List.
func (l *List[T]) Deque() *ringbuf.Deque[T] {
	return l.d
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.d.Len() }

// IsReadOnly is always false.
func (l *List[T]) IsReadOnly() bool { return false }

// IsFixedSize is always false; the deque grows as needed.
func (l *List[T]) IsFixedSize() bool { return false }

// IsSynchronized is always false. Callers sharing a List must provide their own locking.
func (l *List[T]) IsSynchronized() bool { return false }

// Add appends v and returns its index.
func (l *List[T]) Add(v any) (int, error) {
	t, err := convert[T](v)
	if err != nil {
		return -1, err
	}
	l.d.AddToBack(t)
	return l.d.Len() - 1, nil
}

// Insert places v at index. index may equal Len(), which appends.
func (l *List[T]) Insert(index int, v any) error {
	t, err := convert[T](v)
	if err != nil {
		return err
	}
	return l.d.Insert(index, t)
}

// Get returns the element at index as an untyped value.
func (l *List[T]) Get(index int) (any, error) {
	t, err := l.d.Get(index)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Set replaces the element at index with v.
func (l *List[T]) Set(index int, v any) error {
	t, err := convert[T](v)
	if err != nil {
		return err
	}
	return l.d.Set(index, t)
}

// IndexOf returns the index of the first element equal to v, or -1. Elements are compared
// with reflect.DeepEqual so that element types which are not comparable still work.
func (l *List[T]) IndexOf(v any) (int, error) {
	t, err := convert[T](v)
	if err != nil {
		return -1, err
	}
	return l.d.IndexFunc(func(e T) bool { return reflect.DeepEqual(e, t) }), nil
}

// Contains reports whether an element equal to v is present.
func (l *List[T]) Contains(v any) (bool, error) {
	i, err := l.IndexOf(v)
	return i >= 0, err
}

// Remove removes the first element equal to v. Finding no match is not an error.
func (l *List[T]) Remove(v any) error {
	i, err := l.IndexOf(v)
	if err != nil || i < 0 {
		return err
	}
	return l.d.RemoveAt(i)
}

// RemoveAt removes the element at index.
func (l *List[T]) RemoveAt(index int) error {
	return l.d.RemoveAt(index)
}

// Clear removes every element, keeping the capacity.
func (l *List[T]) Clear() {
	l.d.Clear()
}

// CopyTo copies the elements into dst starting at offset. dst must be a non-nil slice whose
// element type can hold a T.
func (l *List[T]) CopyTo(dst any, offset int) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ringbuf.ErrInvalidArgument)
	}
	if s, ok := dst.([]T); ok {
		return l.d.CopyTo(s, offset)
	}

	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: destination %T is not a slice", ringbuf.ErrInvalidArgument, dst)
	}
	if dv.IsNil() {
		return fmt.Errorf("%w: nil destination", ringbuf.ErrInvalidArgument)
	}
	elemType := reflect.TypeFor[T]()
	if !elemType.AssignableTo(dv.Type().Elem()) {
		return fmt.Errorf("%w: cannot copy %v into %T", ringbuf.ErrInvalidArgument, elemType, dst)
	}
	if offset < 0 {
		return fmt.Errorf("%w: negative destination offset %d", ringbuf.ErrInvalidArgument, offset)
	}
	if dv.Len()-offset < l.d.Len() {
		return fmt.Errorf("%w: destination too small", ringbuf.ErrInvalidArgument)
	}
	for i, t := range l.d.All() {
		dv.Index(offset + i).Set(reflect.ValueOf(&t).Elem())
	}
	return nil
}

// Values returns an iterator over the elements as untyped values.
func (l *List[T]) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for t := range l.d.Values() {
			if !yield(t) {
				return
			}
		}
	}
}

// convert checks that v can be stored as a T. An untyped nil is accepted only when the zero
// value of T is itself nil.
func convert[T any](v any) (T, error) {
	var zero T
	if v == nil {
		if nillable(reflect.TypeFor[T]()) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: nil is not a %v", ErrTypeMismatch, reflect.TypeFor[T]())
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T is not a %v", ErrTypeMismatch, v, reflect.TypeFor[T]())
	}
	return t, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
