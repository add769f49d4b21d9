// unsafering implements a fixed size ring buffer with no concurrency support.
// It is meant to be owned by a single goroutine, such as a tea.Model.
package unsafering

import "iter"

type Buffer[T any] struct {
	data  []T
	start int
	count int
}

func New[T any](size int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, size)}
}

// Push appends v, overwriting the oldest element once the buffer is full.
func (r *Buffer[T]) Push(v T) {
	size := len(r.data)
	if size == 0 {
		return
	}
	if r.count < size {
		r.data[(r.start+r.count)%size] = v
		r.count++
		return
	}
	r.data[r.start] = v
	r.start = (r.start + 1) % size
}

func (r *Buffer[T]) Len() int {
	return r.count
}

func (r *Buffer[T]) Cap() int {
	return len(r.data)
}

// Reset empties the buffer and releases references to its elements.
func (r *Buffer[T]) Reset() {
	clear(r.data)
	r.start, r.count = 0, 0
}

// At returns the i'th element, oldest first.
func (r *Buffer[T]) At(i int) (val T, ok bool) {
	if i < 0 || i >= r.count {
		return val, false
	}
	return r.data[(r.start+i)%len(r.data)], true
}

// Iter yields the contents from oldest to newest.
//
// Example usage:
//
//	for v := range buf.Iter() {
//	    fmt.Println(v)
//	}
func (r *Buffer[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range r.count {
			if !yield(r.data[(r.start+i)%len(r.data)]) {
				return
			}
		}
	}
}
