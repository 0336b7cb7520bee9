package world

import "iter"

// View is a read-only, insertion-ordered snapshot of a World collection.
type View[T any] struct {
	items []T
}

func newView[T any](items []T) View[T] {
	return View[T]{items: append([]T(nil), items...)}
}

// Len returns the number of items.
func (v View[T]) Len() int {
	return len(v.items)
}

// At returns the i-th item. It panics if i is out of range.
func (v View[T]) At(i int) T {
	return v.items[i]
}

// All iterates over the items with their insertion index.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range v.items {
			if !yield(i, item) {
				return
			}
		}
	}
}
