package iterutil

import (
	"iter"
)

// Uniq returns a new iterator that yields the unique values from the input iterator.
// The order of the output is the same as the input.
func Uniq[V comparable](seq iter.Seq[V]) iter.Seq[V] {
	return iter.Seq[V](func(yield func(V) bool) {
		seen := map[V]struct{}{}
		for v := range seq {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				if !yield(v) {
					return
				}
			}
		}
	})
}

// Map returns a new iterator that applies the function to each value from the input iterator.
func Map[V, R any](seq iter.Seq[V], f func(V) R) iter.Seq[R] {
	return iter.Seq[R](func(yield func(R) bool) {
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	})
}

// Filter returns a new iterator that yields the values for which keep returns true.
func Filter[V any](seq iter.Seq[V], keep func(V) bool) iter.Seq[V] {
	return iter.Seq[V](func(yield func(V) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	})
}
