package rangemap

import (
	"iter"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
)

// All returns an iterator over the entries of m in ascending order.
// The map must not be modified during the iteration.
func (m *Map[T, V]) All() iter.Seq2[span.Range[T], V] {
	return func(yield func(span.Range[T], V) bool) {
		for _, e := range m.entries {
			if !yield(e.Range, e.Value) {
				return
			}
		}
	}
}

// Backward returns an iterator over the entries of m in descending order.
// The map must not be modified during the iteration.
func (m *Map[T, V]) Backward() iter.Seq2[span.Range[T], V] {
	return func(yield func(span.Range[T], V) bool) {
		for i := len(m.entries) - 1; i >= 0; i-- {
			if !yield(m.entries[i].Range, m.entries[i].Value) {
				return
			}
		}
	}
}

// Scan returns an iterator over the entries overlapping rb, unclipped.
func (m *Map[T, V]) Scan(rb span.RangeBounds[T]) iter.Seq2[span.Range[T], V] {
	return func(yield func(span.Range[T], V) bool) {
		r, ok := span.Canonical(rb)
		if !ok {
			return
		}
		lo, hi := m.overlapping(r)
		for _, e := range m.entries[lo:hi] {
			if !yield(e.Range, e.Value) {
				return
			}
		}
	}
}

// Ranges returns the ranges of m as a fresh slice.
func (m *Map[T, V]) Ranges() []span.Range[T] {
	out := make([]span.Range[T], len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Range
	}
	return out
}

// Iterate returns a cursor over a snapshot of the entries of m.
func (m *Map[T, V]) Iterate() *Iterator[T, V] {
	return &Iterator[T, V]{current: -1, entries: m.Entries()}
}

// Iterator is a forward cursor with a known length. Call Next before the
// first access.
type Iterator[T index.Index, V any] struct {
	current int
	entries []Entry[T, V]
}

func (r *Iterator[T, V]) Next() bool {
	if r.current < len(r.entries) {
		r.current++
	}
	return r.current < len(r.entries)
}

func (r *Iterator[T, V]) Entry() Entry[T, V] { return r.entries[r.current] }

func (r *Iterator[T, V]) Range() span.Range[T] { return r.entries[r.current].Range }

func (r *Iterator[T, V]) Value() V { return r.entries[r.current].Value }

// Len returns the total number of entries.
func (r *Iterator[T, V]) Len() int { return len(r.entries) }

// Remaining returns the number of entries Next has yet to produce.
func (r *Iterator[T, V]) Remaining() int { return max(0, len(r.entries)-r.current-1) }

// IsConsecutive returns whether the current entry starts where the previous
// one ends.
func (r *Iterator[T, V]) IsConsecutive() bool {
	if r.current < 1 || r.current >= len(r.entries) {
		return false
	}
	return r.entries[r.current-1].Range.End == r.entries[r.current].Range.Start
}
