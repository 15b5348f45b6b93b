package idxtable

import (
	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
)

// Iterator walks a snapshot of entries one id at a time.
type Iterator[T index.Index, V any] struct {
	current int
	id      T
	prev    T
	started bool
	entries Entries[T, V]
}

func newIterator[T index.Index, V any](entries Entries[T, V]) *Iterator[T, V] {
	return &Iterator[T, V]{entries: entries}
}

func (r *Iterator[T, V]) ID() T { return r.id }

func (r *Iterator[T, V]) Value() V { return r.entries[r.current].Value }

// Range returns the entry holding the current id.
func (r *Iterator[T, V]) Range() span.Range[T] { return r.entries[r.current].Range }

func (r *Iterator[T, V]) Next() bool {
	if r.current >= len(r.entries) {
		return false
	}
	if !r.started {
		r.started = true
		r.id = r.entries[0].Range.Start
		return true
	}
	r.prev = r.id
	if next, ok := index.Next(r.id); ok && next < r.entries[r.current].Range.End {
		r.id = next
		return true
	}
	r.current++
	if r.current >= len(r.entries) {
		return false
	}
	r.id = r.entries[r.current].Range.Start
	return true
}

// IsConsecutive returns whether the current id directly follows the previous
// one.
func (r *Iterator[T, V]) IsConsecutive() bool {
	if !r.started || r.id == r.entries[0].Range.Start && r.current == 0 {
		return false
	}
	next, ok := index.Next(r.prev)
	return ok && next == r.id
}
