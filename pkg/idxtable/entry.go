package idxtable

import (
	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/rangemap"
	"github.com/henderiw/rangeidx/pkg/span"
)

// Entries are claims in ascending order. Each entry covers a run of ids that
// share one value.
type Entries[T index.Index, V any] []rangemap.Entry[T, V]

func NewEntry[T index.Index, V any](rng span.Range[T], d V) rangemap.Entry[T, V] {
	return rangemap.Entry[T, V]{
		Range: rng,
		Value: d,
	}
}

// Count returns the number of ids covered by the entries.
func (r Entries[T, V]) Count() uint64 {
	var n uint64
	for _, e := range r {
		n += e.Range.Len()
	}
	return n
}

// Filter returns the entries for which fn returns true.
func (r Entries[T, V]) Filter(fn func(rng span.Range[T], d V) bool) Entries[T, V] {
	var out Entries[T, V]
	for _, e := range r {
		if fn(e.Range, e.Value) {
			out = append(out, e)
		}
	}
	return out
}
