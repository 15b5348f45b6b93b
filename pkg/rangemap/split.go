package rangemap

import (
	"slices"

	"github.com/henderiw/rangeidx/pkg/span"
)

// Split cuts the entry containing at into [Start, at) and [at, End), both
// holding the entry's value. See SplitWith.
func (m *Map[T, V]) Split(at T) (left, right int, ok bool) {
	return m.SplitWith(at, func(_ span.Range[T], v V) (V, V) {
		return v, m.cloneValue(v)
	})
}

// SplitWith cuts the entry containing at into [Start, at) and [at, End) with
// the values returned by fn, and returns the positions of both halves.
//
// When at is the start of an entry nothing is cut and the entry's position
// is returned twice. When no entry contains at, ok is false. Adjacent halves
// are never merged back.
func (m *Map[T, V]) SplitWith(at T, fn func(orig span.Range[T], v V) (left, right V)) (int, int, bool) {
	i, hit := m.locate(at)
	if !hit {
		return 0, 0, false
	}
	e := m.entries[i]
	if e.Range.Start == at {
		return i, i, true
	}
	lv, rv := fn(e.Range, e.Value)
	m.entries[i] = Entry[T, V]{Range: span.New(e.Range.Start, at), Value: lv}
	m.entries = slices.Insert(m.entries, i+1, Entry[T, V]{Range: span.New(at, e.Range.End), Value: rv})
	return i, i + 1, true
}
