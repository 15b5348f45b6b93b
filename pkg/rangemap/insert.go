package rangemap

import (
	"slices"

	"github.com/henderiw/rangeidx/pkg/span"
)

// Insert stores v for exactly the range rb. Overlapped entries are truncated
// or split so the new entry keeps its requested bounds:
//
//	before:  |---a---|   |----b----|
//	insert:      |====v====|
//	after:   |-a-|====v====|--b--|
//
// An empty range is a no-op.
func (m *Map[T, V]) Insert(rb span.RangeBounds[T], v V) {
	r, ok := span.Canonical(rb)
	if !ok {
		return
	}
	m.insert(r, m.locateRange(r), v)
}

// InsertWith is Insert where the stored value is produced by fn. fn receives
// every entry fully or partially overlapped by rb, clipped to rb, in
// ascending order. The slice and its values belong to fn.
func (m *Map[T, V]) InsertWith(rb span.RangeBounds[T], fn func(Entries[T, V]) V) {
	r, ok := span.Canonical(rb)
	if !ok {
		return
	}
	w := m.locateRange(r)
	lo, hi := w.run()

	overlapped := make(Entries[T, V], 0, hi-lo)
	for _, e := range m.entries[lo:hi] {
		clipped, _ := e.Range.Intersect(r)
		v := e.Value
		if clipped != e.Range {
			// the remainder outside r keeps the original value
			v = m.cloneValue(v)
		}
		overlapped = append(overlapped, Entry[T, V]{Range: clipped, Value: v})
	}
	m.insert(r, w, fn(overlapped))
}

func (m *Map[T, V]) insert(r span.Range[T], w window, v V) {
	lo, hi := w.run()

	var buf [3]Entry[T, V]
	pieces := buf[:0]
	if w.startHit && m.entries[lo].Range.Start < r.Start {
		left := m.entries[lo]
		left.Range.End = r.Start
		pieces = append(pieces, left)
	}
	pieces = append(pieces, Entry[T, V]{Range: r, Value: v})
	if w.endHit && m.entries[hi-1].Range.End > r.End {
		right := m.entries[hi-1]
		right.Range.Start = r.End
		if len(pieces) == 2 && hi-1 == lo {
			// both remainders come from one entry
			right.Value = m.cloneValue(right.Value)
		}
		pieces = append(pieces, right)
	}
	m.entries = slices.Replace(m.entries, lo, hi, pieces...)
}
