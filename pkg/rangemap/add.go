package rangemap

import (
	"slices"

	"github.com/henderiw/rangeidx/pkg/span"
)

// Add stores a value for rb widened to cover every entry it touches. Entries
// overlapping rb and entries directly adjacent to either end of rb collapse
// into a single entry:
//
//	before:  |--a--|  |--b--|   |--c--|
//	add:           |=====|
//	after:   |=====v========|   |--c--|
//
// fn produces the value of the new entry. It receives a read-only view of
// the touched entries in ascending order; the view is empty when rb lies in
// a gap. An empty range is a no-op.
func (m *Map[T, V]) Add(rb span.RangeBounds[T], fn func(touched []Entry[T, V]) V) {
	r, ok := span.Canonical(rb)
	if !ok {
		return
	}
	m.add(r, fn)
}

func (m *Map[T, V]) add(r span.Range[T], fn func([]Entry[T, V]) V) {
	lo, hi := m.locateRange(r).run()
	if lo > 0 && m.entries[lo-1].Range.End == r.Start {
		lo--
	}
	if hi < len(m.entries) && m.entries[hi].Range.Start == r.End {
		hi++
	}

	merged := r
	if lo < hi {
		merged.Start = min(r.Start, m.entries[lo].Range.Start)
		merged.End = max(r.End, m.entries[hi-1].Range.End)
	}
	v := fn(m.entries[lo:hi:hi])
	m.entries = slices.Replace(m.entries, lo, hi, Entry[T, V]{Range: merged, Value: v})
}

// AddValue is Add with a fixed value; the values of touched entries are
// dropped.
func (m *Map[T, V]) AddValue(rb span.RangeBounds[T], v V) {
	m.Add(rb, func([]Entry[T, V]) V { return v })
}

// AddUnit stores v at the single index at. When at already lies in an entry
// the value of that whole entry is overwritten in place and AddUnit returns
// false. Otherwise the entry [at, at+1) is inserted and AddUnit returns true.
//
// Inserting a new unit at the largest value of T panics.
func (m *Map[T, V]) AddUnit(at T, v V) bool {
	i, hit := m.locate(at)
	if hit {
		m.entries[i].Value = v
		return false
	}
	m.entries = slices.Insert(m.entries, i, Entry[T, V]{Range: span.UnitAt(at), Value: v})
	return true
}
