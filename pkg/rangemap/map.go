// Package rangemap implements an ordered map from non-overlapping half-open
// index ranges to values, stored as a flat sorted slice.
//
// Queries are O(log n) binary searches. Mutations shift the backing slice and
// are O(n). A Map is not safe for concurrent use; callers serialize access.
package rangemap

import (
	"fmt"
	"strings"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
)

// Entry is a stored (range, value) pair.
type Entry[T index.Index, V any] struct {
	Range span.Range[T]
	Value V
}

func (e Entry[T, V]) String() string {
	return fmt.Sprintf("%s=%v", e.Range, e.Value)
}

// Entries is a slice of entries handed over to a combinator. The combinator
// owns it.
type Entries[T index.Index, V any] []Entry[T, V]

// Map is a sorted sequence of entries with strictly increasing, non
// overlapping, non-empty ranges. Adjacent entries are never merged
// automatically.
//
// The zero Map is empty and ready to use.
type Map[T index.Index, V any] struct {
	entries []Entry[T, V]
	// clone copies a value that is about to be stored in more than one
	// entry. nil means plain assignment.
	clone func(V) V
}

func New[T index.Index, V any]() *Map[T, V] {
	return &Map[T, V]{}
}

// NewWithCapacity returns an empty map with room for n entries.
func NewWithCapacity[T index.Index, V any](n int) *Map[T, V] {
	return &Map[T, V]{entries: make([]Entry[T, V], 0, n)}
}

// NewFunc returns an empty map that uses clone whenever one stored value has
// to be duplicated into several entries (splits and partial overwrites).
func NewFunc[T index.Index, V any](clone func(V) V) *Map[T, V] {
	return &Map[T, V]{clone: clone}
}

func (m *Map[T, V]) cloneValue(v V) V {
	if m.clone == nil {
		return v
	}
	return m.clone(v)
}

func (m *Map[T, V]) Len() int      { return len(m.entries) }
func (m *Map[T, V]) Cap() int      { return cap(m.entries) }
func (m *Map[T, V]) IsEmpty() bool { return len(m.entries) == 0 }

// Clear removes all entries, keeping the allocated capacity.
func (m *Map[T, V]) Clear() {
	clear(m.entries)
	m.entries = m.entries[:0]
}

// Start returns the start of the first entry.
func (m *Map[T, V]) Start() (T, bool) {
	if len(m.entries) == 0 {
		var zero T
		return zero, false
	}
	return m.entries[0].Range.Start, true
}

// End returns the end of the last entry.
func (m *Map[T, V]) End() (T, bool) {
	if len(m.entries) == 0 {
		var zero T
		return zero, false
	}
	return m.entries[len(m.entries)-1].Range.End, true
}

// Span returns the smallest range covering every entry.
func (m *Map[T, V]) Span() (span.Range[T], bool) {
	if len(m.entries) == 0 {
		return span.Range[T]{}, false
	}
	return span.New(m.entries[0].Range.Start, m.entries[len(m.entries)-1].Range.End), true
}

func (m *Map[T, V]) First() (Entry[T, V], bool) {
	if len(m.entries) == 0 {
		return Entry[T, V]{}, false
	}
	return m.entries[0], true
}

func (m *Map[T, V]) Last() (Entry[T, V], bool) {
	if len(m.entries) == 0 {
		return Entry[T, V]{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// At returns the entry at position i. It panics if i is out of range.
func (m *Map[T, V]) At(i int) Entry[T, V] {
	m.checkPosition(i)
	return m.entries[i]
}

// Contains returns whether at lies in any entry.
func (m *Map[T, V]) Contains(at T) bool {
	_, hit := m.locate(at)
	return hit
}

// Get returns the value of the entry containing at.
func (m *Map[T, V]) Get(at T) (V, bool) {
	i, hit := m.locate(at)
	if !hit {
		var zero V
		return zero, false
	}
	return m.entries[i].Value, true
}

// Lookup returns the entry containing at.
func (m *Map[T, V]) Lookup(at T) (Entry[T, V], bool) {
	i, hit := m.locate(at)
	if !hit {
		return Entry[T, V]{}, false
	}
	return m.entries[i], true
}

// LookupRange returns a copy of all entries overlapping rb, unclipped.
func (m *Map[T, V]) LookupRange(rb span.RangeBounds[T]) []Entry[T, V] {
	r, ok := span.Canonical(rb)
	if !ok {
		return nil
	}
	lo, hi := m.overlapping(r)
	if lo == hi {
		return nil
	}
	return append([]Entry[T, V](nil), m.entries[lo:hi]...)
}

// Intersects returns whether any entry overlaps rb.
func (m *Map[T, V]) Intersects(rb span.RangeBounds[T]) bool {
	r, ok := span.Canonical(rb)
	if !ok {
		return false
	}
	lo, hi := m.overlapping(r)
	return lo < hi
}

// Covers returns whether every index of rb lies in some entry. Adjacent
// entries count as continuous coverage.
func (m *Map[T, V]) Covers(rb span.RangeBounds[T]) bool {
	r, ok := span.Canonical(rb)
	if !ok {
		return false
	}
	i, hit := m.locate(r.Start)
	if !hit {
		return false
	}
	end := m.entries[i].Range.End
	for end < r.End {
		i++
		if i == len(m.entries) || m.entries[i].Range.Start != end {
			return false
		}
		end = m.entries[i].Range.End
	}
	return true
}

// Entries returns a copy of the backing sequence.
func (m *Map[T, V]) Entries() []Entry[T, V] {
	return append([]Entry[T, V](nil), m.entries...)
}

// Clone returns a copy of m. Values are copied with the clone function given
// to NewFunc, if any.
func (m *Map[T, V]) Clone() *Map[T, V] {
	out := &Map[T, V]{
		entries: make([]Entry[T, V], len(m.entries), max(cap(m.entries), len(m.entries))),
		clone:   m.clone,
	}
	for i, e := range m.entries {
		out.entries[i] = Entry[T, V]{Range: e.Range, Value: m.cloneValue(e.Value)}
	}
	return out
}

// Equal reports whether m and other hold the same ranges with values that
// are equal according to eq.
func (m *Map[T, V]) Equal(other *Map[T, V], eq func(a, b V) bool) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i := range m.entries {
		if m.entries[i].Range != other.entries[i].Range ||
			!eq(m.entries[i].Value, other.entries[i].Value) {
			return false
		}
	}
	return true
}

func (m *Map[T, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Validate checks the ordering invariants of the backing sequence.
func (m *Map[T, V]) Validate() error {
	for i, e := range m.entries {
		if e.Range.IsEmpty() {
			return fmt.Errorf("entry %d %s is empty", i, e.Range)
		}
		if i > 0 && m.entries[i-1].Range.End > e.Range.Start {
			return fmt.Errorf("entry %d %s overlaps or precedes entry %d %s",
				i, e.Range, i-1, m.entries[i-1].Range)
		}
	}
	return nil
}

func (m *Map[T, V]) checkPosition(i int) {
	if i < 0 || i >= len(m.entries) {
		panic(fmt.Sprintf("rangemap: position %d out of range [0, %d)", i, len(m.entries)))
	}
}
