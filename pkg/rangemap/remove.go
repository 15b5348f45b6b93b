package rangemap

import (
	"fmt"
	"slices"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
)

// SplitFunc computes the value kept by the remainder of an entry that was
// cut by a removal. It receives the original range and value.
type SplitFunc[T index.Index, V any] func(orig span.Range[T], v V) V

// Remove deletes all coverage within rb. Boundary entries keep the part
// outside rb together with their value. An empty range is a no-op.
func (m *Map[T, V]) Remove(rb span.RangeBounds[T]) {
	m.RemoveWith(rb, keepValue[T, V], func(_ span.Range[T], v V) V {
		return m.cloneValue(v)
	})
}

// RemoveWith deletes all coverage within rb. The entry truncated on its
// right side (it started before rb) keeps the value returned by splitLeft;
// the entry truncated on its left side (it ends after rb) keeps the value
// returned by splitRight:
//
//	before:  |---a---|   |---b---|   |---c---|
//	remove:      |=====================|
//	after:   |-L-|                     |-R-|
//
// where L = splitLeft(a) and R = splitRight(c).
func (m *Map[T, V]) RemoveWith(rb span.RangeBounds[T], splitLeft, splitRight SplitFunc[T, V]) {
	r, ok := span.Canonical(rb)
	if !ok {
		return
	}
	w := m.locateRange(r)
	lo, hi := w.run()
	if lo == hi {
		return
	}

	var buf [2]Entry[T, V]
	pieces := buf[:0]
	if first := m.entries[lo]; w.startHit && first.Range.Start < r.Start {
		pieces = append(pieces, Entry[T, V]{
			Range: span.New(first.Range.Start, r.Start),
			Value: splitLeft(first.Range, first.Value),
		})
	}
	if last := m.entries[hi-1]; w.endHit && last.Range.End > r.End {
		pieces = append(pieces, Entry[T, V]{
			Range: span.New(r.End, last.Range.End),
			Value: splitRight(last.Range, last.Value),
		})
	}
	m.entries = slices.Replace(m.entries, lo, hi, pieces...)
}

// RemoveAt deletes the entry at position i and returns it. It panics if i is
// out of range.
func (m *Map[T, V]) RemoveAt(i int) Entry[T, V] {
	m.checkPosition(i)
	e := m.entries[i]
	m.entries = slices.Delete(m.entries, i, i+1)
	return e
}

// Merge replaces the entries at positions i through j inclusive with one
// entry spanning [entries[i].Start, entries[j].End) that keeps the value of
// entries[i]. Gaps between them become covered. It panics unless
// 0 <= i <= j < Len().
func (m *Map[T, V]) Merge(i, j int) {
	m.checkPosition(i)
	m.checkPosition(j)
	if i > j {
		panic(fmt.Sprintf("rangemap: merge positions out of order: %d > %d", i, j))
	}
	m.entries[i].Range.End = m.entries[j].Range.End
	m.entries = slices.Delete(m.entries, i+1, j+1)
}

// Coalesce merges every run of directly adjacent entries whose values are
// equal according to eq. The first value of each run is kept.
func (m *Map[T, V]) Coalesce(eq func(a, b V) bool) {
	if len(m.entries) < 2 {
		return
	}
	out := m.entries[:1]
	for _, e := range m.entries[1:] {
		last := &out[len(out)-1]
		if last.Range.End == e.Range.Start && eq(last.Value, e.Value) {
			last.Range.End = e.Range.End
			continue
		}
		out = append(out, e)
	}
	clear(m.entries[len(out):])
	m.entries = out
}

func keepValue[T index.Index, V any](_ span.Range[T], v V) V { return v }
