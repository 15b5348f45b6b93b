package rangemap

import (
	"slices"

	"github.com/henderiw/rangeidx/pkg/span"
)

// locate returns the position of the entry containing key. On a miss the
// position is where an entry starting at key would be inserted.
func (m *Map[T, V]) locate(key T) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(e Entry[T, V], key T) int {
		switch {
		case key < e.Range.Start:
			return 1
		case key >= e.Range.End:
			return -1
		default:
			return 0
		}
	})
}

// window is the located footprint of a range in the backing sequence.
//
// start is the position of the range start, end the position of the range
// end searched in the suffix beginning at start. An end hit means the entry
// at end satisfies Start < r.End <= End, i.e. it holds the last index of the
// range.
type window struct {
	start, end       int
	startHit, endHit bool
}

// run returns the positions [lo, hi) of every entry overlapping the range.
func (w window) run() (lo, hi int) {
	if w.endHit {
		return w.start, w.end + 1
	}
	return w.start, w.end
}

func (m *Map[T, V]) locateRange(r span.Range[T]) window {
	var w window
	w.start, w.startHit = m.locate(r.Start)

	end, hit := slices.BinarySearchFunc(m.entries[w.start:], r.End, func(e Entry[T, V], end T) int {
		switch {
		case end <= e.Range.Start:
			return 1
		case end > e.Range.End:
			return -1
		default:
			return 0
		}
	})
	w.end, w.endHit = w.start+end, hit
	return w
}

// overlapping returns the positions [lo, hi) of the entries overlapping r.
func (m *Map[T, V]) overlapping(r span.Range[T]) (lo, hi int) {
	return m.locateRange(r).run()
}
