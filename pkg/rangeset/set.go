// Package rangeset implements a set of indexes stored as sorted,
// non-overlapping half-open ranges.
package rangeset

import (
	"iter"
	"strings"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/rangemap"
	"github.com/henderiw/rangeidx/pkg/span"
)

type unit = struct{}

// Set is a range map without values. The zero Set is empty and ready to
// use. A Set is not safe for concurrent use.
type Set[T index.Index] struct {
	m rangemap.Map[T, unit]
}

func New[T index.Index]() *Set[T] {
	return &Set[T]{}
}

// FromRanges returns the union of the given ranges. Overlapping and
// touching ranges are merged.
func FromRanges[T index.Index](ranges ...span.Range[T]) *Set[T] {
	s := New[T]()
	for _, r := range ranges {
		s.Add(r)
	}
	return s
}

func (s *Set[T]) Len() int      { return s.m.Len() }
func (s *Set[T]) IsEmpty() bool { return s.m.IsEmpty() }
func (s *Set[T]) Clear()        { s.m.Clear() }

// Count returns the number of indexes in s.
func (s *Set[T]) Count() uint64 {
	var n uint64
	for r := range s.All() {
		n += r.Len()
	}
	return n
}

func (s *Set[T]) Span() (span.Range[T], bool) { return s.m.Span() }

func (s *Set[T]) Clone() *Set[T] {
	return &Set[T]{m: *s.m.Clone()}
}

// Equal reports whether s and other store the same ranges.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return s.m.Equal(&other.m, func(unit, unit) bool { return true })
}

// All returns an iterator over the ranges of s in ascending order.
func (s *Set[T]) All() iter.Seq[span.Range[T]] {
	return func(yield func(span.Range[T]) bool) {
		for r := range s.m.All() {
			if !yield(r) {
				return
			}
		}
	}
}

// Backward returns an iterator over the ranges of s in descending order.
func (s *Set[T]) Backward() iter.Seq[span.Range[T]] {
	return func(yield func(span.Range[T]) bool) {
		for r := range s.m.Backward() {
			if !yield(r) {
				return
			}
		}
	}
}

func (s *Set[T]) Ranges() []span.Range[T] { return s.m.Ranges() }

func (s *Set[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, r := range s.m.Ranges() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (s *Set[T]) Validate() error { return s.m.Validate() }

func (s *Set[T]) Contains(at T) bool { return s.m.Contains(at) }

// ContainsRange returns whether every index of rb is in s.
func (s *Set[T]) ContainsRange(rb span.RangeBounds[T]) bool { return s.m.Covers(rb) }

// ContainsRangeStrict returns whether rb is stored in s as one exact range.
func (s *Set[T]) ContainsRangeStrict(rb span.RangeBounds[T]) bool {
	r, ok := span.Canonical(rb)
	if !ok {
		return false
	}
	e, ok := s.m.Lookup(r.Start)
	return ok && e.Range == r
}

// Intersects returns whether any index of rb is in s.
func (s *Set[T]) Intersects(rb span.RangeBounds[T]) bool { return s.m.Intersects(rb) }

// Add adds rb to s, merging it with every range it overlaps or touches.
func (s *Set[T]) Add(rb span.RangeBounds[T]) {
	s.m.AddValue(rb, unit{})
}

// Insert adds rb to s without merging it with touching ranges.
func (s *Set[T]) Insert(rb span.RangeBounds[T]) {
	s.m.Insert(rb, unit{})
}

// AddUnit adds the index at and returns whether it was absent. It panics
// when at is absent and equal to the largest value of T.
func (s *Set[T]) AddUnit(at T) bool {
	return s.m.AddUnit(at, unit{})
}

func (s *Set[T]) Remove(rb span.RangeBounds[T]) { s.m.Remove(rb) }

// Split cuts the range containing at into [Start, at) and [at, End). See
// rangemap.Map.SplitWith for the result.
func (s *Set[T]) Split(at T) (left, right int, ok bool) { return s.m.Split(at) }

// Merge replaces the ranges at positions i through j with their span.
func (s *Set[T]) Merge(i, j int) { s.m.Merge(i, j) }

// Collapse merges every run of touching ranges into one.
//
//	before: |--a--|--b--|  |--c--|--d--|--e--|
//	after:  |-----ab----|  |-------cde-------|
func (s *Set[T]) Collapse() {
	s.m.Coalesce(func(unit, unit) bool { return true })
}

// Invert replaces s with its complement in [Min, Max).
func (s *Set[T]) Invert() {
	s.m = s.Not().m
}

// Not returns the complement of s in [Min, Max). The largest value of T is
// never part of a range, so the complement of the empty set is [Min, Max)
// and the complement of that is empty.
//
//	s:    |  |--a--|     |--b--|        |
//	Not:  |--|     |-----|     |--------|
//	     Min                           Max
func (s *Set[T]) Not() *Set[T] {
	out := &Set[T]{m: *rangemap.NewWithCapacity[T, unit](s.m.Len() + 1)}
	prev := index.Min[T]()
	for r := range s.m.All() {
		if prev < r.Start {
			out.m.Insert(span.New(prev, r.Start), unit{})
		}
		prev = r.End
	}
	if end := index.Max[T](); prev < end {
		out.m.Insert(span.New(prev, end), unit{})
	}
	return out
}
