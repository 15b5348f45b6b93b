package rangeset

import (
	"iter"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/rangemap"
	"github.com/henderiw/rangeidx/pkg/span"
)

func keep(unit, unit) unit { return unit{} }

// And returns the indexes present in both a and b.
func And[T index.Index](a, b *Set[T]) *Set[T] {
	return &Set[T]{m: *rangemap.Intersection(&a.m, &b.m, keep)}
}

// Or returns the indexes present in a or b. Ranges of the result that
// overlap or touch a range of the operand with fewer ranges are merged.
func Or[T index.Index](a, b *Set[T]) *Set[T] {
	return &Set[T]{m: *rangemap.Union(&a.m, &b.m, keep)}
}

// AndWith replaces s with And(s, other).
func (s *Set[T]) AndWith(other *Set[T]) {
	s.m.IntersectWith(&other.m, keep)
}

// OrWith adds every range of other to s.
func (s *Set[T]) OrWith(other *Set[T]) {
	s.m.UnionWith(&other.m, keep)
}

// IsSubset returns whether every index of s is in other.
func (s *Set[T]) IsSubset(other *Set[T]) bool {
	for r := range s.All() {
		if !other.ContainsRange(r) {
			return false
		}
	}
	return true
}

func (s *Set[T]) IsSuperset(other *Set[T]) bool { return other.IsSubset(s) }

// IsSubsetStrict returns whether every range of s is stored in other as
// the exact same range.
func (s *Set[T]) IsSubsetStrict(other *Set[T]) bool {
	for r := range s.All() {
		if !other.ContainsRangeStrict(r) {
			return false
		}
	}
	return true
}

func (s *Set[T]) IsSupersetStrict(other *Set[T]) bool { return other.IsSubsetStrict(s) }

// IsDisjoint returns whether s and other share no index.
func (s *Set[T]) IsDisjoint(other *Set[T]) bool {
	small, large := s, other
	if large.Len() < small.Len() {
		small, large = large, small
	}
	for r := range small.All() {
		if large.Intersects(r) {
			return false
		}
	}
	return true
}

// The sequences below are lazy range filters. They compare whole stored
// ranges and never cut or merge them, so a range only partially covered by
// the other operand counts as not contained.

// Difference yields the ranges of a not fully contained in b.
func Difference[T index.Index](a, b *Set[T]) iter.Seq[span.Range[T]] {
	return func(yield func(span.Range[T]) bool) {
		for r := range a.All() {
			if !b.ContainsRange(r) && !yield(r) {
				return
			}
		}
	}
}

// SymmetricDifference yields Difference(a, b) followed by Difference(b, a).
func SymmetricDifference[T index.Index](a, b *Set[T]) iter.Seq[span.Range[T]] {
	return func(yield func(span.Range[T]) bool) {
		for r := range Difference(a, b) {
			if !yield(r) {
				return
			}
		}
		for r := range Difference(b, a) {
			if !yield(r) {
				return
			}
		}
	}
}

// Intersection yields the ranges of the operand with fewer ranges that are
// fully contained in the other one.
func Intersection[T index.Index](a, b *Set[T]) iter.Seq[span.Range[T]] {
	small, large := smallLarge(a, b)
	return func(yield func(span.Range[T]) bool) {
		for r := range small.All() {
			if large.ContainsRange(r) && !yield(r) {
				return
			}
		}
	}
}

// Union yields the ranges of the operand with more ranges followed by the
// ranges of the other one not fully contained in it.
func Union[T index.Index](a, b *Set[T]) iter.Seq[span.Range[T]] {
	small, large := smallLarge(a, b)
	return func(yield func(span.Range[T]) bool) {
		for r := range large.All() {
			if !yield(r) {
				return
			}
		}
		for r := range Difference(small, large) {
			if !yield(r) {
				return
			}
		}
	}
}

func smallLarge[T index.Index](a, b *Set[T]) (small, large *Set[T]) {
	if b.Len() < a.Len() {
		return b, a
	}
	return a, b
}
