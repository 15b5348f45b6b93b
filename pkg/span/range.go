// Package span provides half-open index ranges and the bound expressions that
// are canonicalized into them.
package span

import (
	"fmt"

	"github.com/henderiw/rangeidx/pkg/index"
)

// Range is the half-open interval [Start, End).
type Range[T index.Index] struct {
	Start T
	End   T
}

func New[T index.Index](start, end T) Range[T] {
	return Range[T]{Start: start, End: end}
}

// UnitAt returns [at, at+1). It panics if at is the largest value of T.
func UnitAt[T index.Index](at T) Range[T] {
	return Range[T]{Start: at, End: index.MustNext(at)}
}

// Full returns the range covering the whole domain of T. The largest value
// of T is never part of a half-open range.
func Full[T index.Index]() Range[T] {
	return Range[T]{Start: index.Min[T](), End: index.Max[T]()}
}

func (r Range[T]) String() string {
	return fmt.Sprintf("[%v, %v)", r.Start, r.End)
}

func (r Range[T]) IsEmpty() bool { return r.End <= r.Start }

// Len returns the number of indexes in r.
func (r Range[T]) Len() uint64 {
	if r.IsEmpty() {
		return 0
	}
	return index.Distance(r.Start, r.End)
}

// Contains returns whether v lies in r.
func (r Range[T]) Contains(v T) bool {
	return r.Start <= v && v < r.End
}

// CoveredBy returns whether r is entirely contained within other.
func (r Range[T]) CoveredBy(other Range[T]) bool {
	return other.Start <= r.Start && r.End <= other.End
}

// Overlaps returns whether r and other share at least one index.
func (r Range[T]) Overlaps(other Range[T]) bool {
	return r.Start < other.End && other.Start < r.End
}

// Touches returns whether r and other overlap or are directly adjacent.
func (r Range[T]) Touches(other Range[T]) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// EntirelyBefore returns whether r ends at or before the start of other.
func (r Range[T]) EntirelyBefore(other Range[T]) bool {
	return r.End <= other.Start
}

// Intersect returns the overlap of r and other. ok is false when they do not
// overlap.
func (r Range[T]) Intersect(other Range[T]) (Range[T], bool) {
	out := Range[T]{Start: max(r.Start, other.Start), End: min(r.End, other.End)}
	if out.IsEmpty() {
		return Range[T]{}, false
	}
	return out, true
}

// Bounds implements RangeBounds.
func (r Range[T]) Bounds() Bounds[T] {
	return Between(r.Start, r.End)
}
