package rangeset

import (
	"errors"
	"fmt"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
)

// Builder collects additions and removals and produces a Set. Removals are
// applied after all additions, so the order of calls does not matter.
// Empty ranges are reported as errors by Set.
type Builder[T index.Index] struct {
	in   []span.Range[T]
	out  []span.Range[T]
	errs error
}

func (b *Builder[T]) AddRange(rb span.RangeBounds[T]) {
	r, ok := span.Canonical(rb)
	if !ok {
		b.errs = errors.Join(b.errs, fmt.Errorf("addRange(%s): empty range", rb.Bounds()))
		return
	}
	b.in = append(b.in, r)
}

// AddUnit adds the index at. The largest value of T cannot be stored and is
// reported as an error by Set.
func (b *Builder[T]) AddUnit(at T) {
	if at == index.Max[T]() {
		b.errs = errors.Join(b.errs, fmt.Errorf("addUnit(%v): %w", at, index.ErrOverflow))
		return
	}
	b.in = append(b.in, span.UnitAt(at))
}

// RemoveRange removes all indexes in rb from the result.
func (b *Builder[T]) RemoveRange(rb span.RangeBounds[T]) {
	r, ok := span.Canonical(rb)
	if !ok {
		b.errs = errors.Join(b.errs, fmt.Errorf("removeRange(%s): empty range", rb.Bounds()))
		return
	}
	b.out = append(b.out, r)
}

// AddSet adds all indexes in s to the result.
func (b *Builder[T]) AddSet(s *Set[T]) {
	if s == nil {
		return
	}
	b.in = append(b.in, s.Ranges()...)
}

// RemoveSet removes all indexes in s from the result.
func (b *Builder[T]) RemoveSet(s *Set[T]) {
	if s == nil {
		return
	}
	b.out = append(b.out, s.Ranges()...)
}

// Set returns the normalized set: no overlapping and no touching ranges.
// The builder is reset. The returned error joins every rejected call; the
// set is built from the accepted ones.
func (b *Builder[T]) Set() (*Set[T], error) {
	s := FromRanges(b.in...)
	for _, r := range b.out {
		s.Remove(r)
	}
	s.Collapse()

	errs := b.errs
	*b = Builder[T]{}
	return s, errs
}
