package span

import (
	"fmt"
	"strings"

	"github.com/henderiw/rangeidx/pkg/index"
)

type BoundKind uint8

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one end of a range expression.
type Bound[T index.Index] struct {
	Kind  BoundKind
	Value T
}

// Bounds is a user supplied range expression. Each end is independently
// inclusive, exclusive or unbounded. The zero Bounds covers the whole domain.
type Bounds[T index.Index] struct {
	Lo Bound[T]
	Hi Bound[T]
}

// RangeBounds is implemented by everything that can be turned into a range
// expression: Bounds itself and Range.
type RangeBounds[T index.Index] interface {
	Bounds() Bounds[T]
}

func (b Bounds[T]) Bounds() Bounds[T] { return b }

func (b Bounds[T]) String() string {
	var sb strings.Builder
	switch b.Lo.Kind {
	case Included:
		fmt.Fprintf(&sb, "[%v", b.Lo.Value)
	case Excluded:
		fmt.Fprintf(&sb, "(%v", b.Lo.Value)
	default:
		sb.WriteString("(-∞")
	}
	sb.WriteString(", ")
	switch b.Hi.Kind {
	case Included:
		fmt.Fprintf(&sb, "%v]", b.Hi.Value)
	case Excluded:
		fmt.Fprintf(&sb, "%v)", b.Hi.Value)
	default:
		sb.WriteString("∞)")
	}
	return sb.String()
}

// All returns (-∞, ∞).
func All[T index.Index]() Bounds[T] { return Bounds[T]{} }

// From returns [v, ∞).
func From[T index.Index](v T) Bounds[T] {
	return Bounds[T]{Lo: Bound[T]{Kind: Included, Value: v}}
}

// Above returns (v, ∞).
func Above[T index.Index](v T) Bounds[T] {
	return Bounds[T]{Lo: Bound[T]{Kind: Excluded, Value: v}}
}

// Between returns [lo, hi).
func Between[T index.Index](lo, hi T) Bounds[T] {
	return From(lo).Below(hi)
}

// Closed returns [lo, hi].
func Closed[T index.Index](lo, hi T) Bounds[T] {
	return From(lo).To(hi)
}

// Unit returns [v, v].
func Unit[T index.Index](v T) Bounds[T] {
	return Closed(v, v)
}

// Below returns b with the upper end replaced by v exclusive: ..., v).
func (b Bounds[T]) Below(v T) Bounds[T] {
	b.Hi = Bound[T]{Kind: Excluded, Value: v}
	return b
}

// To returns b with the upper end replaced by v inclusive: ..., v].
func (b Bounds[T]) To(v T) Bounds[T] {
	b.Hi = Bound[T]{Kind: Included, Value: v}
	return b
}

// Canonical converts rb into the half-open form [start, end). ok is false when
// the resulting range is empty.
//
// An inclusive upper bound or an exclusive lower bound on the largest value
// of T cannot be represented and panics with an error wrapping
// index.ErrOverflow.
func Canonical[T index.Index](rb RangeBounds[T]) (r Range[T], ok bool) {
	b := rb.Bounds()

	switch b.Lo.Kind {
	case Included:
		r.Start = b.Lo.Value
	case Excluded:
		next, ok := index.Next(b.Lo.Value)
		if !ok {
			panic(fmt.Errorf("range start bound %s: %w", b, index.ErrOverflow))
		}
		r.Start = next
	default:
		r.Start = index.Min[T]()
	}

	switch b.Hi.Kind {
	case Included:
		next, ok := index.Next(b.Hi.Value)
		if !ok {
			panic(fmt.Errorf("range end bound %s: %w", b, index.ErrOverflow))
		}
		r.End = next
	case Excluded:
		r.End = b.Hi.Value
	default:
		r.End = index.Max[T]()
	}

	if r.IsEmpty() {
		return Range[T]{}, false
	}
	return r, true
}
