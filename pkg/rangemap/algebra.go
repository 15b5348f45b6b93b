package rangemap

import (
	"github.com/henderiw/rangeidx/pkg/index"
)

// Combiner is implemented by value types that know how to combine
// themselves in the manner of bitwise AND and OR.
type Combiner[V any] interface {
	And(other V) V
	Or(other V) V
}

// Intersection returns a new map covering the indexes present in both a and
// b. The value of every piece is and(value in a, value in b). The operand
// with fewer entries drives the walk; the operands are not modified.
func Intersection[T index.Index, V any](a, b *Map[T, V], and func(x, y V) V) *Map[T, V] {
	driver, other := a, b
	swapped := false
	if b.Len() < a.Len() {
		driver, other = b, a
		swapped = true
	}

	out := &Map[T, V]{clone: a.clone}
	for _, d := range driver.entries {
		lo, hi := other.overlapping(d.Range)
		for _, o := range other.entries[lo:hi] {
			r, _ := d.Range.Intersect(o.Range)
			var v V
			if swapped {
				v = and(o.Value, d.Value)
			} else {
				v = and(d.Value, o.Value)
			}
			out.entries = append(out.entries, Entry[T, V]{Range: r, Value: v})
		}
	}
	return out
}

// Union returns a new map covering the indexes present in a or b.
//
// The operand with more entries is cloned and every entry of the other one
// is added to it with Add, so entries that overlap or touch collapse into
// one. The merged value is folded left to right: the values of the touched
// entries of the clone in ascending order, then the incoming value, i.e.
// or(or(t0, t1), incoming). Which operand is cloned depends on the entry
// counts, so or must be commutative and associative for the result to be
// independent of them.
func Union[T index.Index, V any](a, b *Map[T, V], or func(acc, v V) V) *Map[T, V] {
	acc, src := a, b
	if b.Len() > a.Len() {
		acc, src = b, a
	}
	out := acc.Clone()
	out.unionWith(src, or)
	return out
}

func (m *Map[T, V]) unionWith(src *Map[T, V], or func(acc, v V) V) {
	for _, e := range src.entries {
		m.add(e.Range, func(touched []Entry[T, V]) V {
			incoming := m.cloneValue(e.Value)
			if len(touched) == 0 {
				return incoming
			}
			v := touched[0].Value
			for _, t := range touched[1:] {
				v = or(v, t.Value)
			}
			return or(v, incoming)
		})
	}
}

// IntersectWith replaces the contents of m with Intersection(m, other, and).
func (m *Map[T, V]) IntersectWith(other *Map[T, V], and func(x, y V) V) {
	m.entries = Intersection(m, other, and).entries
}

// UnionWith adds every entry of other to m. Unlike Union the receiver always
// accumulates, so the fold order is fixed: m's values first.
func (m *Map[T, V]) UnionWith(other *Map[T, V], or func(acc, v V) V) {
	if m == other {
		other = other.Clone()
	}
	m.unionWith(other, or)
}

// IntersectionOf is Intersection for values implementing Combiner.
func IntersectionOf[T index.Index, V Combiner[V]](a, b *Map[T, V]) *Map[T, V] {
	return Intersection(a, b, func(x, y V) V { return x.And(y) })
}

// UnionOf is Union for values implementing Combiner.
func UnionOf[T index.Index, V Combiner[V]](a, b *Map[T, V]) *Map[T, V] {
	return Union(a, b, func(acc, v V) V { return acc.Or(v) })
}
