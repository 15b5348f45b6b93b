package rangeset

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
)

// FromBitSet returns the set of indexes whose bit is set in b, one range per
// run of set bits. It fails when a set bit does not fit in T.
func FromBitSet[T index.Index](b *bitset.BitSet) (*Set[T], error) {
	s := New[T]()
	i, ok := b.NextSet(0)
	for ok {
		j, found := b.NextClear(i)
		if !found {
			j = b.Len()
		}
		start, end := T(i), T(j)
		if end < 0 || uint64(start) != uint64(i) || uint64(end) != uint64(j) {
			return nil, fmt.Errorf("bit run [%d, %d) does not fit the index type", i, j)
		}
		s.m.Insert(span.New(start, end), unit{})
		i, ok = b.NextSet(j)
	}
	return s, nil
}

// BitSet returns a bitset with one bit set per index of s. It fails when s
// holds negative indexes.
func (s *Set[T]) BitSet() (*bitset.BitSet, error) {
	end, ok := s.m.End()
	if !ok {
		return bitset.New(0), nil
	}
	if start, _ := s.m.Start(); start < 0 {
		return nil, fmt.Errorf("negative index %v cannot be stored in a bitset", start)
	}
	b := bitset.New(uint(end))
	for r := range s.All() {
		b.FlipRange(uint(r.Start), uint(r.End))
	}
	return b, nil
}
