package index

import (
	"errors"
	"fmt"
)

// Index is the set of bounded, discrete, totally ordered scalars that can be
// used as a range coordinate.
type Index interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var ErrOverflow = errors.New("index overflow")

// One returns the unit step of T.
func One[T Index]() T { return 1 }

func signed[T Index]() bool {
	var zero T
	return zero-1 < zero
}

// Max returns the largest value representable by T.
func Max[T Index]() T {
	var m T
	if !signed[T]() {
		return ^m
	}
	// grow the all-ones pattern until it hits the sign bit
	m = 1
	for {
		next := m<<1 | 1
		if next < m {
			return m
		}
		m = next
	}
}

// Min returns the smallest value representable by T.
func Min[T Index]() T {
	if !signed[T]() {
		return 0
	}
	return -Max[T]() - 1
}

// CheckedAdd returns x + y and whether the sum fits in T.
func CheckedAdd[T Index](x, y T) (T, bool) {
	sum := x + y
	if (y > 0 && sum < x) || (y < 0 && sum > x) {
		return 0, false
	}
	return sum, true
}

// CheckedSub returns x - y and whether the difference fits in T.
func CheckedSub[T Index](x, y T) (T, bool) {
	diff := x - y
	if (y > 0 && diff > x) || (y < 0 && diff < x) {
		return 0, false
	}
	return diff, true
}

// Next returns id + 1.
// If there is none, ok is false.
func Next[T Index](id T) (T, bool) {
	return CheckedAdd(id, One[T]())
}

// Prev returns id - 1.
// If there is none, ok is false.
func Prev[T Index](id T) (T, bool) {
	return CheckedSub(id, One[T]())
}

// MustNext is like Next but panics when id is the largest value of T.
func MustNext[T Index](id T) T {
	next, ok := Next(id)
	if !ok {
		panic(fmt.Errorf("%w: %v + 1", ErrOverflow, id))
	}
	return next
}

// Distance returns hi - lo as an unsigned count. lo must not be larger than
// hi.
func Distance[T Index](lo, hi T) uint64 {
	// two's complement subtraction stays exact for every width up to 64 bits
	return uint64(hi) - uint64(lo)
}
