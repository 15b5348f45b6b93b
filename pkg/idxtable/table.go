package idxtable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/rangemap"
	"github.com/henderiw/rangeidx/pkg/rangeset"
	"github.com/henderiw/rangeidx/pkg/span"
)

var (
	ErrOutOfRange     = errors.New("out of range")
	ErrAlreadyClaimed = errors.New("already claimed")
	ErrNotFound       = errors.New("not found")
	ErrNoFree         = errors.New("no free entry found")
)

type Table[T index.Index, V any] interface {
	Get(id T) (V, error)
	Claim(id T, d V) error
	ClaimDynamic(d V) (T, error)
	ClaimRange(start T, size uint64, d V) error
	ClaimSize(size uint64, d V) ([]span.Range[T], error)
	ClaimMerge(start T, size uint64, d V, merge MergeFn[V]) error
	Release(id T) error
	ReleaseRange(start T, size uint64) error
	Update(id T, d V) error
	Compact(eq func(a, b V) bool)

	Iterate() *Iterator[T, V]
	IterateFree() *Iterator[T, V]

	Count() uint64
	Has(id T) bool

	IsFree(id T) bool
	FindFree() (T, error)
	FindFreeRange(start T, size uint64) (span.Range[T], error)
	FindFreeSize(size uint64) ([]span.Range[T], error)

	Free() *rangeset.Set[T]
	Claimed() *rangeset.Set[T]
	GetAll() Entries[T, V]
	Bounds() span.Range[T]
}

// ValidationFn vets ids before they are claimed, updated or released. It is
// not applied to the initial entries.
type ValidationFn[T index.Index] func(id T) error

// MergeFn folds the value of an existing claim into the accumulated value.
type MergeFn[V any] func(acc, existing V) V

// NewTable returns a table managing the ids in bounds. The initial entries
// are claimed without running the validation function.
func NewTable[T index.Index, V any](bounds span.Range[T], initEntries map[T]V, v ValidationFn[T]) (Table[T, V], error) {
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("table bounds %s: %w", bounds, ErrOutOfRange)
	}
	r := &table[T, V]{
		m:          new(sync.RWMutex),
		table:      rangemap.New[T, V](),
		bounds:     bounds,
		validateFn: v,
	}

	var errm error
	for id, d := range initEntries {
		if err := r.add(id, d, true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type table[T index.Index, V any] struct {
	m          *sync.RWMutex
	table      *rangemap.Map[T, V]
	bounds     span.Range[T]
	validateFn ValidationFn[T]
}

func (r *table[T, V]) Bounds() span.Range[T] { return r.bounds }

func (r *table[T, V]) validate(id T, init bool) error {
	if !r.bounds.Contains(id) {
		return fmt.Errorf("id %v outside %s: %w", id, r.bounds, ErrOutOfRange)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

// rangeOf returns [start, start+size) after checking it fits in the table.
func (r *table[T, V]) rangeOf(start T, size uint64) (span.Range[T], error) {
	if size == 0 {
		return span.Range[T]{}, fmt.Errorf("size 0 at %v: %w", start, ErrOutOfRange)
	}
	if !r.bounds.Contains(start) || size > index.Distance(start, r.bounds.End) {
		return span.Range[T]{}, fmt.Errorf("start %v, size %d does not fit in %s: %w", start, size, r.bounds, ErrOutOfRange)
	}
	return span.New(start, advance(start, size)), nil
}

func (r *table[T, V]) validateRange(rng span.Range[T]) error {
	if r.validateFn == nil {
		return nil
	}
	for id := rng.Start; id < rng.End; id++ {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T, V]) Get(id T) (V, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var d V

	if !r.bounds.Contains(id) {
		return d, fmt.Errorf("id %v outside %s: %w", id, r.bounds, ErrOutOfRange)
	}
	d, ok := r.table.Get(id)
	if !ok {
		return d, fmt.Errorf("no match found for %v: %w", id, ErrNotFound)
	}
	return d, nil
}

func (r *table[T, V]) Claim(id T, d V) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(id, d, false)
}

func (r *table[T, V]) ClaimDynamic(d V) (T, error) {
	r.m.Lock()
	defer r.m.Unlock()

	id, err := r.findFree()
	if err != nil {
		return id, err
	}
	if err := r.add(id, d, false); err != nil {
		return id, err
	}
	return id, nil
}

func (r *table[T, V]) ClaimRange(start T, size uint64, d V) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.findFreeRange(start, size)
	if err != nil {
		return err
	}
	if err := r.validateRange(rng); err != nil {
		return err
	}
	r.table.Insert(rng, d)
	return nil
}

func (r *table[T, V]) ClaimSize(size uint64, d V) ([]span.Range[T], error) {
	r.m.Lock()
	defer r.m.Unlock()

	ranges, err := r.findFreeSize(size)
	if err != nil {
		return nil, err
	}
	for _, rng := range ranges {
		if err := r.validateRange(rng); err != nil {
			return nil, err
		}
	}
	for _, rng := range ranges {
		r.table.Insert(rng, d)
	}
	return ranges, nil
}

// ClaimMerge claims [start, start+size) as a single entry whether or not
// parts of it are already claimed. The stored value is d merged with the
// values of the claims it overlaps, in ascending order.
func (r *table[T, V]) ClaimMerge(start T, size uint64, d V, merge MergeFn[V]) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.rangeOf(start, size)
	if err != nil {
		return err
	}
	if err := r.validateRange(rng); err != nil {
		return err
	}
	r.table.InsertWith(rng, func(overlapped rangemap.Entries[T, V]) V {
		acc := d
		for _, e := range overlapped {
			acc = merge(acc, e.Value)
		}
		return acc
	})
	return nil
}

func (r *table[T, V]) Release(id T) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(id)
}

func (r *table[T, V]) ReleaseRange(start T, size uint64) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.rangeOf(start, size)
	if err != nil {
		return err
	}
	if err := r.validateRange(rng); err != nil {
		return err
	}
	r.table.Remove(rng)
	return nil
}

func (r *table[T, V]) Update(id T, d V) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(id, d)
}

// Compact merges adjacent claims holding equal values.
func (r *table[T, V]) Compact(eq func(a, b V) bool) {
	r.m.Lock()
	defer r.m.Unlock()

	r.table.Coalesce(eq)
}

func (r *table[T, V]) Iterate() *Iterator[T, V] {
	r.m.RLock()
	defer r.m.RUnlock()

	return newIterator(r.table.Entries())
}

func (r *table[T, V]) IterateFree() *Iterator[T, V] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterateFree()
}

func (r *table[T, V]) iterateFree() *Iterator[T, V] {
	var d V
	free := r.free()
	entries := make(Entries[T, V], 0, free.Len())
	for rng := range free.All() {
		entries = append(entries, NewEntry(rng, d))
	}
	return newIterator(entries)
}

func (r *table[T, V]) Count() uint64 {
	r.m.RLock()
	defer r.m.RUnlock()

	var n uint64
	for rng := range r.table.All() {
		n += rng.Len()
	}
	return n
}

func (r *table[T, V]) Has(id T) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Contains(id)
}

func (r *table[T, V]) IsFree(id T) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(id)
}

func (r *table[T, V]) isFree(id T) bool {
	return r.bounds.Contains(id) && !r.table.Contains(id)
}

func (r *table[T, V]) FindFree() (T, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree()
}

func (r *table[T, V]) findFree() (T, error) {
	for rng := range r.free().All() {
		return rng.Start, nil
	}
	var id T
	return id, ErrNoFree
}

func (r *table[T, V]) FindFreeRange(start T, size uint64) (span.Range[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeRange(start, size)
}

func (r *table[T, V]) findFreeRange(start T, size uint64) (span.Range[T], error) {
	rng, err := r.rangeOf(start, size)
	if err != nil {
		return rng, err
	}
	if r.table.Intersects(rng) {
		return span.Range[T]{}, fmt.Errorf("range %s in use: %w", rng, ErrAlreadyClaimed)
	}
	return rng, nil
}

func (r *table[T, V]) FindFreeSize(size uint64) ([]span.Range[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeSize(size)
}

// findFreeSize collects free ids in ascending order until size ids are
// found. The result is one range per free run used.
func (r *table[T, V]) findFreeSize(size uint64) ([]span.Range[T], error) {
	if size == 0 || size > r.bounds.Len() {
		return nil, fmt.Errorf("size %d does not fit in %s: %w", size, r.bounds, ErrOutOfRange)
	}
	var ranges []span.Range[T]
	need := size
	for rng := range r.free().All() {
		take := min(need, rng.Len())
		ranges = append(ranges, span.New(rng.Start, advance(rng.Start, take)))
		need -= take
		if need == 0 {
			return ranges, nil
		}
	}
	return nil, fmt.Errorf("could not find %d free entries: %w", size, ErrNoFree)
}

func (r *table[T, V]) Free() *rangeset.Set[T] {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.free()
}

func (r *table[T, V]) free() *rangeset.Set[T] {
	return rangeset.And(r.claimed().Not(), rangeset.FromRanges(r.bounds))
}

func (r *table[T, V]) Claimed() *rangeset.Set[T] {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.claimed()
}

func (r *table[T, V]) claimed() *rangeset.Set[T] {
	return rangeset.FromRanges(r.table.Ranges()...)
}

func (r *table[T, V]) add(id T, d V, init bool) error {
	if err := r.validate(id, init); err != nil {
		return err
	}
	if r.table.Contains(id) {
		return fmt.Errorf("entry %v: %w", id, ErrAlreadyClaimed)
	}
	r.table.AddUnit(id, d)
	return nil
}

func (r *table[T, V]) update(id T, d V) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	if !r.table.Contains(id) {
		return fmt.Errorf("entry %v: %w", id, ErrNotFound)
	}
	r.table.Insert(span.UnitAt(id), d)
	return nil
}

func (r *table[T, V]) delete(id T) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	r.table.Remove(span.UnitAt(id))
	return nil
}

func (r *table[T, V]) GetAll() Entries[T, V] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.table.Entries()
}

// advance returns v+n. The sum is computed on the two's complement bit
// pattern, so it is exact as long as the result fits in T.
func advance[T index.Index](v T, n uint64) T {
	return T(uint64(v) + n)
}
