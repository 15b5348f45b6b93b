package rangemap

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/henderiw/rangeidx/pkg/index"
	"github.com/henderiw/rangeidx/pkg/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func e[T index.Index, V any](start, end T, v V) Entry[T, V] {
	return Entry[T, V]{Range: span.New(start, end), Value: v}
}

func im[T index.Index, V any](entries ...Entry[T, V]) *Map[T, V] {
	return &Map[T, V]{entries: entries}
}

func assertEntries[T index.Index, V any](t *testing.T, want, got *Map[T, V]) {
	t.Helper()
	require.NoError(t, got.Validate())
	if diff := cmp.Diff(want.entries, got.entries, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestLocate(t *testing.T) {
	m := im(e(0, 5, 0), e(5, 15, 0), e(20, 25, 0))
	cases := map[string]struct {
		key     int
		want    int
		wantHit bool
	}{
		"FirstStart":  {key: 0, want: 0, wantHit: true},
		"FirstInside": {key: 1, want: 0, wantHit: true},
		"Adjacent":    {key: 5, want: 1, wantHit: true},
		"GapStart":    {key: 15, want: 2},
		"GapInside":   {key: 16, want: 2},
		"LastStart":   {key: 20, want: 2, wantHit: true},
		"PastEnd":     {key: 25, want: 3},
		"BeforeAll":   {key: -1, want: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, hit := m.locate(tc.key)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantHit, hit)
		})
	}
}

func TestLocateRange(t *testing.T) {
	m := im(e(10, 20, 0), e(30, 40, 0), e(50, 60, 0))
	cases := map[string]struct {
		r      span.Range[int]
		want   window
		wantLo int
		wantHi int
	}{
		"HitHitSame":  {r: span.New(12, 18), want: window{start: 0, end: 0, startHit: true, endHit: true}, wantLo: 0, wantHi: 1},
		"HitHitOther": {r: span.New(15, 55), want: window{start: 0, end: 2, startHit: true, endHit: true}, wantLo: 0, wantHi: 3},
		"HitMiss":     {r: span.New(15, 25), want: window{start: 0, end: 1, startHit: true}, wantLo: 0, wantHi: 1},
		"MissHit":     {r: span.New(25, 35), want: window{start: 1, end: 1, endHit: true}, wantLo: 1, wantHi: 2},
		"MissMiss":    {r: span.New(22, 28), want: window{start: 1, end: 1}, wantLo: 1, wantHi: 1},
		"EndOnEnd":    {r: span.New(25, 40), want: window{start: 1, end: 1, endHit: true}, wantLo: 1, wantHi: 2},
		"EndOnStart":  {r: span.New(25, 30), want: window{start: 1, end: 1}, wantLo: 1, wantHi: 1},
		"Spanning":    {r: span.New(0, 100), want: window{start: 0, end: 3}, wantLo: 0, wantHi: 3},
		"AfterAll":    {r: span.New(70, 80), want: window{start: 3, end: 3}, wantLo: 3, wantHi: 3},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := m.locateRange(tc.r)
			assert.Equal(t, tc.want, got)
			lo, hi := got.run()
			assert.Equal(t, tc.wantLo, lo)
			assert.Equal(t, tc.wantHi, hi)
		})
	}
}

func TestInsert(t *testing.T) {
	cases := map[string]struct {
		m    *Map[uint8, bool]
		r    span.Range[uint8]
		want *Map[uint8, bool]
	}{
		"Prepend": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](0, 5),
			want: im(e[uint8](0, 5, true), e[uint8](5, 100, false)),
		},
		"Append": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](100, 105),
			want: im(e[uint8](5, 100, false), e[uint8](100, 105, true)),
		},
		"FillGap": {
			m:    im(e[uint8](5, 10, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](10, 15),
			want: im(e[uint8](5, 10, false), e[uint8](10, 15, true), e[uint8](15, 20, false)),
		},
		"MissHit": {
			m:    im(e[uint8](5, 10, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](10, 17),
			want: im(e[uint8](5, 10, false), e[uint8](10, 17, true), e[uint8](17, 20, false)),
		},
		"ThreeWaySplit": {
			m:    im(e[uint8](5, 10, false)),
			r:    span.New[uint8](7, 9),
			want: im(e[uint8](5, 7, false), e[uint8](7, 9, true), e[uint8](9, 10, false)),
		},
		"HitHit": {
			m:    im(e[uint8](5, 10, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](7, 17),
			want: im(e[uint8](5, 7, false), e[uint8](7, 17, true), e[uint8](17, 20, false)),
		},
		"HitHitSwallow": {
			m:    im(e[uint8](5, 10, false), e[uint8](12, 14, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](7, 17),
			want: im(e[uint8](5, 7, false), e[uint8](7, 17, true), e[uint8](17, 20, false)),
		},
		"HitMiss": {
			m:    im(e[uint8](5, 10, false), e[uint8](12, 14, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](7, 22),
			want: im(e[uint8](5, 7, false), e[uint8](7, 22, true)),
		},
		"MissHitSwallow": {
			m:    im(e[uint8](5, 10, false), e[uint8](12, 14, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](2, 17),
			want: im(e[uint8](2, 17, true), e[uint8](17, 20, false)),
		},
		"MissMissSwallow": {
			m:    im(e[uint8](5, 10, false), e[uint8](12, 14, false), e[uint8](15, 20, false)),
			r:    span.New[uint8](2, 22),
			want: im(e[uint8](2, 22, true)),
		},
		"ExactStart": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](5, 9),
			want: im(e[uint8](5, 9, true), e[uint8](9, 100, false)),
		},
		"ExactEnd": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](7, 100),
			want: im(e[uint8](5, 7, false), e[uint8](7, 100, true)),
		},
		"ExactEntry": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](5, 100),
			want: im(e[uint8](5, 100, true)),
		},
		"DomainEnd": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](250, math.MaxUint8),
			want: im(e[uint8](5, 100, false), e[uint8](250, math.MaxUint8, true)),
		},
		"Empty": {
			m:    im(e[uint8](5, 100, false)),
			r:    span.New[uint8](50, 50),
			want: im(e[uint8](5, 100, false)),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tc.m.Insert(tc.r, true)
			assertEntries(t, tc.want, tc.m)
		})
	}
}

func TestInsertBounds(t *testing.T) {
	m := im(e[uint8](5, 100, false))
	m.Insert(span.Closed[uint8](7, 8), true)
	assertEntries(t, im(e[uint8](5, 7, false), e[uint8](7, 9, true), e[uint8](9, 100, false)), m)

	m.Insert(span.From[uint8](200), true)
	assertEntries(t, im(e[uint8](5, 7, false), e[uint8](7, 9, true), e[uint8](9, 100, false), e[uint8](200, math.MaxUint8, true)), m)

	assert.Panics(t, func() { m.Insert(span.Closed[uint8](0, math.MaxUint8), false) })
}

func TestInsertWith(t *testing.T) {
	m := im(e(0, 10, 1), e(20, 30, 2), e(40, 50, 4))

	var seen Entries[int, int]
	m.InsertWith(span.New(5, 45), func(overlapped Entries[int, int]) int {
		seen = overlapped
		sum := 0
		for _, o := range overlapped {
			sum += o.Value
		}
		return sum
	})

	if diff := cmp.Diff(Entries[int, int]{e(5, 10, 1), e(20, 30, 2), e(40, 45, 4)}, seen); diff != "" {
		t.Errorf("overlapped: -want, +got:\n%s", diff)
	}
	assertEntries(t, im(e(0, 5, 1), e(5, 45, 7), e(45, 50, 4)), m)

	m.InsertWith(span.New(60, 70), func(overlapped Entries[int, int]) int {
		assert.Empty(t, overlapped)
		return 9
	})
	assertEntries(t, im(e(0, 5, 1), e(5, 45, 7), e(45, 50, 4), e(60, 70, 9)), m)
}

func TestInsertClonesSplitValue(t *testing.T) {
	m := NewFunc[int](func(v []int) []int { return append([]int(nil), v...) })
	m.Insert(span.New(0, 100), []int{1})
	m.Insert(span.New(40, 60), []int{2})

	left, _ := m.Get(10)
	right, _ := m.Get(80)
	left[0] = 42
	assert.Equal(t, []int{1}, right)
}

func TestInsertQuery(t *testing.T) {
	m := im(e(0, 10, 0), e(20, 30, 1), e(40, 50, 2))
	m.Insert(span.New(5, 25), 9)

	for i := range 60 {
		got, ok := m.Get(i)
		switch {
		case i >= 5 && i < 25:
			assert.True(t, ok, "%d", i)
			assert.Equal(t, 9, got, "%d", i)
		case i < 5:
			assert.Equal(t, 0, got, "%d", i)
		case i >= 25 && i < 30:
			assert.Equal(t, 1, got, "%d", i)
		case i >= 40 && i < 50:
			assert.Equal(t, 2, got, "%d", i)
		default:
			assert.False(t, ok, "%d", i)
		}
	}
}

func TestQueries(t *testing.T) {
	m := im(e(1, 10, "a"), e(15, 26, "b"), e(61, 100, "c"))

	assert.True(t, m.Intersects(span.New(5, 10)))
	assert.False(t, m.Intersects(span.New(0, 1)))
	assert.True(t, m.Intersects(span.New(12, 17)))
	assert.True(t, m.Intersects(span.New(20, 30)))
	assert.False(t, m.Intersects(span.New(26, 61)))
	assert.False(t, m.Intersects(span.New(20, 20)))

	assert.True(t, m.Contains(1))
	assert.False(t, m.Contains(10))

	got, ok := m.Lookup(70)
	require.True(t, ok)
	assert.Equal(t, e(61, 100, "c"), got)
	_, ok = m.Lookup(50)
	assert.False(t, ok)

	assert.Equal(t, []Entry[int, string]{e(1, 10, "a"), e(15, 26, "b")}, m.LookupRange(span.New(9, 16)))
	assert.Nil(t, m.LookupRange(span.New(30, 40)))

	sp, ok := m.Span()
	require.True(t, ok)
	assert.Equal(t, span.New(1, 100), sp)
	start, _ := m.Start()
	end, _ := m.End()
	assert.Equal(t, 1, start)
	assert.Equal(t, 100, end)
	first, _ := m.First()
	last, _ := m.Last()
	assert.Equal(t, "a", first.Value)
	assert.Equal(t, "c", last.Value)
	assert.Equal(t, e(15, 26, "b"), m.At(1))
	assert.Panics(t, func() { m.At(3) })

	assert.Equal(t, "{[1, 10)=a, [15, 26)=b, [61, 100)=c}", m.String())

	var empty Map[int, string]
	assert.True(t, empty.IsEmpty())
	_, ok = empty.Span()
	assert.False(t, ok)
	_, ok = empty.First()
	assert.False(t, ok)
}

func TestCovers(t *testing.T) {
	m := im(e(0, 5, 0), e(5, 15, 0), e(20, 25, 0))
	cases := map[string]struct {
		r    span.Range[int]
		want bool
	}{
		"Inside":       {r: span.New(1, 4), want: true},
		"AcrossTouch":  {r: span.New(3, 12), want: true},
		"WholeRun":     {r: span.New(0, 15), want: true},
		"AcrossGap":    {r: span.New(10, 22)},
		"InGap":        {r: span.New(16, 18)},
		"PastLast":     {r: span.New(22, 30)},
		"ExactLast":    {r: span.New(20, 25), want: true},
		"EmptyRange":   {r: span.New(3, 3)},
		"StartsInGap":  {r: span.New(18, 22)},
		"EndsOnBorder": {r: span.New(10, 15), want: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Covers(tc.r))
		})
	}
}

func TestCloneEqualClear(t *testing.T) {
	m := NewWithCapacity[int, int](4)
	assert.Equal(t, 4, m.Cap())
	m.Insert(span.New(0, 10), 1)
	m.Insert(span.New(20, 30), 2)

	c := m.Clone()
	eq := func(a, b int) bool { return a == b }
	assert.True(t, m.Equal(c, eq))

	c.Insert(span.New(5, 6), 3)
	assert.False(t, m.Equal(c, eq))
	assert.Equal(t, 2, m.Len())

	m.Clear()
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 4, c.Len())
	assert.NotZero(t, m.Cap())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, im(e(0, 5, 0), e(5, 10, 0)).Validate())
	assert.Error(t, im(e(0, 5, 0), e(4, 10, 0)).Validate())
	assert.Error(t, im(e(5, 5, 0)).Validate())
	assert.Error(t, im(e(10, 20, 0), e(0, 5, 0)).Validate())
}
