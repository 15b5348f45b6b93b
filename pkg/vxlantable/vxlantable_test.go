package vxlantable

import (
	"testing"

	"github.com/henderiw/rangeidx/pkg/idxtable"
	"github.com/henderiw/rangeidx/pkg/span"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

func TestNew(t *testing.T) {
	cases := map[string]struct {
		offset      uint32
		max         uint32
		expectedErr bool
	}{
		"Normal": {
			offset: 1000,
			max:    MaxVNI,
		},
		"Single": {
			offset: 5,
			max:    5,
		},
		"ErrorInverted": {
			offset:      10,
			max:         5,
			expectedErr: true,
		},
		"ErrorTooLarge": {
			offset:      0,
			max:         MaxVNI + 1,
			expectedErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(tc.offset, tc.max)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClaim(t *testing.T) {
	r, err := New(1000, 1999)
	assert.NoError(t, err)

	id, err := r.ClaimDynamic(labels.Set{"owner": "a"})
	assert.NoError(t, err)
	assert.Equal(t, uint32(1000), id)

	assert.NoError(t, r.Claim(1999, labels.Set{"owner": "b"}))
	assert.Error(t, r.Claim(1999, labels.Set{"owner": "b"}))
	assert.Error(t, r.Claim(2000, labels.Set{"owner": "b"}))
	assert.Error(t, r.Claim(999, labels.Set{"owner": "b"}))

	assert.NoError(t, r.ClaimRange(1500, 100, labels.Set{"owner": "c"}))
	assert.Equal(t, uint64(102), r.Count())

	assert.NoError(t, r.Update(1550, labels.Set{"owner": "d"}))
	d, err := r.Get(1550)
	assert.NoError(t, err)
	assert.Equal(t, labels.Set{"owner": "d"}, d)

	assert.NoError(t, r.ReleaseRange(1500, 50))
	assert.NoError(t, r.Release(1000))
	assert.True(t, r.IsFree(1000))
	assert.False(t, r.Has(1500))
	assert.Equal(t, uint64(51), r.Count())

	id, err = r.FindFree()
	assert.NoError(t, err)
	assert.Equal(t, uint32(1000), id)
}

func TestGetByLabel(t *testing.T) {
	r, err := New(0, MaxVNI)
	assert.NoError(t, err)

	assert.NoError(t, r.ClaimRange(10, 1<<20, labels.Set{"owner": "a"}))
	assert.NoError(t, r.Claim(5, labels.Set{"owner": "b"}))

	sel, err := labels.Parse("owner=a")
	assert.NoError(t, err)
	assert.Equal(t, idxtable.Entries[uint32, labels.Set]{
		idxtable.NewEntry(span.New[uint32](10, 10+1<<20), labels.Set{"owner": "a"}),
	}, r.GetByLabel(sel))
	assert.Equal(t, 2, len(r.GetAll()))
	assert.Equal(t, uint64(1<<20+1), r.GetAll().Count())
}
