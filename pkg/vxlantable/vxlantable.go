package vxlantable

import (
	"fmt"

	"github.com/henderiw/rangeidx/pkg/idxtable"
	"github.com/henderiw/rangeidx/pkg/span"
	"k8s.io/apimachinery/pkg/labels"
)

// MaxVNI is the largest 24 bit VXLAN network identifier.
const MaxVNI = 1<<24 - 1

type VXLANTable interface {
	Get(id uint32) (labels.Set, error)
	Claim(id uint32, d labels.Set) error
	ClaimDynamic(d labels.Set) (uint32, error)
	ClaimRange(start uint32, size uint64, d labels.Set) error
	Release(id uint32) error
	ReleaseRange(start uint32, size uint64) error
	Update(id uint32, d labels.Set) error

	Count() uint64
	Has(id uint32) bool

	IsFree(id uint32) bool
	FindFree() (uint32, error)

	GetAll() idxtable.Entries[uint32, labels.Set]
	GetByLabel(selector labels.Selector) idxtable.Entries[uint32, labels.Set]
}

// New returns a table managing the VNIs from offset to max, both included.
func New(offset, max uint32) (VXLANTable, error) {
	if offset > max || max > MaxVNI {
		return nil, fmt.Errorf("invalid VNI range %d-%d, must be within 0-%d", offset, max, MaxVNI)
	}

	t, err := idxtable.NewTable[uint32, labels.Set](
		span.New(offset, max+1),
		map[uint32]labels.Set{},
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &vxlanTable{
		table: t,
	}, nil

}

type vxlanTable struct {
	table idxtable.Table[uint32, labels.Set]
}

func (r *vxlanTable) Get(id uint32) (labels.Set, error) {
	return r.table.Get(id)
}

func (r *vxlanTable) Claim(id uint32, d labels.Set) error {
	if !r.table.IsFree(id) {
		return fmt.Errorf("id %d is already claimed", id)
	}
	return r.table.Claim(id, d)
}

func (r *vxlanTable) ClaimDynamic(d labels.Set) (uint32, error) {
	return r.table.ClaimDynamic(d)
}

func (r *vxlanTable) ClaimRange(start uint32, size uint64, d labels.Set) error {
	return r.table.ClaimRange(start, size, d)
}

func (r *vxlanTable) Release(id uint32) error {
	return r.table.Release(id)
}

func (r *vxlanTable) ReleaseRange(start uint32, size uint64) error {
	return r.table.ReleaseRange(start, size)
}

func (r *vxlanTable) Update(id uint32, d labels.Set) error {
	return r.table.Update(id, d)
}

func (r *vxlanTable) Count() uint64 {
	return r.table.Count()
}

func (r *vxlanTable) Has(id uint32) bool {
	return r.table.Has(id)
}

func (r *vxlanTable) IsFree(id uint32) bool {
	return r.table.IsFree(id)
}

func (r *vxlanTable) FindFree() (uint32, error) {
	return r.table.FindFree()
}

func (r *vxlanTable) GetAll() idxtable.Entries[uint32, labels.Set] {
	return r.table.GetAll()
}

func (r *vxlanTable) GetByLabel(selector labels.Selector) idxtable.Entries[uint32, labels.Set] {
	return r.table.GetAll().Filter(func(_ span.Range[uint32], d labels.Set) bool {
		return selector.Matches(d)
	})
}
