package vlantable

import (
	"fmt"

	"github.com/henderiw/rangeidx/pkg/idxtable"
	"github.com/henderiw/rangeidx/pkg/rangeset"
	"github.com/henderiw/rangeidx/pkg/span"
	"k8s.io/apimachinery/pkg/labels"
)

type VLANTable interface {
	Get(id uint16) (labels.Set, error)
	Claim(id uint16, d labels.Set) error
	ClaimDynamic(d labels.Set) (uint16, error)
	ClaimRange(start uint16, size uint64, d labels.Set) error
	ClaimSize(size uint64, d labels.Set) ([]span.Range[uint16], error)
	MergeRange(start uint16, size uint64, d labels.Set) error
	Release(id uint16) error
	ReleaseRange(start uint16, size uint64) error
	Update(id uint16, d labels.Set) error

	Count() uint64
	Has(id uint16) bool

	IsFree(id uint16) bool
	FindFree() (uint16, error)
	Free() *rangeset.Set[uint16]

	GetAll() map[uint16]labels.Set
	GetByLabel(selector labels.Selector) map[uint16]labels.Set
}

const (
	untaggedVLAN = 0
	defaultVLAN  = 1
	reservedVLAN = 4095
	maxVLAN      = 4096
)

var initEntries = map[uint16]labels.Set{
	untaggedVLAN: map[string]string{"type": "untagged", "status": "reserved"},
	defaultVLAN:  map[string]string{"type": "untagged", "status": "reserved"},
	reservedVLAN: map[string]string{"type": "untagged", "status": "reserved"},
}

func New() (VLANTable, error) {

	t, err := idxtable.NewTable[uint16, labels.Set](
		span.New[uint16](0, maxVLAN),
		initEntries,
		func(id uint16) error {
			switch id {
			case untaggedVLAN:
				return fmt.Errorf("VLAN %d is the untagged VLAN, cannot be added to the database", id)
			case defaultVLAN:
				return fmt.Errorf("VLAN %d is the default VLAN, cannot be added to the database", id)
			case reservedVLAN:
				return fmt.Errorf("VLAN %d is reserved, cannot be added to the database", id)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &vlanTable{
		table: t,
	}, nil
}

type vlanTable struct {
	table idxtable.Table[uint16, labels.Set]
}

func (r *vlanTable) Get(id uint16) (labels.Set, error) {
	return r.table.Get(id)
}

func (r *vlanTable) Claim(id uint16, d labels.Set) error {
	if !r.table.IsFree(id) {
		return fmt.Errorf("VLAN %d is already claimed", id)
	}
	return r.table.Claim(id, d)
}

func (r *vlanTable) ClaimDynamic(d labels.Set) (uint16, error) {
	return r.table.ClaimDynamic(d)
}

func (r *vlanTable) ClaimRange(start uint16, size uint64, d labels.Set) error {
	return r.table.ClaimRange(start, size, d)
}

func (r *vlanTable) ClaimSize(size uint64, d labels.Set) ([]span.Range[uint16], error) {
	return r.table.ClaimSize(size, d)
}

// MergeRange claims the range as one entry carrying the labels of every
// claim it overlaps. Labels in d win on conflicting keys.
func (r *vlanTable) MergeRange(start uint16, size uint64, d labels.Set) error {
	return r.table.ClaimMerge(start, size, d, func(acc, existing labels.Set) labels.Set {
		return labels.Merge(existing, acc)
	})
}

func (r *vlanTable) Release(id uint16) error {
	return r.table.Release(id)
}

func (r *vlanTable) ReleaseRange(start uint16, size uint64) error {
	return r.table.ReleaseRange(start, size)
}

func (r *vlanTable) Update(id uint16, d labels.Set) error {
	if r.table.IsFree(id) {
		return fmt.Errorf("VLAN %d is not claimed", id)
	}
	return r.table.Update(id, d)
}

func (r *vlanTable) Count() uint64 {
	return r.table.Count()
}

func (r *vlanTable) Has(id uint16) bool {
	return r.table.Has(id)
}

func (r *vlanTable) IsFree(id uint16) bool {
	return r.table.IsFree(id)
}

func (r *vlanTable) FindFree() (uint16, error) {
	return r.table.FindFree()
}

func (r *vlanTable) Free() *rangeset.Set[uint16] {
	return r.table.Free()
}

func (r *vlanTable) GetAll() map[uint16]labels.Set {
	return r.GetByLabel(labels.Everything())
}

func (r *vlanTable) GetByLabel(selector labels.Selector) map[uint16]labels.Set {
	entries := map[uint16]labels.Set{}

	iter := r.table.Iterate()

	for iter.Next() {
		if selector.Matches(iter.Value()) {
			entries[iter.ID()] = iter.Value()
		}
	}
	return entries
}
