package iptable

import (
	"fmt"
	"math/big"
	"net/netip"
	"strings"

	"github.com/henderiw/rangeidx/pkg/idxtable"
	"github.com/henderiw/rangeidx/pkg/span"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPTable interface {
	Get(addr string) (labels.Set, error)
	Claim(addr string, d labels.Set) error
	ClaimDynamic(d labels.Set) (netip.Addr, error)
	ClaimPrefix(prefix string, d labels.Set) error
	ClaimRange(ipRange string, d labels.Set) error
	Release(addr string) error
	ReleasePrefix(prefix string) error
	ReleaseRange(ipRange string) error
	Update(addr string, d labels.Set) error

	Count() uint64
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	FreeIPSet() (*netipx.IPSet, error)
	ClaimedIPSet() (*netipx.IPSet, error)

	GetAll() Claims
	GetByLabel(selector labels.Selector) Claims
}

// Claim is a run of consecutive addresses sharing one set of labels.
type Claim struct {
	Range  netipx.IPRange
	Labels labels.Set
}

func (r Claim) Prefixes() []netip.Prefix { return r.Range.Prefixes() }

func (r Claim) String() string {
	if len(r.Labels) == 0 {
		return r.Range.String()
	}
	return fmt.Sprintf("%s %s", r.Range.String(), r.Labels.String())
}

type Claims []Claim

func (r Claims) String() string {
	s := make([]string, 0, len(r))
	for _, c := range r {
		s = append(s, c.String())
	}
	return strings.Join(s, ", ")
}

// New returns a table managing the addresses from one to the other, both
// included. At most 2^64-1 addresses can be managed.
func New(from, to netip.Addr) (IPTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("ip range from %s to %s is invalid", from, to)
	}
	size, ok := numIPs(from, to)
	if !ok {
		return nil, fmt.Errorf("ip range %s holds too many addresses", ipRange)
	}
	t, err := idxtable.NewTable[uint64, labels.Set](span.New(0, size), nil, nil)
	if err != nil {
		return nil, err
	}
	return &ipTable{
		table:   t,
		ipRange: ipRange,
	}, nil
}

type ipTable struct {
	table   idxtable.Table[uint64, labels.Set]
	ipRange netipx.IPRange
}

func (r *ipTable) Get(addr string) (labels.Set, error) {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return nil, err
	}
	return r.table.Get(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) Claim(addr string, d labels.Set) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := calculateIndex(claimIP, r.ipRange.From())
	if !r.table.IsFree(id) {
		return fmt.Errorf("claim failed ip %s already claimed", addr)
	}
	return r.table.Claim(id, d)
}

func (r *ipTable) ClaimDynamic(d labels.Set) (netip.Addr, error) {
	id, err := r.table.ClaimDynamic(d)
	if err != nil {
		return netip.Addr{}, err
	}
	return calculateIPFromIndex(r.ipRange.From(), id), nil
}

func (r *ipTable) ClaimPrefix(prefix string, d labels.Set) error {
	ipRange, err := parsePrefix(prefix)
	if err != nil {
		return err
	}
	return r.claimRange(ipRange, d)
}

func (r *ipTable) ClaimRange(ipRange string, d labels.Set) error {
	rng, err := netipx.ParseIPRange(ipRange)
	if err != nil {
		return fmt.Errorf("ip range %s is invalid: %w", ipRange, err)
	}
	return r.claimRange(rng, d)
}

func (r *ipTable) claimRange(ipRange netipx.IPRange, d labels.Set) error {
	start, size, err := r.validateRange(ipRange)
	if err != nil {
		return err
	}
	if err := r.table.ClaimRange(start, size, d); err != nil {
		return fmt.Errorf("claim failed ip range %s: %w", ipRange, err)
	}
	return nil
}

func (r *ipTable) Release(addr string) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.table.Release(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) ReleasePrefix(prefix string) error {
	ipRange, err := parsePrefix(prefix)
	if err != nil {
		return err
	}
	return r.releaseRange(ipRange)
}

func (r *ipTable) ReleaseRange(ipRange string) error {
	rng, err := netipx.ParseIPRange(ipRange)
	if err != nil {
		return fmt.Errorf("ip range %s is invalid: %w", ipRange, err)
	}
	return r.releaseRange(rng)
}

func (r *ipTable) releaseRange(ipRange netipx.IPRange) error {
	start, size, err := r.validateRange(ipRange)
	if err != nil {
		return err
	}
	return r.table.ReleaseRange(start, size)
}

func (r *ipTable) Update(addr string, d labels.Set) error {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := calculateIndex(claimIP, r.ipRange.From())
	if r.table.IsFree(id) {
		return fmt.Errorf("update failed ip %s not claimed", addr)
	}
	return r.table.Update(id, d)
}

func (r *ipTable) Count() uint64 {
	return r.table.Count()
}

func (r *ipTable) Has(addr string) bool {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.table.Has(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) IsFree(addr string) bool {
	// Validate IP address
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.table.IsFree(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	var addr netip.Addr

	id, err := r.table.FindFree()
	if err != nil {
		return addr, err
	}
	return calculateIPFromIndex(r.ipRange.From(), id), nil
}

func (r *ipTable) FreeIPSet() (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for rng := range r.table.Free().All() {
		b.AddRange(r.toIPRange(rng))
	}
	return b.IPSet()
}

func (r *ipTable) ClaimedIPSet() (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for rng := range r.table.Claimed().All() {
		b.AddRange(r.toIPRange(rng))
	}
	return b.IPSet()
}

func (r *ipTable) GetAll() Claims {
	return r.toClaims(r.table.GetAll())
}

func (r *ipTable) GetByLabel(selector labels.Selector) Claims {
	return r.toClaims(r.table.GetAll().Filter(func(_ span.Range[uint64], d labels.Set) bool {
		return selector.Matches(d)
	}))
}

func (r *ipTable) toClaims(entries idxtable.Entries[uint64, labels.Set]) Claims {
	var claims Claims
	for _, e := range entries {
		claims = append(claims, Claim{
			Range:  r.toIPRange(e.Range),
			Labels: e.Value,
		})
	}
	return claims
}

func (r *ipTable) toIPRange(rng span.Range[uint64]) netipx.IPRange {
	return netipx.IPRangeFrom(
		calculateIPFromIndex(r.ipRange.From(), rng.Start),
		calculateIPFromIndex(r.ipRange.From(), rng.End-1),
	)
}

func (r *ipTable) validateIP(addr string) (netip.Addr, error) {
	// Parse IP address
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimIP, nil
}

// validateRange returns the first index and the number of addresses of
// ipRange.
func (r *ipTable) validateRange(ipRange netipx.IPRange) (uint64, uint64, error) {
	if !ipRange.IsValid() {
		return 0, 0, fmt.Errorf("ip range %s is invalid", ipRange)
	}
	if !r.ipRange.Contains(ipRange.From()) || !r.ipRange.Contains(ipRange.To()) {
		return 0, 0, fmt.Errorf("ip range %s, does not fit in the range from %s to %s", ipRange, r.ipRange.From().String(), r.ipRange.To().String())
	}
	start := calculateIndex(ipRange.From(), r.ipRange.From())
	end := calculateIndex(ipRange.To(), r.ipRange.From())
	return start, end - start + 1, nil
}

func parsePrefix(prefix string) (netipx.IPRange, error) {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("prefix %s is invalid: %w", prefix, err)
	}
	return netipx.RangeOfPrefix(p.Masked()), nil
}

func calculateIndex(ip, start netip.Addr) uint64 {
	// Calculate the index in the table
	return new(big.Int).Sub(ipToInt(ip), ipToInt(start)).Uint64()
}

// numIPs returns the number of addresses from startIP to endIP, both
// included, and whether that number is below 2^64.
func numIPs(startIP, endIP netip.Addr) (uint64, bool) {
	// Convert IP addresses to big integers
	start := ipToInt(startIP)
	end := ipToInt(endIP)

	diff := new(big.Int).Sub(end, start)
	diff.Add(diff, big.NewInt(1)) // Add 1 to include the start IP
	if !diff.IsUint64() {
		return 0, false
	}
	return diff.Uint64(), true
}

func ipToInt(ip netip.Addr) *big.Int {
	// Convert IP address to big integer
	bytes := ip.As16()
	ipInt := new(big.Int)
	ipInt.SetBytes(bytes[:])
	return ipInt
}

func calculateIPFromIndex(startIP netip.Addr, id uint64) netip.Addr {
	// Calculate the IP address corresponding to the index
	ipInt := new(big.Int).Add(ipToInt(startIP), new(big.Int).SetUint64(id))
	// Convert the big.Int representing the IP address to a byte slice with length 16
	var ip16 [16]byte
	ipInt.FillBytes(ip16[:])

	if startIP.Is4() {
		return netip.AddrFrom4(netip.AddrFrom16(ip16).As4())
	}
	return netip.AddrFrom16(ip16)
}
