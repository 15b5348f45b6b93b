package main

import (
	"flag"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/henderiw/rangeidx/pkg/iptable"
	"github.com/henderiw/rangeidx/pkg/vlantable"
	"github.com/henderiw/rangeidx/pkg/vxlantable"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	configPath := flag.String("config", "pool.yaml", "path to the pool description")
	flag.Parse()
	defer klog.Flush()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		klog.ErrorS(err, "cannot load config", "path", *configPath)
		os.Exit(1)
	}
	if err := run(cfg, os.Stdout); err != nil {
		klog.ErrorS(err, "cannot apply config", "path", *configPath)
		os.Exit(1)
	}
}

func run(cfg *Config, w io.Writer) error {
	if cfg.VLAN != nil {
		if err := runVLAN(cfg.VLAN, w); err != nil {
			return fmt.Errorf("vlan: %w", err)
		}
	}
	if cfg.VXLAN != nil {
		if err := runVXLAN(cfg.VXLAN, w); err != nil {
			return fmt.Errorf("vxlan: %w", err)
		}
	}
	if cfg.IP != nil {
		if err := runIP(cfg.IP, w); err != nil {
			return fmt.Errorf("ip: %w", err)
		}
	}
	return nil
}

func runVLAN(pool *VLANPool, w io.Writer) error {
	t, err := vlantable.New()
	if err != nil {
		return err
	}
	for _, c := range pool.Claims {
		d := labels.Set(c.Labels)
		switch {
		case c.ID == "" && c.Size > 0:
			ranges, err := t.ClaimSize(c.Size, d)
			if err != nil {
				return err
			}
			klog.InfoS("claimed", "pool", "vlan", "ranges", ranges)
		case c.ID == "":
			id, err := t.ClaimDynamic(d)
			if err != nil {
				return err
			}
			klog.InfoS("claimed", "pool", "vlan", "id", id)
		default:
			start, size, err := parseIDRange[uint16](c.ID, 16)
			if err != nil {
				return err
			}
			if err := t.ClaimRange(start, size, d); err != nil {
				return err
			}
			klog.V(2).InfoS("claimed", "pool", "vlan", "start", start, "size", size)
		}
	}
	for _, id := range pool.Releases {
		start, size, err := parseIDRange[uint16](id, 16)
		if err != nil {
			return err
		}
		if err := t.ReleaseRange(start, size); err != nil {
			return err
		}
		klog.V(2).InfoS("released", "pool", "vlan", "start", start, "size", size)
	}
	fmt.Fprintf(w, "vlan: %d claimed, free %s\n", t.Count(), t.Free())
	return nil
}

func runVXLAN(pool *VXLANPool, w io.Writer) error {
	t, err := vxlantable.New(pool.Offset, pool.Max)
	if err != nil {
		return err
	}
	for _, c := range pool.Claims {
		d := labels.Set(c.Labels)
		if c.ID == "" {
			id, err := t.ClaimDynamic(d)
			if err != nil {
				return err
			}
			klog.InfoS("claimed", "pool", "vxlan", "id", id)
			continue
		}
		start, size, err := parseIDRange[uint32](c.ID, 32)
		if err != nil {
			return err
		}
		if err := t.ClaimRange(start, size, d); err != nil {
			return err
		}
		klog.V(2).InfoS("claimed", "pool", "vxlan", "start", start, "size", size)
	}
	for _, id := range pool.Releases {
		start, size, err := parseIDRange[uint32](id, 32)
		if err != nil {
			return err
		}
		if err := t.ReleaseRange(start, size); err != nil {
			return err
		}
		klog.V(2).InfoS("released", "pool", "vxlan", "start", start, "size", size)
	}
	fmt.Fprintf(w, "vxlan: %d claimed\n", t.Count())
	for _, e := range t.GetAll() {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return nil
}

func runIP(pool *IPPool, w io.Writer) error {
	ipRange, err := netipx.ParseIPRange(pool.Range)
	if err != nil {
		return err
	}
	t, err := iptable.New(ipRange.From(), ipRange.To())
	if err != nil {
		return err
	}
	for _, c := range pool.Claims {
		d := labels.Set(c.Labels)
		switch {
		case c.ID == "":
			addr, err := t.ClaimDynamic(d)
			if err != nil {
				return err
			}
			klog.InfoS("claimed", "pool", "ip", "addr", addr)
		case strings.Contains(c.ID, "/"):
			err = t.ClaimPrefix(c.ID, d)
		case strings.Contains(c.ID, "-"):
			err = t.ClaimRange(c.ID, d)
		default:
			err = t.Claim(c.ID, d)
		}
		if err != nil {
			return err
		}
	}
	for _, id := range pool.Releases {
		switch {
		case strings.Contains(id, "/"):
			err = t.ReleasePrefix(id)
		case strings.Contains(id, "-"):
			err = t.ReleaseRange(id)
		default:
			err = t.Release(id)
		}
		if err != nil {
			return err
		}
		klog.V(2).InfoS("released", "pool", "ip", "id", id)
	}
	free, err := t.FreeIPSet()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "ip: %d claimed\n", t.Count())
	for _, c := range t.GetAll() {
		fmt.Fprintf(w, "  %s\n", c)
	}
	fmt.Fprintf(w, "  free %s\n", prefixes(free.Prefixes()))
	return nil
}

func prefixes(p []netip.Prefix) string {
	s := make([]string, 0, len(p))
	for _, pfx := range p {
		s = append(s, pfx.String())
	}
	return strings.Join(s, " ")
}
