package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/henderiw/rangeidx/pkg/index"
	"gopkg.in/yaml.v3"
)

// Config describes the pools to build and the operations to apply to them.
// Operations run in order: claims first, then releases.
type Config struct {
	VLAN  *VLANPool  `yaml:"vlan"`
	VXLAN *VXLANPool `yaml:"vxlan"`
	IP    *IPPool    `yaml:"ip"`
}

type VLANPool struct {
	Claims   []Claim  `yaml:"claims"`
	Releases []string `yaml:"releases"`
}

type VXLANPool struct {
	Offset   uint32   `yaml:"offset"`
	Max      uint32   `yaml:"max"`
	Claims   []Claim  `yaml:"claims"`
	Releases []string `yaml:"releases"`
}

type IPPool struct {
	// Range is "from-to", e.g. 10.0.0.1-10.0.0.254
	Range    string   `yaml:"range"`
	Claims   []Claim  `yaml:"claims"`
	Releases []string `yaml:"releases"`
}

// Claim selects what to claim. ID is empty for a dynamic claim, a single id,
// or an inclusive "first-last" range. IP pools also accept prefixes. Size
// only applies to dynamic VLAN claims and cannot be combined with ID.
type Claim struct {
	ID     string            `yaml:"id"`
	Size   uint64            `yaml:"size"`
	Labels map[string]string `yaml:"labels"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.VLAN == nil && cfg.VXLAN == nil && cfg.IP == nil {
		return nil, fmt.Errorf("config defines no pool")
	}
	if cfg.VXLAN != nil && cfg.VXLAN.Max == 0 {
		return nil, fmt.Errorf("vxlan pool requires max")
	}
	if cfg.IP != nil && cfg.IP.Range == "" {
		return nil, fmt.Errorf("ip pool requires range")
	}
	if cfg.VLAN != nil {
		if err := validateClaims("vlan", cfg.VLAN.Claims, true); err != nil {
			return nil, err
		}
	}
	if cfg.VXLAN != nil {
		if err := validateClaims("vxlan", cfg.VXLAN.Claims, false); err != nil {
			return nil, err
		}
	}
	if cfg.IP != nil {
		if err := validateClaims("ip", cfg.IP.Claims, false); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func validateClaims(pool string, claims []Claim, sized bool) error {
	for i, c := range claims {
		if c.Size == 0 {
			continue
		}
		if !sized {
			return fmt.Errorf("%s claim %d: size is not supported", pool, i)
		}
		if c.ID != "" {
			return fmt.Errorf("%s claim %d: size %d cannot be combined with id %q", pool, i, c.Size, c.ID)
		}
	}
	return nil
}

// parseIDRange parses "id" or the inclusive "first-last" into a start and a
// size.
func parseIDRange[T index.Index](s string, bitSize int) (T, uint64, error) {
	first, last, isRange := strings.Cut(s, "-")
	start, err := strconv.ParseUint(strings.TrimSpace(first), 10, bitSize)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if !isRange {
		return T(start), 1, nil
	}
	end, err := strconv.ParseUint(strings.TrimSpace(last), 10, bitSize)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("invalid id range %q: last before first", s)
	}
	return T(start), end - start + 1, nil
}
