package rng

import (
	"fmt"
	"strconv"
	"strings"

	"flowgen/internal/model"
)

// ParseIPv4 converts a dotted-quad string into a 32-bit host-order integer.
func ParseIPv4(s string) (uint32, error) {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return 0, fmt.Errorf("%q: expected 4 octets: %w", s, model.ErrInvalidAddress)
	}
	var ip uint32
	for _, o := range octets {
		v, err := strconv.Atoi(o)
		if err != nil || v < 0 || v > 255 {
			return 0, fmt.Errorf("%q: invalid octet %q: %w", s, o, model.ErrInvalidAddress)
		}
		ip = ip<<8 | uint32(v)
	}
	return ip, nil
}

// FormatIPv4 is the inverse of ParseIPv4.
func FormatIPv4(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", ip>>24&0xFF, ip>>16&0xFF, ip>>8&0xFF, ip&0xFF)
}

// ParseSubnet accepts "a.b.c.d/p" with 0<=p<=32, or a bare address (which
// is treated as a /32, host_count == 1). It returns the network address
// (host bits masked off) and the number of addresses in the subnet.
func ParseSubnet(cidr string) (base uint32, hostCount uint64, err error) {
	slash := strings.IndexByte(cidr, '/')
	if slash < 0 {
		ip, err := ParseIPv4(cidr)
		if err != nil {
			return 0, 0, err
		}
		return ip, 1, nil
	}

	ip, err := ParseIPv4(cidr[:slash])
	if err != nil {
		return 0, 0, err
	}
	prefixLen, err := strconv.Atoi(cidr[slash+1:])
	if err != nil || prefixLen < 0 || prefixLen > 32 {
		return 0, 0, fmt.Errorf("%q: invalid prefix length: %w", cidr, model.ErrInvalidAddress)
	}

	hostBits := uint(32 - prefixLen)
	hostCount = uint64(1) << hostBits
	var mask uint32
	if prefixLen > 0 {
		mask = ^uint32(0) << hostBits
	}
	return ip & mask, hostCount, nil
}

// RandomAddressFromSubnet draws a host offset uniformly from
// [1, hostCount-2] when hostCount >= 4 (excluding the network and broadcast
// addresses), else returns base+1.
func RandomAddressFromSubnet(src *Source, base uint32, hostCount uint64) uint32 {
	if hostCount < 4 {
		return base + 1
	}
	offset := src.IntRange(1, int(hostCount-2))
	return base + uint32(offset)
}

// WeightedPick chooses an item whose cumulative weight first exceeds a
// uniform draw in [0, total), where total is the actual sum of weights
// (which need not normalize to 100). An empty weights slice falls back to a
// uniform choice over items.
func WeightedPick[T any](src *Source, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("weighted pick over empty items: %w", model.ErrPreconditionFailed)
	}
	if len(weights) == 0 {
		idx := src.IntRange(0, len(items)-1)
		return items[idx], nil
	}
	if len(weights) != len(items) {
		return zero, fmt.Errorf("weights length %d != items length %d: %w", len(weights), len(items), model.ErrPreconditionFailed)
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := src.Float64Range(0, total)
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative > r {
			return items[i], nil
		}
	}
	return items[len(items)-1], nil
}

// RandomIPFromSubnets picks a subnet (weighted if weights is non-empty,
// else uniformly) and draws a random address within it.
func RandomIPFromSubnets(src *Source, subnets []string, weights []float64) (uint32, error) {
	subnet, err := WeightedPick(src, subnets, weights)
	if err != nil {
		return 0, err
	}
	base, hostCount, err := ParseSubnet(subnet)
	if err != nil {
		return 0, err
	}
	return RandomAddressFromSubnet(src, base, hostCount), nil
}
