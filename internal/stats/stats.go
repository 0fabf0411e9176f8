// Package stats synthesizes per-flow packet/byte/duration statistics from a
// single observed FlowRecord, turning a point-in-time 5-tuple emission into
// the multi-packet EnhancedFlowRecord the aggregation pipeline accumulates.
package stats

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

// FlowStats is the synthesized packet_count/byte_count/duration_ns triple
// for one flow.
type FlowStats struct {
	PacketCount uint32
	ByteCount   uint64
	DurationNs  uint64
}

const (
	portHTTP  = 80
	portHTTPS = 443
	portSSH   = 22
	portDNS   = 53
)

func isDatabasePort(p uint16) bool {
	switch p {
	case 3306, 5432, 27017, 6379:
		return true
	}
	return false
}

func isSMTPPort(p uint16) bool {
	switch p {
	case 25, 587, 465:
		return true
	}
	return false
}

// Generate synthesizes FlowStats for a flow of the given protocol and
// destination port, varying packet sizes around the record's own
// packetLength by up to ±20%, clamped to [64, 1500].
func Generate(src *rng.Source, packetLength uint32, protocol uint8, dstPort uint16) FlowStats {
	var s FlowStats
	s.PacketCount = packetCount(src, protocol, dstPort)
	s.ByteCount = byteCount(src, packetLength, s.PacketCount)
	s.DurationNs = duration(src, protocol, dstPort, s.PacketCount)
	return s
}

func packetCount(src *rng.Source, protocol uint8, dstPort uint16) uint32 {
	switch protocol {
	case model.ProtoTCP:
		switch {
		case dstPort == portHTTP || dstPort == portHTTPS:
			return uint32(src.IntRange(10, 50))
		case dstPort == portSSH:
			return uint32(src.IntRange(100, 500))
		case isDatabasePort(dstPort):
			return uint32(src.IntRange(5, 100))
		case isSMTPPort(dstPort):
			return uint32(src.IntRange(10, 50))
		default:
			return uint32(src.IntRange(5, 100))
		}
	case model.ProtoUDP:
		if dstPort == portDNS {
			return 2
		}
		return uint32(src.IntRange(1, 20))
	default:
		return uint32(src.IntRange(1, 10))
	}
}

func byteCount(src *rng.Source, packetLength uint32, packetCount uint32) uint64 {
	variance := int(packetLength) / 5
	var total uint64
	for i := uint32(0); i < packetCount; i++ {
		offset := src.IntRange(-variance, variance)
		pktSize := int(packetLength) + offset
		total += uint64(clamp(pktSize, 64, 1500))
	}
	return total
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// duration derives flow duration from per-protocol/port inter-packet gaps,
// except DNS, which draws one independent total (query/response round trip)
// instead of gap*(count-1).
func duration(src *rng.Source, protocol uint8, dstPort uint16, packetCount uint32) uint64 {
	if packetCount == 1 {
		return 0
	}

	if protocol == model.ProtoUDP && dstPort == portDNS {
		return uint64(src.IntRange(1_000_000, 50_000_000))
	}

	var interPacketUs int
	switch protocol {
	case model.ProtoTCP:
		switch {
		case dstPort == portHTTP || dstPort == portHTTPS:
			interPacketUs = src.IntRange(10_000, 100_000)
		case dstPort == portSSH:
			interPacketUs = src.IntRange(1_000, 50_000)
		case isDatabasePort(dstPort):
			interPacketUs = src.IntRange(1_000, 20_000)
		default:
			interPacketUs = src.IntRange(5_000, 50_000)
		}
	case model.ProtoUDP:
		interPacketUs = src.IntRange(100, 10_000)
	default:
		interPacketUs = src.IntRange(1_000, 20_000)
	}

	return uint64(packetCount-1) * uint64(interPacketUs) * 1000
}
