// Package model defines the core data types shared by the generation
// engine and the aggregation pipeline: flow records, engine configuration,
// and the sentinel errors recognised at the core boundary.
package model

import (
	"errors"
	"fmt"
)

// IANA protocol numbers used by the pattern generators.
const (
	ProtoICMP uint8 = 1
	ProtoTCP  uint8 = 6
	ProtoUDP  uint8 = 17
)

// Sentinel errors recognised at the core boundary (spec §7).
var (
	ErrInvalidAddress     = errors.New("flowgen: invalid address")
	ErrPreconditionFailed = errors.New("flowgen: precondition failed")
	ErrUnknownPattern     = errors.New("flowgen: unknown pattern")
	ErrOutputError        = errors.New("flowgen: output error")
	ErrCancelled          = errors.New("flowgen: cancelled")
)

// FlowRecord is a single 5-tuple flow emission: the base unit produced by
// the generation engine.
type FlowRecord struct {
	SourceIP        uint32
	DestinationIP   uint32
	SourcePort      uint16
	DestinationPort uint16
	Protocol        uint8
	TimestampNs     uint64
	PacketLength    uint32
}

// EnhancedFlowRecord augments a FlowRecord with multi-packet statistics and
// a producer stream identifier, as synthesised by the aggregation pipeline.
type EnhancedFlowRecord struct {
	StreamID         uint32
	FirstTimestampNs uint64
	LastTimestampNs  uint64
	SourceIP         uint32
	DestinationIP    uint32
	SourcePort       uint16
	DestinationPort  uint16
	Protocol         uint8
	PacketCount      uint32
	ByteCount        uint64
}

// TrafficPattern is one (class_tag, percentage) entry in a traffic mix.
type TrafficPattern struct {
	ClassTag   string
	Percentage float64
}

// Bidirectional modes accepted by EngineConfig.BidirectionalMode.
const (
	BidirectionalNone   = "none"
	BidirectionalRandom = "random"
)

// percentageTolerance is the allowed deviation from 100 when validating
// percentage sums (spec §7: "approximately 100").
const percentageTolerance = 0.01

// EngineConfig is the immutable configuration consumed by engine.New and
// engine.NewWithSource. At least one of BandwidthGbps or FlowsPerSecond must
// be positive; when both are given BandwidthGbps wins (kept for parity with the original
// implementation's GeneratorConfig, which allows either).
type EngineConfig struct {
	BandwidthGbps  float64
	FlowsPerSecond float64

	StartTimestampNs uint64

	SourceSubnets      []string
	DestinationSubnets []string
	SourceWeights      []float64

	MinPacketSize     uint32
	MaxPacketSize     uint32
	AveragePacketSize uint32

	TrafficMix []TrafficPattern

	BidirectionalMode        string
	BidirectionalProbability float64
}

// Validate checks every precondition from spec §7 and returns an error
// wrapping ErrPreconditionFailed on the first violation.
func (c *EngineConfig) Validate() error {
	if c.BandwidthGbps <= 0 && c.FlowsPerSecond <= 0 {
		return precondition("bandwidth_gbps or flows_per_second must be positive")
	}
	if len(c.SourceSubnets) == 0 {
		return precondition("source subnet list must not be empty")
	}
	if len(c.DestinationSubnets) == 0 {
		return precondition("destination subnet list must not be empty")
	}
	if len(c.SourceWeights) > 0 && len(c.SourceWeights) != len(c.SourceSubnets) {
		return precondition("source_weights length must match source_subnets length")
	}
	if len(c.SourceWeights) > 0 {
		sum := 0.0
		for _, w := range c.SourceWeights {
			sum += w
		}
		if abs(sum-100.0) > percentageTolerance {
			return precondition("source_weights must sum to 100, got %g", sum)
		}
	}
	if c.MinPacketSize > c.MaxPacketSize {
		return precondition("min_packet_size (%d) exceeds max_packet_size (%d)", c.MinPacketSize, c.MaxPacketSize)
	}
	if len(c.TrafficMix) == 0 {
		return precondition("traffic mix must not be empty")
	}
	sum := 0.0
	for _, p := range c.TrafficMix {
		sum += p.Percentage
	}
	if abs(sum-100.0) > percentageTolerance {
		return precondition("traffic mix percentages must sum to 100, got %g", sum)
	}
	switch c.BidirectionalMode {
	case "", BidirectionalNone, BidirectionalRandom:
	default:
		return precondition("unknown bidirectional_mode %q", c.BidirectionalMode)
	}
	if c.BidirectionalProbability < 0 || c.BidirectionalProbability > 1 {
		return precondition("bidirectional_probability must be in [0, 1], got %g", c.BidirectionalProbability)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// precondition builds an error that wraps ErrPreconditionFailed with a
// human-readable reason, so callers can both errors.Is(err,
// ErrPreconditionFailed) and read what specifically failed.
func precondition(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrPreconditionFailed)
}
