package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

type randomPattern struct{}

func (p *randomPattern) Tag() string { return "random" }

func (p *randomPattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	proto := model.ProtoUDP
	if src.Float64() < 0.70 {
		proto = model.ProtoTCP
	}

	return model.FlowRecord{
		SourceIP:        srcIP,
		DestinationIP:   dstIP,
		SourcePort:      ephemeralSourcePort(src),
		DestinationPort: uint16(src.IntRange(1, 65535)),
		Protocol:        proto,
		TimestampNs:     timestampNs,
		PacketLength:    uint32(src.IntRange(int(minPktSize), int(maxPktSize))),
	}, nil
}
