package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

type webPattern struct{}

func (p *webPattern) Tag() string { return "web_traffic" }

func (p *webPattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	dstPort := uint16(80)
	if src.Float64() < 0.70 {
		dstPort = 443
	}

	var pktLen uint32
	if src.Float64() < 0.40 {
		pktLen = uint32(src.IntRange(64, 200))
	} else {
		pktLen = uint32(src.IntRange(500, int(maxPktSize)))
	}

	return model.FlowRecord{
		SourceIP:        srcIP,
		DestinationIP:   dstIP,
		SourcePort:      ephemeralSourcePort(src),
		DestinationPort: dstPort,
		Protocol:        model.ProtoTCP,
		TimestampNs:     timestampNs,
		PacketLength:    pktLen,
	}, nil
}
