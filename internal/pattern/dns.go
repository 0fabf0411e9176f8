package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

type dnsPattern struct{}

func (p *dnsPattern) Tag() string { return "dns_traffic" }

func (p *dnsPattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	return model.FlowRecord{
		SourceIP:        srcIP,
		DestinationIP:   dstIP,
		SourcePort:      ephemeralSourcePort(src),
		DestinationPort: 53,
		Protocol:        model.ProtoUDP,
		TimestampNs:     timestampNs,
		PacketLength:    uint32(src.IntRange(64, 512)),
	}, nil
}
