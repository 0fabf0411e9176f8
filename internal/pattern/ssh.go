package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

type sshPattern struct{}

func (p *sshPattern) Tag() string { return "ssh_traffic" }

func (p *sshPattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	return model.FlowRecord{
		SourceIP:        srcIP,
		DestinationIP:   dstIP,
		SourcePort:      ephemeralSourcePort(src),
		DestinationPort: 22,
		Protocol:        model.ProtoTCP,
		TimestampNs:     timestampNs,
		PacketLength:    uint32(src.IntRange(100, 400)),
	}, nil
}
