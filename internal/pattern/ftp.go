package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

type ftpPattern struct{}

func (p *ftpPattern) Tag() string { return "ftp_traffic" }

func (p *ftpPattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	dstPort := uint16(21)
	if src.Float64() < 0.50 {
		dstPort = 20
	}

	var pktLen uint32
	if dstPort == 20 {
		pktLen = uint32(src.IntRange(1000, int(maxPktSize)))
	} else {
		pktLen = uint32(src.IntRange(64, 500))
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
