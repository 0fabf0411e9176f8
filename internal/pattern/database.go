package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

var databasePorts = [...]uint16{3306, 5432, 27017, 6379}

type databasePattern struct{}

func (p *databasePattern) Tag() string { return "database_traffic" }

func (p *databasePattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	dstPort := databasePorts[src.IntRange(0, len(databasePorts)-1)]

	var pktLen uint32
	if src.Float64() < 0.30 {
		pktLen = uint32(src.IntRange(64, 300))
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
