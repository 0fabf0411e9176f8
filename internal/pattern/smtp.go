package pattern

import (
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

var smtpPorts = [...]uint16{25, 587, 465}

type smtpPattern struct{}

func (p *smtpPattern) Tag() string { return "smtp_traffic" }

func (p *smtpPattern) Generate(src *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPktSize, maxPktSize uint32) (model.FlowRecord, error) {
	srcIP, dstIP, err := sourceAndDest(src, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	dstPort := smtpPorts[src.IntRange(0, len(smtpPorts)-1)]

	return model.FlowRecord{
		SourceIP:        srcIP,
		DestinationIP:   dstIP,
		SourcePort:      ephemeralSourcePort(src),
		DestinationPort: dstPort,
		Protocol:        model.ProtoTCP,
		TimestampNs:     timestampNs,
		PacketLength:    uint32(src.IntRange(200, int(maxPktSize))),
	}, nil
}
