package config

import "flowgen/internal/model"

// EngineConfig converts the YAML engine section into the
// model.EngineConfig the engine package consumes.
func (c *Config) EngineConfig() model.EngineConfig {
	mix := make([]model.TrafficPattern, len(c.Engine.TrafficMix))
	for i, m := range c.Engine.TrafficMix {
		mix[i] = model.TrafficPattern{ClassTag: m.ClassTag, Percentage: m.Percentage}
	}

	return model.EngineConfig{
		BandwidthGbps:            c.Engine.BandwidthGbps,
		FlowsPerSecond:           c.Engine.FlowsPerSecond,
		StartTimestampNs:         c.Engine.StartTimestampNs,
		SourceSubnets:            c.Engine.SourceSubnets,
		DestinationSubnets:       c.Engine.DestinationSubnets,
		SourceWeights:            c.Engine.SourceWeights,
		MinPacketSize:            c.Engine.MinPacketSize,
		MaxPacketSize:            c.Engine.MaxPacketSize,
		AveragePacketSize:        c.Engine.AveragePacketSize,
		TrafficMix:               mix,
		BidirectionalMode:        c.Engine.BidirectionalMode,
		BidirectionalProbability: c.Engine.BidirectionalProb,
	}
}
