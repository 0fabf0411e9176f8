// Package engine implements the deterministic, rate-driven flow generator:
// weighted traffic-class selection, nanosecond timestamp advancement by a
// fixed inter-arrival quantum, and the optional bidirectional direction
// swap (spec §4.3).
package engine

import (
	"time"

	"flowgen/internal/model"
	"flowgen/internal/pattern"
	"flowgen/internal/rng"
)

// Engine is single-owner and single-threaded: callers that want parallel
// production instantiate one Engine per producer (see pipeline.Producer).
type Engine struct {
	cfg model.EngineConfig
	src *rng.Source

	patterns       []pattern.Pattern
	patternPercent []float64 // parallel to patterns, cumulative not yet applied

	flowsPerSecond       float64
	interArrivalQuantumNs uint64

	startTimestampNs   uint64
	currentTimestampNs uint64
	flowCount          uint64
}

// New constructs an Engine using its own private RNG source. Use
// NewWithSource to share a specific Source (e.g. one derived per producer
// via rng.Derive).
func New(cfg model.EngineConfig) (*Engine, error) {
	return NewWithSource(cfg, rng.NewFromClock())
}

// NewWithSource constructs and initializes an Engine against the given
// EngineConfig and RNG source. Validation failures are reported here and
// the Engine never enters a partially-initialized state (spec §7).
func NewWithSource(cfg model.EngineConfig, src *rng.Source) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, subnets := range [][]string{cfg.SourceSubnets, cfg.DestinationSubnets} {
		for _, s := range subnets {
			if _, _, err := rng.ParseSubnet(s); err != nil {
				return nil, err
			}
		}
	}

	e := &Engine{cfg: cfg, src: src}

	if cfg.BandwidthGbps > 0 {
		bandwidthBps := cfg.BandwidthGbps * 1e9
		bandwidthBytesPerSec := bandwidthBps / 8.0
		e.flowsPerSecond = bandwidthBytesPerSec / float64(cfg.AveragePacketSize)
	} else {
		e.flowsPerSecond = cfg.FlowsPerSecond
	}
	e.interArrivalQuantumNs = uint64(1e9 / e.flowsPerSecond)

	if cfg.StartTimestampNs != 0 {
		e.startTimestampNs = cfg.StartTimestampNs
	} else {
		e.startTimestampNs = uint64(time.Now().UnixNano())
	}
	e.currentTimestampNs = e.startTimestampNs

	for _, tp := range cfg.TrafficMix {
		p, err := pattern.Make(tp.ClassTag)
		if err != nil {
			return nil, err
		}
		e.patterns = append(e.patterns, p)
		e.patternPercent = append(e.patternPercent, tp.Percentage)
	}

	return e, nil
}

// Next always succeeds: it returns the next FlowRecord and advances the
// engine's internal timestamp by the inter-arrival quantum. Stop semantics
// are entirely external (spec §4.3) — Next never declines to emit.
func (e *Engine) Next() (model.FlowRecord, error) {
	p := e.selectPattern()

	flow, err := p.Generate(e.src, e.currentTimestampNs, e.cfg.SourceSubnets, e.cfg.DestinationSubnets,
		e.cfg.SourceWeights, e.cfg.MinPacketSize, e.cfg.MaxPacketSize)
	if err != nil {
		return model.FlowRecord{}, err
	}

	if e.cfg.BidirectionalMode == model.BidirectionalRandom {
		if e.src.Float64() < e.cfg.BidirectionalProbability {
			flow.SourceIP, flow.DestinationIP = flow.DestinationIP, flow.SourceIP
			flow.SourcePort, flow.DestinationPort = flow.DestinationPort, flow.SourcePort
		}
	}

	e.flowCount++
	e.currentTimestampNs += e.interArrivalQuantumNs

	return flow, nil
}

// selectPattern draws r uniformly in [0, 100] and returns the first
// pattern whose cumulative percentage is >= r, with ties broken toward the
// earlier index (spec §4.3 step 1).
func (e *Engine) selectPattern() pattern.Pattern {
	r := e.src.Float64Range(0, 100)
	cumulative := 0.0
	for i, pct := range e.patternPercent {
		cumulative += pct
		if cumulative >= r {
			return e.patterns[i]
		}
	}
	return e.patterns[len(e.patterns)-1]
}

// CurrentTimestampNs returns the timestamp that will be assigned to the
// next emitted record.
func (e *Engine) CurrentTimestampNs() uint64 { return e.currentTimestampNs }

// Reset sets current_timestamp back to the configured start and zeroes the
// flow counter, without re-drawing the RNG seed — the timestamp sequence
// after Reset repeats the one after construction, while the other record
// fields repeat only if the RNG was reseeded identically beforehand.
func (e *Engine) Reset() {
	e.currentTimestampNs = e.startTimestampNs
	e.flowCount = 0
}

// InterArrivalQuantumNs exposes Δ, the fixed nanosecond gap between
// consecutive timestamps (spec S1).
func (e *Engine) InterArrivalQuantumNs() uint64 { return e.interArrivalQuantumNs }

// FlowsPerSecond exposes the derived emission rate.
func (e *Engine) FlowsPerSecond() float64 { return e.flowsPerSecond }

// Stats mirrors the original implementation's FlowGenerator::get_stats():
// a snapshot of how far this engine has progressed.
type Stats struct {
	FlowsGenerated     uint64
	ElapsedTimeSeconds float64
	FlowsPerSecond     float64
	CurrentTimestampNs uint64
}

// Stats returns a snapshot of the engine's progress since construction or
// the last Reset.
func (e *Engine) Stats() Stats {
	return Stats{
		FlowsGenerated:     e.flowCount,
		ElapsedTimeSeconds: float64(e.currentTimestampNs-e.startTimestampNs) / 1e9,
		FlowsPerSecond:     e.flowsPerSecond,
		CurrentTimestampNs: e.currentTimestampNs,
	}
}
