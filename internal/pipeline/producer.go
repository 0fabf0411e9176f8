package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"flowgen/internal/engine"
	"flowgen/internal/model"
	"flowgen/internal/rng"
	"flowgen/internal/stats"
)

// Producer drives one Engine on its own goroutine, appending synthesized
// EnhancedFlowRecords into a private buffer. The buffer has its own mutex
// so producers never contend with each other — only a Collector draining a
// single producer's buffer ever blocks on it, and only briefly.
type Producer struct {
	id     int
	engine *engine.Engine

	mu  sync.Mutex
	buf []model.EnhancedFlowRecord

	currentTimestampNs atomic.Uint64
	flowCount          atomic.Uint64
	byteCount          atomic.Uint64
	done               atomic.Bool
}

// NewProducer wraps an already-initialized Engine as producer id.
func NewProducer(id int, e *engine.Engine) *Producer {
	p := &Producer{id: id, engine: e}
	p.currentTimestampNs.Store(e.CurrentTimestampNs())
	return p
}

// Run generates flows until ctx is cancelled or flowLimit is reached (0
// means unbounded), marking the producer done on exit. Safe to call exactly
// once; intended to run on its own goroutine.
func (p *Producer) Run(ctx context.Context, src *rng.Source, flowLimit uint64) {
	defer p.done.Store(true)

	var generated uint64
	for {
		if flowLimit != 0 && generated >= flowLimit {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		flow, err := p.engine.Next()
		if err != nil {
			return
		}

		st := stats.Generate(src, flow.PacketLength, flow.Protocol, flow.DestinationPort)
		enhanced := model.EnhancedFlowRecord{
			StreamID:         streamID(p.id, generated),
			FirstTimestampNs: flow.TimestampNs,
			LastTimestampNs:  flow.TimestampNs + st.DurationNs,
			SourceIP:         flow.SourceIP,
			DestinationIP:    flow.DestinationIP,
			SourcePort:       flow.SourcePort,
			DestinationPort:  flow.DestinationPort,
			Protocol:         flow.Protocol,
			PacketCount:      st.PacketCount,
			ByteCount:        st.ByteCount,
		}

		p.mu.Lock()
		p.buf = append(p.buf, enhanced)
		p.mu.Unlock()

		generated++
		p.flowCount.Add(1)
		p.byteCount.Add(st.ByteCount)
		p.currentTimestampNs.Store(flow.TimestampNs)
	}
}

// streamID packs the producer id into the high bits so stream ids are
// unique across producers without any shared counter.
func streamID(producerID int, seq uint64) uint32 {
	return uint32(producerID)<<24 | uint32(seq&0xFFFFFF)
}

// Drain atomically swaps out and returns everything buffered since the last
// Drain call.
func (p *Producer) Drain() []model.EnhancedFlowRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) == 0 {
		return nil
	}
	flows := p.buf
	p.buf = nil
	return flows
}

// Done reports whether Run has returned.
func (p *Producer) Done() bool { return p.done.Load() }

// CurrentTimestampNs is the most recently emitted flow's timestamp, read
// with relaxed ordering by the progress tracker.
func (p *Producer) CurrentTimestampNs() uint64 { return p.currentTimestampNs.Load() }

// FlowCount and ByteCount are cumulative totals for the progress tracker.
func (p *Producer) FlowCount() uint64 { return p.flowCount.Load() }
func (p *Producer) ByteCount() uint64 { return p.byteCount.Load() }

// InterArrivalQuantumNs exposes the underlying engine's fixed nanosecond
// gap between consecutive timestamps, useful for estimating a run's total
// timestamp span ahead of time.
func (p *Producer) InterArrivalQuantumNs() uint64 { return p.engine.InterArrivalQuantumNs() }
