package pipeline

import (
	"time"

	"flowgen/internal/model"
	"flowgen/internal/sink"
)

// Collector is the single consumer that drains every Producer's buffer,
// files each flow into a Chunker, and emits complete chunks (sorted and
// formatted) to a Sink. Exactly one Collector ever calls a given Sink, so
// Sink implementations need not be safe for concurrent use.
type Collector struct {
	producers   []*Producer
	chunker     *Chunker
	formatter   *Formatter
	sink        sink.Sink
	tracker     *ProgressTracker
	pollInterval time.Duration

	flowsCollected uint64
	headerWritten  bool
	suppressHeader bool
}

// NewCollector wires producers into a chunker/formatter/sink pipeline.
// tracker may be nil if no progress display is wanted.
func NewCollector(producers []*Producer, chunkDurationNs uint64, formatter *Formatter, out sink.Sink, tracker *ProgressTracker, suppressHeader bool) *Collector {
	return &Collector{
		producers:      producers,
		chunker:        NewChunker(chunkDurationNs),
		formatter:      formatter,
		sink:           out,
		tracker:        tracker,
		pollInterval:   10 * time.Millisecond,
		suppressHeader: suppressHeader,
	}
}

// Run polls producers until every one reports Done and its buffer has been
// fully drained, flushing remaining chunks and the format footer at the
// end. It blocks until the run completes.
func (c *Collector) Run() error {
	if !c.suppressHeader {
		if header := c.formatter.FormatHeader(); header != "" {
			if err := c.sink.WriteRaw(header); err != nil {
				return err
			}
			c.headerWritten = true
		}
	}

	for {
		// Read the done flags before draining: a producer marks itself done
		// only after its last append, so a drain that follows sees every flow.
		allDone := c.allProducersDone()
		drainedAny := false
		for _, p := range c.producers {
			if c.tracker != nil {
				c.tracker.UpdateTimestamp(p.id, p.CurrentTimestampNs())
			}

			flows := p.Drain()
			if len(flows) == 0 {
				continue
			}
			drainedAny = true
			for _, f := range flows {
				c.chunker.AddFlow(f)
			}
			c.flowsCollected += uint64(len(flows))
			if c.tracker != nil {
				var bytes uint64
				for _, f := range flows {
					bytes += f.ByteCount
				}
				c.tracker.AddFlows(uint64(len(flows)))
				c.tracker.AddBytes(bytes)
			}
		}

		if err := c.processCompleteChunks(); err != nil {
			return err
		}

		if !drainedAny && allDone {
			break
		}

		if !drainedAny {
			time.Sleep(c.pollInterval)
		}
	}

	remaining := c.chunker.FlushAll()
	for i, chunk := range remaining {
		isFinalChunk := i == len(remaining)-1
		if err := c.outputChunk(chunk, isFinalChunk); err != nil {
			return err
		}
	}

	if footer := c.formatter.FormatFooter(); footer != "" {
		if err := c.sink.WriteRaw(footer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) allProducersDone() bool {
	for _, p := range c.producers {
		if !p.Done() {
			return false
		}
	}
	return true
}

func (c *Collector) processCompleteChunks() error {
	for c.chunker.HasCompleteChunk() {
		chunk := c.chunker.GetCompleteChunk()
		if len(chunk) == 0 {
			continue
		}
		if err := c.outputChunk(chunk, false); err != nil {
			return err
		}
	}
	return nil
}

// outputChunk sorts and emits one chunk. isFinalChunk must be true only for
// the very last chunk of the entire run (the last entry of a FlushAll
// batch), so only its last record is marked as the run's last flow.
func (c *Collector) outputChunk(flows []model.EnhancedFlowRecord, isFinalChunk bool) error {
	c.formatter.SortFlows(flows)

	for i, flow := range flows {
		isLast := isFinalChunk && i == len(flows)-1
		formatted := c.formatter.FormatFlow(flow, isLast)
		if err := c.sink.WriteFlow(flow, formatted); err != nil {
			return err
		}
	}
	return nil
}

// FlowsCollected is the running total of flows handed to the chunker.
func (c *Collector) FlowsCollected() uint64 { return c.flowsCollected }
