package pipeline

import (
	"sort"

	"flowgen/internal/model"
)

// Chunker groups flows into fixed-width timestamp windows and releases the
// oldest window once a flow from a strictly newer window has been added.
// A chunk_id's completeness is inferred from that forward progress, never
// declared. A flow that arrives for a window already released, or for a
// window older than the first one seen, is buffered under its id again and
// only comes out of FlushAll; output is therefore in window order only
// when no producer lags a whole window behind the others.
type Chunker struct {
	chunkDurationNs uint64
	chunks          map[uint64][]model.EnhancedFlowRecord
	oldestChunkID   uint64
	hasOldest       bool
}

// NewChunker builds a chunker with the given window width in nanoseconds.
func NewChunker(chunkDurationNs uint64) *Chunker {
	return &Chunker{
		chunkDurationNs: chunkDurationNs,
		chunks:          make(map[uint64][]model.EnhancedFlowRecord),
	}
}

// AddFlow files a flow under its window, derived from its first timestamp.
func (c *Chunker) AddFlow(flow model.EnhancedFlowRecord) {
	chunkID := flow.FirstTimestampNs / c.chunkDurationNs
	c.chunks[chunkID] = append(c.chunks[chunkID], flow)
	if !c.hasOldest {
		c.oldestChunkID = chunkID
		c.hasOldest = true
	}
}

// HasCompleteChunk reports whether the oldest window can be released: true
// once any flow has landed in a strictly later window.
func (c *Chunker) HasCompleteChunk() bool {
	if !c.hasOldest || len(c.chunks) == 0 {
		return false
	}
	return c.latestChunkID() > c.oldestChunkID
}

func (c *Chunker) latestChunkID() uint64 {
	var latest uint64
	first := true
	for id := range c.chunks {
		if first || id > latest {
			latest = id
			first = false
		}
	}
	return latest
}

// GetCompleteChunk pops and returns the oldest window's flows, or nil if
// none is ready yet. A window with no flows (skipped entirely by every
// producer) is consumed silently and advances oldestChunkID regardless.
func (c *Chunker) GetCompleteChunk() []model.EnhancedFlowRecord {
	if !c.HasCompleteChunk() {
		return nil
	}
	flows, ok := c.chunks[c.oldestChunkID]
	if !ok {
		c.oldestChunkID++
		return nil
	}
	delete(c.chunks, c.oldestChunkID)
	c.oldestChunkID++
	return flows
}

// FlushAll releases every remaining window in ascending chunk_id order, for
// use once every producer has stopped.
func (c *Chunker) FlushAll() [][]model.EnhancedFlowRecord {
	ids := make([]uint64, 0, len(c.chunks))
	for id := range c.chunks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([][]model.EnhancedFlowRecord, 0, len(ids))
	for _, id := range ids {
		if flows := c.chunks[id]; len(flows) > 0 {
			result = append(result, flows)
		}
	}
	c.chunks = make(map[uint64][]model.EnhancedFlowRecord)
	c.hasOldest = false
	return result
}

// ChunkCount returns the number of windows currently buffered.
func (c *Chunker) ChunkCount() int { return len(c.chunks) }

// FlowCount returns the total number of flows currently buffered across all
// windows.
func (c *Chunker) FlowCount() int {
	n := 0
	for _, flows := range c.chunks {
		n += len(flows)
	}
	return n
}
