package pipeline

import (
	"testing"

	"flowgen/internal/model"
)

func flowAt(ts uint64) model.EnhancedFlowRecord {
	return model.EnhancedFlowRecord{FirstTimestampNs: ts}
}

func TestChunkerCompletenessSequence(t *testing.T) {
	c := NewChunker(10)

	// 0, 5, and 8 all fall in chunk 0; chunk 0 must stay incomplete until a
	// strictly newer chunk id (12 -> chunk 1) is observed.
	timestamps := []uint64{0, 5, 8, 12, 25}
	for i, ts := range timestamps[:3] {
		c.AddFlow(flowAt(ts))
		if c.HasCompleteChunk() {
			t.Fatalf("after inserting record %d (ts=%d), no chunk should be complete yet", i, ts)
		}
	}

	c.AddFlow(flowAt(timestamps[3])) // ts=12, chunk 1
	if !c.HasCompleteChunk() {
		t.Fatal("after inserting a record in chunk 1, chunk 0 should be complete")
	}

	chunk0 := c.GetCompleteChunk()
	if len(chunk0) != 3 {
		t.Fatalf("chunk 0 has %d records, want 3", len(chunk0))
	}

	if c.HasCompleteChunk() {
		t.Fatal("chunk 1 should remain incomplete until chunk_id >= 2 arrives or flush_all is called")
	}

	c.AddFlow(flowAt(timestamps[4])) // ts=25, chunk 2
	if !c.HasCompleteChunk() {
		t.Fatal("after inserting a record in chunk 2, chunk 1 should be complete")
	}

	remaining := c.FlushAll()
	total := 0
	for _, chunk := range remaining {
		total += len(chunk)
	}
	if total != 2 {
		t.Fatalf("flush_all drained %d records, want 2", total)
	}
}

func TestChunkerSkipsEmptyChunkOnGet(t *testing.T) {
	c := NewChunker(10)
	c.AddFlow(flowAt(5))
	c.AddFlow(flowAt(25))

	// Oldest chunk (0) has data; it should come back non-empty.
	chunk := c.GetCompleteChunk()
	if len(chunk) != 1 {
		t.Fatalf("expected 1 record in first complete chunk, got %d", len(chunk))
	}

	// Chunk 1 received no flows: the next call consumes it and returns nothing.
	if skipped := c.GetCompleteChunk(); len(skipped) != 0 {
		t.Fatalf("expected empty chunk 1 to be skipped, got %d records", len(skipped))
	}
	if c.HasCompleteChunk() {
		t.Fatal("chunk 2 is the newest chunk and should not be complete")
	}
}

func TestFlushAllOrdersByChunkID(t *testing.T) {
	c := NewChunker(10)
	c.AddFlow(flowAt(25)) // chunk 2
	c.AddFlow(flowAt(5))  // chunk 0
	c.AddFlow(flowAt(15)) // chunk 1

	chunks := c.FlushAll()
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	want := []uint64{5, 15, 25}
	for i, chunk := range chunks {
		if len(chunk) != 1 || chunk[0].FirstTimestampNs != want[i] {
			t.Fatalf("chunk %d = %+v, want timestamp %d", i, chunk, want[i])
		}
	}
}
