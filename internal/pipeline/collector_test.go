package pipeline

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"flowgen/internal/engine"
	"flowgen/internal/model"
	"flowgen/internal/rng"
)

// memorySink captures every WriteFlow/WriteRaw call so tests can inspect
// the exact sequence the collector produced.
type memorySink struct {
	mu    sync.Mutex
	lines []string
}

func (s *memorySink) WriteFlow(_ model.EnhancedFlowRecord, formatted string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, formatted)
	return nil
}

func (s *memorySink) WriteRaw(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
	return nil
}

func (s *memorySink) Close() error { return nil }

func newTestEngine(t *testing.T, startTs uint64, seed int64) *engine.Engine {
	cfg := model.EngineConfig{
		FlowsPerSecond:     100_000,
		StartTimestampNs:   startTs,
		SourceSubnets:      []string{"10.0.0.0/24"},
		DestinationSubnets: []string{"192.168.0.0/24"},
		MinPacketSize:      64,
		MaxPacketSize:      1500,
		AveragePacketSize:  800,
		TrafficMix: []model.TrafficPattern{
			{ClassTag: "web_traffic", Percentage: 100},
		},
	}
	e, err := engine.NewWithSource(cfg, rng.New(seed))
	if err != nil {
		t.Fatalf("NewWithSource: %v", err)
	}
	return e
}

func TestCollectorParallelOrdering(t *testing.T) {
	const numProducers = 3
	const flowsPerProducer = 500
	const chunkDurationNs = uint64(1_000_000)

	producers := make([]*Producer, numProducers)
	for i := 0; i < numProducers; i++ {
		// Staggered by 1ms; non-zero because a zero start means "now".
		startTs := uint64(i+1) * 1_000_000
		e := newTestEngine(t, startTs, int64(i+1))
		producers[i] = NewProducer(i, e)
	}

	formatter := NewFormatter(FormatCSV, SortTimestamp, true)
	out := &memorySink{}
	collector := NewCollector(producers, chunkDurationNs, formatter, out, nil, false)

	var wg sync.WaitGroup
	for i, p := range producers {
		wg.Add(1)
		go func(p *Producer, seed int64) {
			defer wg.Done()
			p.Run(context.Background(), rng.New(seed), flowsPerProducer)
		}(p, int64(100+i))
	}

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- collector.Run() }()

	wg.Wait()
	if err := <-runErrCh; err != nil {
		t.Fatalf("collector.Run: %v", err)
	}

	lines := out.lines
	if len(lines) == 0 {
		t.Fatal("no output produced")
	}
	// First line is the CSV header.
	if !strings.HasPrefix(lines[0], "stream_id,") {
		t.Fatalf("expected CSV header first, got %q", lines[0])
	}

	records := lines[1:]
	if len(records) != numProducers*flowsPerProducer {
		t.Fatalf("got %d records, want %d", len(records), numProducers*flowsPerProducer)
	}

	var prevTs uint64
	for i, line := range records {
		fields := strings.Split(line, ",")
		ts, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			t.Fatalf("record %d: bad timestamp field %q: %v", i, fields[1], err)
		}
		if ts < prevTs {
			t.Fatalf("record %d: timestamp %d is less than previous %d (not non-decreasing)", i, ts, prevTs)
		}
		prevTs = ts
	}
}
