package pipeline

import (
	"context"
	"testing"

	"flowgen/internal/rng"
)

func TestProducerRunRespectsFlowLimit(t *testing.T) {
	e := newTestEngine(t, 0, 1)
	p := NewProducer(0, e)

	p.Run(context.Background(), rng.New(2), 37)

	if !p.Done() {
		t.Fatal("producer should report Done after Run returns")
	}
	if got := p.FlowCount(); got != 37 {
		t.Fatalf("FlowCount() = %d, want 37", got)
	}

	flows := p.Drain()
	if len(flows) != 37 {
		t.Fatalf("Drain() returned %d flows, want 37", len(flows))
	}
	if more := p.Drain(); more != nil {
		t.Fatalf("second Drain() should be empty, got %d flows", len(more))
	}
}

func TestProducerRunRespectsContextCancellation(t *testing.T) {
	e := newTestEngine(t, 0, 1)
	p := NewProducer(0, e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.Run(ctx, rng.New(2), 0)

	if !p.Done() {
		t.Fatal("producer should report Done after a cancelled context")
	}
	if got := p.FlowCount(); got != 0 {
		t.Fatalf("FlowCount() = %d, want 0 for an already-cancelled context", got)
	}
}

func TestStreamIDEncodesProducerID(t *testing.T) {
	e := newTestEngine(t, 0, 1)
	p := NewProducer(5, e)
	p.Run(context.Background(), rng.New(2), 3)

	flows := p.Drain()
	for _, f := range flows {
		if got := f.StreamID >> 24; got != 5 {
			t.Fatalf("stream_id %#x does not encode producer id 5", f.StreamID)
		}
	}
}
