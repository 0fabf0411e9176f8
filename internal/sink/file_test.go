package sink

import (
	"bytes"
	"testing"

	"flowgen/internal/model"
)

type nopWriteCloser struct {
	bytes.Buffer
	closed bool
}

func (w *nopWriteCloser) Close() error {
	w.closed = true
	return nil
}

func TestFileSinkWritesFlowAndRaw(t *testing.T) {
	var buf bytes.Buffer
	s := NewFileSink(&buf)

	if err := s.WriteRaw("header\n"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := s.WriteFlow(model.EnhancedFlowRecord{}, "a,b,c"); err != nil {
		t.Fatalf("WriteFlow: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "header\na,b,c\n"
	if buf.String() != want {
		t.Fatalf("buf = %q, want %q", buf.String(), want)
	}
}

func TestNewFileSinkNeverClosesUnderlyingWriter(t *testing.T) {
	w := &nopWriteCloser{}
	s := NewFileSink(w)

	if err := s.WriteRaw("x"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.closed {
		t.Fatal("NewFileSink must not close a shared writer (e.g. stdout)")
	}
}

func TestNewFileSinkFileClosesOwnedWriter(t *testing.T) {
	w := &nopWriteCloser{}
	s := NewFileSinkFile(w)

	if err := s.WriteRaw("x"); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Fatal("NewFileSinkFile must close a writer it owns")
	}
}
