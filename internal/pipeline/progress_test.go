package pipeline

import (
	"bytes"
	"testing"
	"time"
)

func TestProgressPercentageTracksSlowestThread(t *testing.T) {
	tr := NewProgressTracker(0, 1000, 2, StyleNone, time.Second, &bytes.Buffer{})
	tr.UpdateTimestamp(0, 900)
	tr.UpdateTimestamp(1, 100)

	if got := tr.ProgressPercentage(); got != 10.0 {
		t.Fatalf("ProgressPercentage() = %v, want 10.0 (driven by the slower thread)", got)
	}
	if got := tr.CurrentTimestamp(); got != 100 {
		t.Fatalf("CurrentTimestamp() = %d, want 100", got)
	}
}

func TestProgressPercentageClampsToBounds(t *testing.T) {
	tr := NewProgressTracker(0, 1000, 1, StyleNone, time.Second, &bytes.Buffer{})

	tr.UpdateTimestamp(0, 0)
	if got := tr.ProgressPercentage(); got != 0.0 {
		t.Fatalf("ProgressPercentage() at start = %v, want 0.0", got)
	}

	tr.UpdateTimestamp(0, 5000)
	if got := tr.ProgressPercentage(); got != 100.0 {
		t.Fatalf("ProgressPercentage() past end = %v, want 100.0", got)
	}
}

func TestStyleNoneProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	tr := NewProgressTracker(0, 1000, 1, StyleNone, 10*time.Millisecond, &buf)
	tr.Start()
	tr.Stop()

	if buf.Len() != 0 {
		t.Fatalf("StyleNone tracker wrote %q, want no output", buf.String())
	}
}

func TestStyleBarWritesFinalNewline(t *testing.T) {
	var buf bytes.Buffer
	tr := NewProgressTracker(0, 1000, 1, StyleBar, 5*time.Millisecond, &buf)
	tr.UpdateTimestamp(0, 500)
	tr.Start()
	time.Sleep(20 * time.Millisecond)
	tr.Stop()

	if buf.Len() == 0 {
		t.Fatal("StyleBar tracker should have written at least one update")
	}
	if buf.Bytes()[buf.Len()-1] != '\n' {
		t.Fatalf("expected trailing newline after stop, got %q", buf.String())
	}
}

func TestFormatCountSuffixes(t *testing.T) {
	cases := map[uint64]string{
		500:         "500",
		1500:        "1K",
		2_500_000:   "2M",
		3_000_000_000: "3G",
	}
	for count, want := range cases {
		if got := formatCount(count); got != want {
			t.Fatalf("formatCount(%d) = %q, want %q", count, got, want)
		}
	}
}
