package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// Style selects how ProgressTracker renders its periodic update.
type Style int

const (
	StyleBar Style = iota
	StyleSimple
	StyleSpinner
	StyleNone
)

// ProgressTracker monitors timestamp progression across a set of producers
// and periodically renders a human-readable progress line to an arbitrary
// writer (normally the process's diagnostic stream).
type ProgressTracker struct {
	startTimestampNs uint64
	endTimestampNs   uint64
	totalDurationNs  uint64

	threadTimestamps []atomic.Uint64

	totalFlows atomic.Uint64
	totalBytes atomic.Uint64

	startTime time.Time
	active    atomic.Bool
	shutdown  atomic.Bool

	style          Style
	updateInterval time.Duration
	out            io.Writer

	spinnerFrame int
	doneCh       chan struct{}
}

// NewProgressTracker constructs a tracker for numThreads producers spanning
// [startTs, endTs). Call Start to begin the display loop and Stop to end it.
func NewProgressTracker(startTs, endTs uint64, numThreads int, style Style, updateInterval time.Duration, out io.Writer) *ProgressTracker {
	t := &ProgressTracker{
		startTimestampNs: startTs,
		endTimestampNs:   endTs,
		totalDurationNs:  endTs - startTs,
		threadTimestamps: make([]atomic.Uint64, numThreads),
		style:            style,
		updateInterval:   updateInterval,
		out:              out,
		doneCh:           make(chan struct{}),
	}
	for i := range t.threadTimestamps {
		t.threadTimestamps[i].Store(startTs)
	}
	return t
}

// Start records the wall-clock baseline and, unless style is StyleNone,
// launches the display goroutine.
func (t *ProgressTracker) Start() {
	t.startTime = time.Now()
	t.active.Store(true)
	if t.style == StyleNone {
		close(t.doneCh)
		return
	}
	go t.displayLoop()
}

// Stop signals the display goroutine to print a final newline and exit,
// then waits for it.
func (t *ProgressTracker) Stop() {
	t.shutdown.Store(true)
	<-t.doneCh
}

// UpdateTimestamp records the current position of one producer thread.
func (t *ProgressTracker) UpdateTimestamp(threadID int, currentTs uint64) {
	if threadID < 0 || threadID >= len(t.threadTimestamps) {
		return
	}
	t.threadTimestamps[threadID].Store(currentTs)
}

// AddFlows and AddBytes accumulate totals processed so far.
func (t *ProgressTracker) AddFlows(count uint64) { t.totalFlows.Add(count) }
func (t *ProgressTracker) AddBytes(n uint64)     { t.totalBytes.Add(n) }

// ProgressPercentage is driven by the slowest (minimum) producer timestamp,
// so progress only reports what every thread has actually passed.
func (t *ProgressTracker) ProgressPercentage() float64 {
	minTs := t.minTimestamp()
	if minTs >= t.endTimestampNs {
		return 100.0
	}
	if minTs <= t.startTimestampNs {
		return 0.0
	}
	elapsed := minTs - t.startTimestampNs
	return float64(elapsed) * 100.0 / float64(t.totalDurationNs)
}

// CurrentTimestamp returns the minimum (slowest) timestamp across threads.
func (t *ProgressTracker) CurrentTimestamp() uint64 { return t.minTimestamp() }

func (t *ProgressTracker) minTimestamp() uint64 {
	minTs := t.endTimestampNs
	for i := range t.threadTimestamps {
		if cur := t.threadTimestamps[i].Load(); cur < minTs {
			minTs = cur
		}
	}
	return minTs
}

// ETA estimates remaining wall-clock time by extrapolating from progress so
// far; zero once complete or before any progress has been observed.
func (t *ProgressTracker) ETA() time.Duration {
	progress := t.ProgressPercentage()
	if progress <= 0.0 || progress >= 100.0 {
		return 0
	}
	elapsed := time.Since(t.startTime)
	total := time.Duration(float64(elapsed) / (progress / 100.0))
	return total - elapsed
}

// Throughput reports flows processed per second of wall-clock time.
func (t *ProgressTracker) Throughput() float64 {
	elapsedSec := time.Since(t.startTime).Seconds()
	if elapsedSec < 0.001 {
		return 0.0
	}
	return float64(t.totalFlows.Load()) / elapsedSec
}

// BandwidthGbps reports bytes processed per second of wall-clock time,
// expressed in gigabits.
func (t *ProgressTracker) BandwidthGbps() float64 {
	elapsedSec := time.Since(t.startTime).Seconds()
	if elapsedSec < 0.001 {
		return 0.0
	}
	return float64(t.totalBytes.Load()) * 8.0 / (elapsedSec * 1e9)
}

func (t *ProgressTracker) displayLoop() {
	defer close(t.doneCh)
	ticker := time.NewTicker(t.updateInterval)
	defer ticker.Stop()

	for !t.shutdown.Load() {
		<-ticker.C
		if t.shutdown.Load() {
			break
		}
		if t.active.Load() {
			t.display()
		}
	}
	fmt.Fprint(t.out, "\n")
}

func (t *ProgressTracker) display() {
	progress := t.ProgressPercentage()
	currentTime := formatTimestamp(t.CurrentTimestamp())
	eta := formatDuration(t.ETA())
	flowCount := formatCount(t.totalFlows.Load())

	switch t.style {
	case StyleBar:
		bar := buildProgressBar(progress, 40)
		fmt.Fprintf(t.out, "\r%s %.1f%% | Time: %s | ETA: %s | %.0f flows/s | %.2f Gbps",
			bar, progress, currentTime, eta, t.Throughput(), t.BandwidthGbps())
	case StyleSimple:
		fmt.Fprintf(t.out, "\rProgress: %.1f%% - %s flows - ETA: %s", progress, flowCount, eta)
	case StyleSpinner:
		fmt.Fprintf(t.out, "\r%s %.1f%% - %s flows - %.0f flows/s",
			t.buildSpinner(), progress, flowCount, t.Throughput())
	case StyleNone:
	}
}

func buildProgressBar(percentage float64, width int) string {
	filled := int(percentage / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			b.WriteByte('=')
		case i == filled && filled < width:
			b.WriteByte('>')
		default:
			b.WriteByte(' ')
		}
	}
	b.WriteByte(']')
	return b.String()
}

var spinnerFrames = [...]byte{'|', '/', '-', '\\'}

func (t *ProgressTracker) buildSpinner() string {
	f := spinnerFrames[t.spinnerFrame%len(spinnerFrames)]
	t.spinnerFrame++
	return string(f)
}

func formatTimestamp(tsNs uint64) string {
	return time.Unix(0, int64(tsNs)).UTC().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}

func formatCount(count uint64) string {
	switch {
	case count < 1000:
		return fmt.Sprintf("%d", count)
	case count < 1_000_000:
		return fmt.Sprintf("%dK", count/1000)
	case count < 1_000_000_000:
		return fmt.Sprintf("%dM", count/1_000_000)
	default:
		return fmt.Sprintf("%dG", count/1_000_000_000)
	}
}
