package sink

import (
	"bufio"
	"fmt"
	"io"

	"flowgen/internal/model"
)

// FileSink writes each formatted line to an underlying writer, buffering to
// avoid a syscall per flow.
type FileSink struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewFileSink wraps w for output only; Close flushes but never closes w
// (callers own w's lifetime — this keeps a stdout destination usable after
// the sink is done).
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{w: bufio.NewWriter(w)}
}

// NewFileSinkFile wraps an *os.File (or any io.WriteCloser) that this sink
// owns: Close flushes and then closes it.
func NewFileSinkFile(w io.WriteCloser) *FileSink {
	return &FileSink{w: bufio.NewWriter(w), closer: w}
}

func (s *FileSink) WriteFlow(_ model.EnhancedFlowRecord, formatted string) error {
	if _, err := s.w.WriteString(formatted); err != nil {
		return fmt.Errorf("file sink write: %w", model.ErrOutputError)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("file sink write: %w", model.ErrOutputError)
	}
	return nil
}

func (s *FileSink) WriteRaw(text string) error {
	if _, err := s.w.WriteString(text); err != nil {
		return fmt.Errorf("file sink write: %w", model.ErrOutputError)
	}
	return nil
}

func (s *FileSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("file sink flush: %w", model.ErrOutputError)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
