package sink

import (
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"flowgen/internal/model"
)

// NATSSink publishes each formatted line as a message on a subject,
// grounded on the teacher's probe.Publisher — but publishing plain text
// bytes rather than a protobuf envelope, since FlowGen has no generated
// wire schema to encode into (see DESIGN.md on the dropped protobuf/grpc
// dependency).
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to url and returns a sink that publishes to subject.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Printf("connected to NATS server at %s, publishing to %q", url, subject)
	return &NATSSink{nc: nc, subject: subject}, nil
}

func (s *NATSSink) WriteFlow(_ model.EnhancedFlowRecord, formatted string) error {
	if err := s.nc.Publish(s.subject, []byte(formatted)); err != nil {
		return fmt.Errorf("nats publish: %w", model.ErrOutputError)
	}
	return nil
}

func (s *NATSSink) WriteRaw(text string) error {
	if err := s.nc.Publish(s.subject, []byte(text)); err != nil {
		return fmt.Errorf("nats publish: %w", model.ErrOutputError)
	}
	return nil
}

func (s *NATSSink) Close() error {
	if s.nc == nil {
		return nil
	}
	if err := s.nc.Drain(); err != nil {
		return fmt.Errorf("nats drain: %w", model.ErrOutputError)
	}
	log.Println("NATS connection drained and closed")
	return nil
}
