package sink

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"flowgen/internal/model"
	"flowgen/internal/rng"
)

func nsToTime(ns uint64) time.Time {
	return time.Unix(0, int64(ns)).UTC()
}

const createFlowsTableStatement = `
CREATE TABLE IF NOT EXISTS flows (
    StreamID        UInt32,
    FirstTimestamp  DateTime64(9),
    LastTimestamp   DateTime64(9),
    SrcIP           String,
    DstIP           String,
    SrcPort         UInt16,
    DstPort         UInt16,
    Protocol        UInt8,
    PacketCount     UInt32,
    ByteCount       UInt64
) ENGINE = MergeTree()
ORDER BY (FirstTimestamp, StreamID);
`

// ClickHouseConfig names the connection parameters, mirroring the teacher's
// config.ClickHouseConfig shape.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// ClickHouseSink batches flows and inserts them once BatchSize records have
// accumulated, grounded on the teacher's writer_clickhouse.go.
type ClickHouseSink struct {
	conn      driver.Conn
	batchSize int
	pending   []model.EnhancedFlowRecord
}

// NewClickHouseSink connects, ensures the flows table exists, and returns a
// sink that batches up to batchSize records before inserting.
func NewClickHouseSink(cfg ClickHouseConfig, batchSize int) (*ClickHouseSink, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := conn.Exec(context.Background(), createFlowsTableStatement); err != nil {
		return nil, fmt.Errorf("create flows table: %w", err)
	}
	log.Println("connected to ClickHouse and ensured flows table exists")

	if batchSize <= 0 {
		batchSize = 1000
	}
	return &ClickHouseSink{conn: conn, batchSize: batchSize}, nil
}

func connect(cfg ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

func (s *ClickHouseSink) WriteFlow(flow model.EnhancedFlowRecord, _ string) error {
	s.pending = append(s.pending, flow)
	if len(s.pending) >= s.batchSize {
		return s.flush()
	}
	return nil
}

func (s *ClickHouseSink) flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(context.Background(), "INSERT INTO flows")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, flow := range s.pending {
		err := batch.Append(
			flow.StreamID,
			nsToTime(flow.FirstTimestampNs),
			nsToTime(flow.LastTimestampNs),
			rng.FormatIPv4(flow.SourceIP),
			rng.FormatIPv4(flow.DestinationIP),
			flow.SourcePort,
			flow.DestinationPort,
			flow.Protocol,
			flow.PacketCount,
			flow.ByteCount,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	log.Printf("wrote %d flows to ClickHouse", len(s.pending))
	s.pending = s.pending[:0]
	return nil
}

// WriteRaw discards header/footer text: the flows table has no column for
// it, and a CSV/JSON envelope is meaningless for a SQL sink.
func (s *ClickHouseSink) WriteRaw(string) error { return nil }

func (s *ClickHouseSink) Close() error {
	return s.flush()
}
