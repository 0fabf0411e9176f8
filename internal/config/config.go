// Package config loads the YAML configuration file accepted by the
// flowgen CLI into the structs the engine, pipeline, and sink packages
// consume. It stays a thin external collaborator: EngineConfig.Validate
// does the real precondition checking, not this loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrafficMixEntry is one (class_tag, percentage) line of the traffic_mix
// list in the config file.
type TrafficMixEntry struct {
	ClassTag   string  `yaml:"class_tag"`
	Percentage float64 `yaml:"percentage"`
}

// EngineSection configures the flow generation engine.
type EngineSection struct {
	BandwidthGbps      float64           `yaml:"bandwidth_gbps"`
	FlowsPerSecond     float64           `yaml:"flows_per_second"`
	StartTimestampNs   uint64            `yaml:"start_timestamp_ns"`
	SourceSubnets      []string          `yaml:"source_subnets"`
	DestinationSubnets []string          `yaml:"destination_subnets"`
	SourceWeights      []float64         `yaml:"source_weights"`
	MinPacketSize      uint32            `yaml:"min_packet_size"`
	MaxPacketSize      uint32            `yaml:"max_packet_size"`
	AveragePacketSize  uint32            `yaml:"average_packet_size"`
	TrafficMix         []TrafficMixEntry `yaml:"traffic_mix"`
	BidirectionalMode  string            `yaml:"bidirectional_mode"`
	BidirectionalProb  float64           `yaml:"bidirectional_probability"`
	Seed               int64             `yaml:"seed"`
}

// PipelineSection configures the aggregation pipeline surrounding the
// engine: how many producers run, how output is chunked/sorted/formatted,
// and how progress is displayed.
type PipelineSection struct {
	NumProducers       int    `yaml:"num_producers"`
	FlowsPerProducer   uint64 `yaml:"flows_per_producer"`
	ChunkDurationNs    uint64 `yaml:"chunk_duration_ns"`
	Format             string `yaml:"format"`
	SortField          string `yaml:"sort_field"`
	Pretty             bool   `yaml:"pretty"`
	SuppressHeader     bool   `yaml:"suppress_header"`
	ProgressStyle      string `yaml:"progress_style"`
	ProgressIntervalMs uint32 `yaml:"progress_interval_ms"`
}

// SinkSection selects and configures the output collaborator.
type SinkSection struct {
	Type        string `yaml:"type"` // "file", "clickhouse", "nats"
	Path        string `yaml:"path"`
	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	ClickHouseHost      string `yaml:"clickhouse_host"`
	ClickHousePort      int    `yaml:"clickhouse_port"`
	ClickHouseDatabase  string `yaml:"clickhouse_database"`
	ClickHouseUsername  string `yaml:"clickhouse_username"`
	ClickHousePassword  string `yaml:"clickhouse_password"`
	ClickHouseBatchSize int    `yaml:"clickhouse_batch_size"`

	StatusAPIAddr string `yaml:"status_api_addr"`
}

// Config is the top-level configuration struct loaded from the YAML file.
type Config struct {
	Engine   EngineSection   `yaml:"engine"`
	Pipeline PipelineSection `yaml:"pipeline"`
	Sink     SinkSection     `yaml:"sink"`
}

// LoadConfig reads and unmarshals the configuration file at filePath.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
