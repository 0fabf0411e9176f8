package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
engine:
  bandwidth_gbps: 10
  source_subnets: ["10.0.0.0/24"]
  destination_subnets: ["192.168.0.0/24"]
  min_packet_size: 64
  max_packet_size: 1500
  average_packet_size: 800
  traffic_mix:
    - class_tag: web_traffic
      percentage: 70
    - class_tag: dns_traffic
      percentage: 30
pipeline:
  num_producers: 4
  chunk_duration_ns: 1000000
  format: csv
  sort_field: timestamp
sink:
  type: file
  path: out.csv
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowgen.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Engine.BandwidthGbps != 10 {
		t.Errorf("BandwidthGbps = %v, want 10", cfg.Engine.BandwidthGbps)
	}
	if len(cfg.Engine.TrafficMix) != 2 {
		t.Fatalf("TrafficMix has %d entries, want 2", len(cfg.Engine.TrafficMix))
	}
	if cfg.Pipeline.NumProducers != 4 {
		t.Errorf("NumProducers = %d, want 4", cfg.Pipeline.NumProducers)
	}
	if cfg.Sink.Type != "file" {
		t.Errorf("Sink.Type = %q, want %q", cfg.Sink.Type, "file")
	}

	engineCfg := cfg.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		t.Fatalf("converted EngineConfig failed Validate: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/flowgen.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
