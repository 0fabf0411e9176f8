// Command flowgen is a thin wrapper around the engine/pipeline/sink
// packages: it parses flags, loads a config file, wires the pieces
// together, and waits for either the run to finish or a shutdown signal.
// All business logic lives in the internal packages.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"flowgen/internal/config"
	"flowgen/internal/engine"
	"flowgen/internal/pipeline"
	"flowgen/internal/rng"
	"flowgen/internal/sink"
	"flowgen/internal/statusapi"
)

func main() {
	configPath := flag.String("config", "configs/flowgen.yaml", "path to the YAML config file")
	seed := flag.Int64("seed", 0, "master RNG seed (0 uses engine.seed from the config, or the clock if that is 0 too)")
	flag.Parse()

	log.Println("starting flowgen...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Println("configuration loaded successfully")

	masterSeed := *seed
	if masterSeed == 0 {
		masterSeed = cfg.Engine.Seed
	}
	if masterSeed == 0 {
		masterSeed = time.Now().UnixNano()
	}

	numProducers := cfg.Pipeline.NumProducers
	if numProducers <= 0 {
		numProducers = 1
	}

	producers := make([]*pipeline.Producer, numProducers)
	engineCfg := cfg.EngineConfig()
	for i := 0; i < numProducers; i++ {
		e, err := engine.NewWithSource(engineCfg, rng.Derive(masterSeed, i))
		if err != nil {
			log.Fatalf("failed to initialize engine for producer %d: %v", i, err)
		}
		producers[i] = pipeline.NewProducer(i, e)
	}

	outSink, err := buildSink(cfg.Sink)
	if err != nil {
		log.Fatalf("failed to build sink: %v", err)
	}
	defer func() {
		if err := outSink.Close(); err != nil {
			log.Printf("error closing sink: %v", err)
		}
	}()

	format, err := pipeline.ParseFormat(orDefault(cfg.Pipeline.Format, "csv"))
	if err != nil {
		log.Fatalf("invalid pipeline.format: %v", err)
	}
	sortField, err := pipeline.ParseSortField(orDefault(cfg.Pipeline.SortField, "timestamp"))
	if err != nil {
		log.Fatalf("invalid pipeline.sort_field: %v", err)
	}
	formatter := pipeline.NewFormatter(format, sortField, cfg.Pipeline.Pretty)

	chunkDurationNs := cfg.Pipeline.ChunkDurationNs
	if chunkDurationNs == 0 {
		chunkDurationNs = 1_000_000
	}

	var tracker *pipeline.ProgressTracker
	if style, ok := parseProgressStyle(cfg.Pipeline.ProgressStyle); ok && style != pipeline.StyleNone {
		interval := time.Duration(cfg.Pipeline.ProgressIntervalMs) * time.Millisecond
		if interval <= 0 {
			interval = time.Second
		}
		endTs := engineCfg.StartTimestampNs + estimatedRunDurationNs(cfg, producers)
		tracker = pipeline.NewProgressTracker(engineCfg.StartTimestampNs, endTs, numProducers, style, interval, os.Stderr)
		tracker.Start()
		defer tracker.Stop()
	}

	var statusServer *http.Server
	if addr := cfg.Sink.StatusAPIAddr; addr != "" && tracker != nil {
		handler := statusapi.NewHandler(tracker)
		statusServer = &http.Server{Addr: addr, Handler: handler.Router()}
		go func() {
			log.Printf("status API listening on %s", addr)
			if err := statusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("status API server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("shutdown signal received, stopping producers...")
		cancel()
	}()

	var wg sync.WaitGroup
	for i, p := range producers {
		wg.Add(1)
		go func(p *pipeline.Producer, index int) {
			defer wg.Done()
			p.Run(ctx, rng.Derive(masterSeed, 1_000_000+index), cfg.Pipeline.FlowsPerProducer)
		}(p, i)
	}

	collector := pipeline.NewCollector(producers, chunkDurationNs, formatter, outSink, tracker, cfg.Pipeline.SuppressHeader)

	collectorDone := make(chan error, 1)
	go func() { collectorDone <- collector.Run() }()

	wg.Wait()
	if err := <-collectorDone; err != nil {
		log.Fatalf("collector failed: %v", err)
	}

	if statusServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("status API shutdown error: %v", err)
		}
	}

	log.Printf("flowgen finished: %d flows collected", collector.FlowsCollected())
}

func buildSink(cfg config.SinkSection) (sink.Sink, error) {
	switch cfg.Type {
	case "", "file":
		path := cfg.Path
		if path == "" {
			return sink.NewFileSink(os.Stdout), nil
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return sink.NewFileSinkFile(f), nil
	case "clickhouse":
		return sink.NewClickHouseSink(sink.ClickHouseConfig{
			Host:     cfg.ClickHouseHost,
			Port:     cfg.ClickHousePort,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		}, cfg.ClickHouseBatchSize)
	case "nats":
		return sink.NewNATSSink(cfg.NATSURL, cfg.NATSSubject)
	default:
		log.Fatalf("unknown sink type %q", cfg.Type)
		return nil, nil
	}
}

func parseProgressStyle(s string) (pipeline.Style, bool) {
	switch s {
	case "bar":
		return pipeline.StyleBar, true
	case "simple":
		return pipeline.StyleSimple, true
	case "spinner":
		return pipeline.StyleSpinner, true
	case "none", "":
		return pipeline.StyleNone, true
	default:
		return pipeline.StyleNone, false
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// estimatedRunDurationNs is a best-effort span for the progress bar's
// denominator: flows_per_producer times the engine's fixed inter-arrival
// quantum. It has no effect on the flows actually generated; a zero
// flows_per_producer (unbounded run) has no known endpoint and gets a
// placeholder span of 1 ns, so the display reads 100% as soon as every
// producer has moved past the start timestamp.
func estimatedRunDurationNs(cfg *config.Config, producers []*pipeline.Producer) uint64 {
	if len(producers) == 0 || cfg.Pipeline.FlowsPerProducer == 0 {
		return 1
	}
	return cfg.Pipeline.FlowsPerProducer * producers[0].InterArrivalQuantumNs()
}
