// Package sink implements the output collaborators a Collector drains
// formatted flow batches into: a plain file/stream, a ClickHouse table, and
// a NATS subject.
package sink

import "flowgen/internal/model"

// Sink is the contract every output collaborator implements. Collector
// calls WriteFlow once per emitted record, passing both the structured
// record (for sinks that want typed columns, like ClickHouse) and its
// already-formatted text (for line-oriented sinks, like a file or NATS
// subject). A sink is free to ignore whichever it doesn't need.
//
// WriteRaw carries header/footer text that belongs to no single record
// (a CSV header, JSON's brackets) — structured sinks like ClickHouse have
// no column for it and simply discard it.
type Sink interface {
	WriteFlow(flow model.EnhancedFlowRecord, formatted string) error
	WriteRaw(text string) error
	Close() error
}
