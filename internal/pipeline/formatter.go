package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"flowgen/internal/model"
	"flowgen/internal/rng"
)

// Format selects the output encoding produced by a Formatter.
type Format int

const (
	FormatPlainText Format = iota
	FormatCSV
	FormatJSON
)

// SortField selects the ordering applied within each chunk before output.
// Every field breaks ties by ascending timestamp, matching the tie-break
// the original aggregator used to keep output deterministic.
type SortField int

const (
	SortTimestamp SortField = iota
	SortStreamID
	SortSourceIP
	SortDestinationIP
	SortByteCount
	SortPacketCount
)

// Formatter renders EnhancedFlowRecords to one of the three output
// encodings and sorts each chunk before it is emitted.
type Formatter struct {
	format    Format
	sortField SortField
	pretty    bool
}

// NewFormatter builds a Formatter for the given encoding/sort/pretty combo.
func NewFormatter(format Format, sortField SortField, pretty bool) *Formatter {
	return &Formatter{format: format, sortField: sortField, pretty: pretty}
}

// SortFlows orders flows in place according to the configured sort field.
func (f *Formatter) SortFlows(flows []model.EnhancedFlowRecord) {
	less := func(i, j int) bool {
		a, b := flows[i], flows[j]
		switch f.sortField {
		case SortStreamID:
			if a.StreamID != b.StreamID {
				return a.StreamID < b.StreamID
			}
		case SortSourceIP:
			if a.SourceIP != b.SourceIP {
				return a.SourceIP < b.SourceIP
			}
		case SortDestinationIP:
			if a.DestinationIP != b.DestinationIP {
				return a.DestinationIP < b.DestinationIP
			}
		case SortByteCount:
			if a.ByteCount != b.ByteCount {
				return a.ByteCount > b.ByteCount // descending
			}
		case SortPacketCount:
			if a.PacketCount != b.PacketCount {
				return a.PacketCount > b.PacketCount // descending
			}
		case SortTimestamp:
		}
		return a.FirstTimestampNs < b.FirstTimestampNs
	}
	sort.SliceStable(flows, less)
}

// FormatHeader returns the encoding's preamble, or "" if the encoding has
// none (CSV/plain-text headers, JSON's opening bracket). Callers that want
// to suppress the header entirely should just not call this.
func (f *Formatter) FormatHeader() string {
	switch f.format {
	case FormatPlainText:
		return plainTextHeader()
	case FormatCSV:
		return csvHeader
	case FormatJSON:
		if f.pretty {
			return "[\n"
		}
		return "["
	default:
		return ""
	}
}

// FormatFlow renders a single flow. isLast must be true only for the very
// last flow of the entire run, so JSON can omit the trailing comma.
func (f *Formatter) FormatFlow(flow model.EnhancedFlowRecord, isLast bool) string {
	switch f.format {
	case FormatPlainText:
		return toPlainText(flow)
	case FormatCSV:
		return toCSV(flow)
	case FormatJSON:
		return toJSON(flow, f.pretty, isLast)
	default:
		return ""
	}
}

// FormatFooter returns the encoding's closing text: JSON's closing bracket,
// empty for everything else.
func (f *Formatter) FormatFooter() string {
	if f.format == FormatJSON {
		if f.pretty {
			return "]\n"
		}
		return "]"
	}
	return ""
}

// ParseFormat resolves the short aliases accepted for --format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "plain", "plain_text":
		return FormatPlainText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, model.ErrPreconditionFailed)
	}
}

// ParseSortField resolves the short aliases accepted for --sort.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(s) {
	case "timestamp", "time", "ts":
		return SortTimestamp, nil
	case "stream_id", "stream", "sid":
		return SortStreamID, nil
	case "src_ip", "source_ip", "srcip":
		return SortSourceIP, nil
	case "dst_ip", "destination_ip", "dstip":
		return SortDestinationIP, nil
	case "bytes", "byte_count":
		return SortByteCount, nil
	case "packets", "packet_count", "pkts":
		return SortPacketCount, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, model.ErrPreconditionFailed)
	}
}

func plainTextHeader() string {
	return fmt.Sprintf("%-10s%-22s%-22s%-18s%-10s%-18s%-10s%-7s%-10s%-12s",
		"STREAM", "FIRST_TIMESTAMP", "LAST_TIMESTAMP", "SRC_IP", "SRC_PORT",
		"DST_IP", "DST_PORT", "PROTO", "PACKETS", "BYTES")
}

func toPlainText(flow model.EnhancedFlowRecord) string {
	firstSec, firstNs := flow.FirstTimestampNs/1e9, flow.FirstTimestampNs%1e9
	lastSec, lastNs := flow.LastTimestampNs/1e9, flow.LastTimestampNs%1e9

	return fmt.Sprintf("0x%08x  %12d.%09d  %12d.%09d  %-18s%-10d%-18s%-10d%-7d%-10d%-12d",
		flow.StreamID,
		firstSec, firstNs,
		lastSec, lastNs,
		rng.FormatIPv4(flow.SourceIP), flow.SourcePort,
		rng.FormatIPv4(flow.DestinationIP), flow.DestinationPort,
		flow.Protocol, flow.PacketCount, flow.ByteCount)
}

const csvHeader = "stream_id,first_timestamp,last_timestamp,src_ip,dst_ip,src_port,dst_port,protocol,packet_count,byte_count"

func toCSV(flow model.EnhancedFlowRecord) string {
	return fmt.Sprintf("%d,%d,%d,%s,%s,%d,%d,%d,%d,%d",
		flow.StreamID, flow.FirstTimestampNs, flow.LastTimestampNs,
		rng.FormatIPv4(flow.SourceIP), rng.FormatIPv4(flow.DestinationIP),
		flow.SourcePort, flow.DestinationPort, flow.Protocol,
		flow.PacketCount, flow.ByteCount)
}

func toJSON(flow model.EnhancedFlowRecord, pretty, last bool) string {
	comma := ","
	if last {
		comma = ""
	}

	if pretty {
		return fmt.Sprintf(
			"  {\n    \"stream_id\": %d,\n    \"first_timestamp\": %d,\n    \"last_timestamp\": %d,\n    \"src_ip\": %q,\n    \"dst_ip\": %q,\n    \"src_port\": %d,\n    \"dst_port\": %d,\n    \"protocol\": %d,\n    \"packet_count\": %d,\n    \"byte_count\": %d\n  }%s\n",
			flow.StreamID, flow.FirstTimestampNs, flow.LastTimestampNs,
			rng.FormatIPv4(flow.SourceIP), rng.FormatIPv4(flow.DestinationIP),
			flow.SourcePort, flow.DestinationPort, flow.Protocol,
			flow.PacketCount, flow.ByteCount, comma)
	}

	return fmt.Sprintf(
		"{\"stream_id\":%d,\"first_timestamp\":%d,\"last_timestamp\":%d,\"src_ip\":%q,\"dst_ip\":%q,\"src_port\":%d,\"dst_port\":%d,\"protocol\":%d,\"packet_count\":%d,\"byte_count\":%d}%s",
		flow.StreamID, flow.FirstTimestampNs, flow.LastTimestampNs,
		rng.FormatIPv4(flow.SourceIP), rng.FormatIPv4(flow.DestinationIP),
		flow.SourcePort, flow.DestinationPort, flow.Protocol,
		flow.PacketCount, flow.ByteCount, comma)
}
