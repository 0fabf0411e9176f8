package pipeline

import (
	"strings"
	"testing"

	"flowgen/internal/model"
)

func sampleFlows() []model.EnhancedFlowRecord {
	return []model.EnhancedFlowRecord{
		{StreamID: 2, FirstTimestampNs: 300, ByteCount: 100, PacketCount: 5},
		{StreamID: 1, FirstTimestampNs: 100, ByteCount: 500, PacketCount: 1},
		{StreamID: 3, FirstTimestampNs: 200, ByteCount: 300, PacketCount: 9},
	}
}

func TestSortByTimestampAscending(t *testing.T) {
	flows := sampleFlows()
	f := NewFormatter(FormatCSV, SortTimestamp, false)
	f.SortFlows(flows)
	for i := 1; i < len(flows); i++ {
		if flows[i-1].FirstTimestampNs > flows[i].FirstTimestampNs {
			t.Fatalf("not sorted ascending by timestamp: %+v", flows)
		}
	}
}

func TestSortByByteCountDescending(t *testing.T) {
	flows := sampleFlows()
	f := NewFormatter(FormatCSV, SortByteCount, false)
	f.SortFlows(flows)
	for i := 1; i < len(flows); i++ {
		if flows[i-1].ByteCount < flows[i].ByteCount {
			t.Fatalf("not sorted descending by byte_count: %+v", flows)
		}
	}
}

func TestJSONPrettyLastFlowHasNoTrailingComma(t *testing.T) {
	f := NewFormatter(FormatJSON, SortTimestamp, true)
	flow := model.EnhancedFlowRecord{StreamID: 1}
	last := f.FormatFlow(flow, true)
	notLast := f.FormatFlow(flow, false)

	if strings.Contains(strings.TrimRight(last, "\n"), "},") {
		t.Fatalf("last flow should not end with a trailing comma: %q", last)
	}
	if !strings.Contains(notLast, "},") {
		t.Fatalf("non-last flow should end with a trailing comma: %q", notLast)
	}
}

func TestParseFormatAliases(t *testing.T) {
	cases := map[string]Format{
		"text": FormatPlainText, "plain": FormatPlainText, "plain_text": FormatPlainText,
		"csv": FormatCSV, "JSON": FormatJSON,
	}
	for alias, want := range cases {
		got, err := ParseFormat(alias)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", alias, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %v, want %v", alias, got, want)
		}
	}
	if _, err := ParseFormat("bogus"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseSortFieldAliases(t *testing.T) {
	cases := map[string]SortField{
		"ts": SortTimestamp, "sid": SortStreamID, "pkts": SortPacketCount,
	}
	for alias, want := range cases {
		got, err := ParseSortField(alias)
		if err != nil {
			t.Fatalf("ParseSortField(%q): %v", alias, err)
		}
		if got != want {
			t.Fatalf("ParseSortField(%q) = %v, want %v", alias, got, want)
		}
	}
}
