package statusapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flowgen/internal/pipeline"
)

func TestStatusHandlerServesSnapshot(t *testing.T) {
	tracker := pipeline.NewProgressTracker(0, 1000, 1, pipeline.StyleNone, time.Second, &bytes.Buffer{})
	tracker.UpdateTimestamp(0, 500)

	h := NewHandler(tracker)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.ProgressPercentage != 50.0 {
		t.Fatalf("ProgressPercentage = %v, want 50.0", snap.ProgressPercentage)
	}
}
