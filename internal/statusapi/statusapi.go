// Package statusapi exposes a running generation pipeline's progress over
// HTTP, grounded on the teacher's cmd/ns-api router/handler shape but
// serving plain encoding/json instead of protojson, since FlowGen has no
// generated wire schema (see DESIGN.md on the dropped protobuf/grpc
// dependency).
package statusapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"flowgen/internal/pipeline"
)

// Snapshot is the JSON body returned by GET /status.
type Snapshot struct {
	ProgressPercentage float64 `json:"progress_percentage"`
	CurrentTimestampNs uint64  `json:"current_timestamp_ns"`
	ETASeconds         float64 `json:"eta_seconds"`
	Throughput         float64 `json:"throughput_flows_per_sec"`
	BandwidthGbps      float64 `json:"bandwidth_gbps"`
}

// Handler serves a ProgressTracker's state as JSON.
type Handler struct {
	tracker *pipeline.ProgressTracker
}

// NewHandler wraps tracker.
func NewHandler(tracker *pipeline.ProgressTracker) *Handler {
	return &Handler{tracker: tracker}
}

// Router builds the gorilla/mux router this handler serves on.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", h.statusHandler).Methods("GET")
	return r
}

func (h *Handler) statusHandler(w http.ResponseWriter, r *http.Request) {
	snap := Snapshot{
		ProgressPercentage: h.tracker.ProgressPercentage(),
		CurrentTimestampNs: h.tracker.CurrentTimestamp(),
		ETASeconds:         h.tracker.ETA().Seconds(),
		Throughput:         h.tracker.Throughput(),
		BandwidthGbps:      h.tracker.BandwidthGbps(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
