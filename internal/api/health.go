package api

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status        string             `json:"status"`
	Version       string             `json:"version"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	Checks        map[string]string  `json:"checks"`
	Index         *IndexStatus       `json:"index,omitempty"`
	Watcher       *WatcherStatusData `json:"watcher,omitempty"`
}

// IndexStatus summarizes the live index.
type IndexStatus struct {
	Version    uint64    `json:"version"`
	LoadedAt   time.Time `json:"loaded_at"`
	Utterances int       `json:"utterances"`
	Words      int       `json:"words"`
}

type HealthHandler struct {
	source    IndexSource
	watcher   WatcherStatusSource
	version   string
	startTime time.Time
}

// NewHealthHandler creates the health handler. watcher may be nil when file
// watching is disabled.
func NewHealthHandler(source IndexSource, watcher WatcherStatusSource, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		source:    source,
		watcher:   watcher,
		version:   version,
		startTime: startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"
	httpStatus := http.StatusOK

	resp := HealthResponse{
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
	}

	// Index check
	if idx := h.source.Current(); idx != nil {
		checks["index"] = "ok"
		resp.Index = &IndexStatus{
			Version:    idx.Version(),
			LoadedAt:   idx.LoadedAt(),
			Utterances: idx.UtteranceCount(),
			Words:      idx.WordCount(),
		}
	} else {
		checks["index"] = "not_loaded"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	// File watcher check
	if h.watcher != nil {
		if ws := h.watcher.Status(); ws != nil {
			checks["file_watcher"] = ws.Status
			resp.Watcher = ws
			if ws.Status != "watching" && status == "healthy" {
				status = "degraded"
			}
		}
	} else {
		checks["file_watcher"] = "not_configured"
	}

	resp.Status = status
	WriteJSON(w, httpStatus, resp)
}
