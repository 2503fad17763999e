package api

import (
	"context"

	"github.com/snarg/speech-mine/internal/transcript"
)

// IndexSource provides the live transcript index to the API layer.
// The ingest holder implements this interface; api owns it so ingest can
// import api without a cycle.
type IndexSource interface {
	// Current returns the live index, or nil if nothing has loaded yet.
	Current() *transcript.Index
}

// Reloader rebuilds the live index on demand.
type Reloader interface {
	Reload(ctx context.Context) (*transcript.Index, error)
}

// WatcherStatusSource reports on the file watcher, if one is running.
type WatcherStatusSource interface {
	Status() *WatcherStatusData
}

// WatcherStatusData represents the status of the transcript file watcher.
type WatcherStatusData struct {
	Status         string   `json:"status"` // "starting", "watching", "stopped"
	WatchDirs      []string `json:"watch_dirs"`
	Reloads        int64    `json:"reloads"`
	ReloadFailures int64    `json:"reload_failures"`
}
