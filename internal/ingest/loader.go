package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/snarg/speech-mine/internal/storage"
	"github.com/snarg/speech-mine/internal/transcript"
)

// Loader reads a transcript CSV and optional metadata JSON from a Store and
// builds a fresh index.
type Loader struct {
	Store       storage.Store
	CSVKey      string
	MetadataKey string // optional
}

// Load builds a new index stamped with version.
func (l *Loader) Load(ctx context.Context, version uint64) (*transcript.Index, error) {
	rc, err := l.Store.Open(ctx, l.CSVKey)
	if err != nil {
		return nil, fmt.Errorf("open transcript %q: %w", l.CSVKey, err)
	}
	rows, err := ParseCSV(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("parse transcript %q: %w", l.CSVKey, err)
	}

	var md map[string]any
	if l.MetadataKey != "" {
		mrc, err := l.Store.Open(ctx, l.MetadataKey)
		if err != nil {
			return nil, fmt.Errorf("open metadata %q: %w", l.MetadataKey, err)
		}
		md, err = ParseMetadata(mrc)
		mrc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse metadata %q: %w", l.MetadataKey, err)
		}
	}

	return transcript.Build(rows,
		transcript.WithMetadata(md),
		transcript.WithVersion(version),
		transcript.WithLoadedAt(time.Now()),
	), nil
}

// Paths returns the local filesystem paths of the loader's files, skipping
// any the store cannot resolve locally.
func (l *Loader) Paths() []string {
	var out []string
	for _, key := range []string{l.CSVKey, l.MetadataKey} {
		if key == "" {
			continue
		}
		if p := l.Store.LocalPath(key); p != "" {
			out = append(out, p)
		}
	}
	return out
}
