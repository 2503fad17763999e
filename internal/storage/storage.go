package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/speech-mine/internal/config"
)

// Store abstracts where transcript files (CSV and metadata JSON) live.
type Store interface {
	// Open returns a reader for the file at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// LocalPath returns the local filesystem path if the file exists on disk.
	// Returns "" if not available locally.
	LocalPath(key string) string

	// Exists checks if a file exists in the backend.
	Exists(ctx context.Context, key string) bool

	// Type returns "local" or "s3".
	Type() string
}

// New creates a Store based on config. Returns an error if S3 is configured
// but unreachable.
func New(cfg config.S3Config, dir string, log zerolog.Logger) (Store, error) {
	if !cfg.Enabled() {
		return NewLocalStore(dir), nil
	}

	s3store, err := NewS3Store(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("S3 init failed: %w", err)
	}

	// Startup validation: verify credentials and bucket access
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3store.HeadBucket(ctx); err != nil {
		return nil, fmt.Errorf("S3 startup check failed (bucket=%q endpoint=%q): %w",
			cfg.Bucket, cfg.Endpoint, err)
	}
	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("S3 connection verified")

	return s3store, nil
}
