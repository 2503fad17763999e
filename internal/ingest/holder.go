package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/speech-mine/internal/metrics"
	"github.com/snarg/speech-mine/internal/transcript"
)

// Holder owns the live index. Readers call Current and keep the returned
// index for the whole request; Reload builds a replacement off to the side
// and swaps the pointer, so a reader never sees a partially built index.
type Holder struct {
	loader *Loader
	log    zerolog.Logger

	current  atomic.Pointer[transcript.Index]
	reloadMu sync.Mutex
}

// NewHolder creates a holder with no index loaded. Call Reload to load one.
func NewHolder(loader *Loader, log zerolog.Logger) *Holder {
	return &Holder{
		loader: loader,
		log:    log.With().Str("component", "index").Logger(),
	}
}

// Current returns the live index, or nil before the first successful load.
func (h *Holder) Current() *transcript.Index {
	return h.current.Load()
}

// Reload rebuilds the index from the loader and swaps it in with the next
// version number. On failure the previous index stays live.
func (h *Holder) Reload(ctx context.Context) (*transcript.Index, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	var version uint64 = 1
	if prev := h.current.Load(); prev != nil {
		version = prev.Version() + 1
	}

	start := time.Now()
	idx, err := h.loader.Load(ctx, version)
	if err != nil {
		metrics.IndexReloadsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Uint64("version", version).Msg("index reload failed, keeping previous index")
		return nil, err
	}

	h.current.Store(idx)
	metrics.IndexReloadsTotal.WithLabelValues("ok").Inc()
	h.log.Info().
		Uint64("version", version).
		Int("utterances", idx.UtteranceCount()).
		Int("words", idx.WordCount()).
		Dur("elapsed", time.Since(start)).
		Msg("index loaded")
	return idx, nil
}
