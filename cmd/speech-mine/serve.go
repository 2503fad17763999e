package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/snarg/speech-mine/internal/api"
	"github.com/snarg/speech-mine/internal/config"
	"github.com/snarg/speech-mine/internal/ingest"
	"github.com/snarg/speech-mine/internal/metrics"
	"github.com/snarg/speech-mine/internal/search"
	"github.com/snarg/speech-mine/internal/storage"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the transcript and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(config.Overrides{HTTPAddr: addr})
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(cfg *config.Config) error {
	startTime := time.Now()

	log := newLogger(os.Stdout, cfg.LogLevel)
	log.Info().Str("version", version).Msg("speech-mine starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	storeLog := log.With().Str("component", "storage").Logger()
	store, err := storage.New(cfg.S3, cfg.TranscriptDir, storeLog)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize transcript storage")
		return err
	}

	// Index
	loader := &ingest.Loader{Store: store, CSVKey: cfg.TranscriptCSV, MetadataKey: cfg.TranscriptMetadata}
	holder := ingest.NewHolder(loader, log)
	if _, err := holder.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("failed to load transcript")
		return err
	}
	prometheus.MustRegister(metrics.NewCollector(holder))

	// File watcher (local storage only)
	var watcherStatus api.WatcherStatusSource
	if cfg.WatchEnabled {
		if paths := loader.Paths(); len(paths) > 0 {
			w := ingest.NewWatcher(holder, paths, log)
			if err := w.Start(ctx); err != nil {
				log.Warn().Err(err).Msg("file watcher failed to start, continuing without reload on change")
			} else {
				defer w.Stop()
				watcherStatus = w
			}
		} else {
			log.Info().Str("store", store.Type()).Msg("file watching unavailable for this store")
		}
	}

	// HTTP Server
	httpLog := log.With().Str("component", "http").Logger()
	searchSvc := search.NewService(holder, cfg.SearchMaxTopK, log.With().Str("component", "search").Logger())
	srv := api.NewServer(cfg, api.ServerOptions{
		Index:     holder,
		Reloader:  holder,
		Search:    searchSvc,
		Watcher:   watcherStatus,
		Version:   version,
		StartTime: startTime,
		Log:       httpLog,
	})

	// Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("speech-mine stopped")
	return serveErr
}
