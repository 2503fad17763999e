package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/snarg/speech-mine/internal/config"
	"github.com/snarg/speech-mine/internal/metrics"
	"github.com/snarg/speech-mine/internal/search"
)

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

// ServerOptions carries the collaborators the HTTP API serves from.
type ServerOptions struct {
	Index     IndexSource
	Reloader  Reloader
	Search    *search.Service
	Watcher   WatcherStatusSource // nil when file watching is off
	Version   string
	StartTime time.Time
	Log       zerolog.Logger
}

func NewServer(cfg *config.Config, opts ServerOptions) *Server {
	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      NewRouter(cfg, opts),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: opts.Log,
	}
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg *config.Config, opts ServerOptions) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(Logger(opts.Log))
	r.Use(CORS)
	r.Use(metrics.InstrumentHandler)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Health endpoint, no auth
		health := NewHealthHandler(opts.Index, opts.Watcher, opts.Version, opts.StartTime)
		r.Get("/health", health.ServeHTTP)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(cfg.AuthToken))
			NewTranscriptHandler(opts.Index).Routes(r)
			NewSearchHandler(opts.Search, cfg.SearchDefaultTopK).Routes(r)
			if opts.Reloader != nil {
				NewAdminHandler(opts.Reloader).Routes(r)
			}
		})
	})

	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
