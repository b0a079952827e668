// Package server exposes the analysis engine over HTTP.
//
// The façade is read-only: every route answers a structural question about
// the loaded snapshot, and responses for pure GET queries are cached keyed by
// snapshot hash, so a reload invalidates everything without explicit purging.
// Backfill planning takes its selection in a POST body and is computed fresh
// per request.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/mattlianje/pipeviz-sub000/pkg/cache"
	"github.com/mattlianje/pipeviz-sub000/pkg/engine"
)

// Config holds the façade's runtime settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Cache stores serialized GET responses. Nil disables caching.
	Cache cache.Cache
	// CacheTTL bounds the lifetime of cached responses. Zero means no expiry;
	// entries still die with the snapshot because keys embed its hash.
	CacheTTL time.Duration
	// Logger receives access and lifecycle logs. Nil falls back to the
	// default logger.
	Logger *log.Logger
}

// Server serves the analysis engine over HTTP.
type Server struct {
	engine *engine.Engine
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
	addr   string
}

// New creates a server around one engine snapshot.
func New(e *engine.Engine, cfg Config) *Server {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	l := cfg.Logger
	if l == nil {
		l = log.Default()
	}
	return &Server{
		engine: e,
		cache:  c,
		ttl:    cfg.CacheTTL,
		logger: l,
		addr:   cfg.Addr,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/lineage/{node}", s.handleLineage)
		r.Get("/cycles", s.handleCycles)
		r.Get("/impact/{node}", s.handleImpact)
		r.Post("/backfill", s.handleBackfill)
		r.Post("/backfill/airflow", s.handleBackfillAirflow)
		r.Get("/paths/critical", s.handleCriticalPath)
		r.Get("/paths/costliest", s.handleCostliestPath)
		r.Get("/attributes", s.handleAttributes)
		r.Get("/attributes/lineage", s.handleAttributeLineage)
		r.Get("/datasources/{name}/lineage", s.handleDataSourceLineage)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr, "snapshot", s.engine.SnapshotHash()[:12])
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("shut down")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
