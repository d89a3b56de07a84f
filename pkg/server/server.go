// Package server exposes the floorplan pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz          liveness probe
//	POST   /v1/cost          score one expression over inline modules
//	POST   /v1/anneal        run the optimizer over inline modules
//	GET    /v1/runs          list saved runs, newest first (?limit=N)
//	GET    /v1/runs/{id}     fetch one saved run
//	DELETE /v1/runs/{id}     delete a saved run
//
// Request and response bodies are JSON. Errors are returned as
// {"code": "...", "message": "..."} with a status derived from the error code.
//
// Catalog files are never read on behalf of a client: requests must carry
// their modules inline.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floorplan/pkg/pipeline"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20

	// maxModules bounds the catalog size of every request.
	maxModules = 500

	// maxMovesPerModule and maxProbeMoves bound the work one /v1/anneal
	// request may ask for, well below the floorplan package limits.
	maxMovesPerModule = 1_000
	maxProbeMoves     = 10_000

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API backed by a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server. The runner's cache and store back every request.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/cost", s.handleCost)
		r.Post("/anneal", s.handleAnneal)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
