// Package api serves a decoded grid file over a read-only REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

// Router builds the route tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/health", s.metrics.InstrumentHandler("GET", "/health", s.handleHealth))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/header", s.metrics.InstrumentHandler("GET", "/api/v1/header", s.handleHeader))
		r.Get("/subgrids", s.metrics.InstrumentHandler("GET", "/api/v1/subgrids", s.handleListSubGrids))
		r.Get("/subgrids/{name}", s.metrics.InstrumentHandler("GET", "/api/v1/subgrids/{name}", s.handleGetSubGrid))
		r.Get("/subgrids/{name}/shifts/{index}",
			s.metrics.InstrumentHandler("GET", "/api/v1/subgrids/{name}/shifts/{index}", s.handleGetShift))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, "Not found", http.StatusNotFound)
	})

	return r
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting grid API server", "addr", srv.Addr, "source", s.config.Source)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down grid API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}
