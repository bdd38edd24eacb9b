// Package httpapi wires the HTTP surface of the loanbook service.
// Handlers stay thin: validation here, business rules in the book service.
package httpapi

import (
	"context"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"log/slog"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	book Book
	rt   *chi.Mux
	log  *slog.Logger
	// now supplies "today" for schedule derivation; injectable for tests.
	now func() time.Time
}

// Options tunes optional server behavior.
type Options struct {
	// JWTSecret enables HS256 bearer authentication when non-empty. Without
	// it the X-Owner-ID header names the actor (dev and tests).
	JWTSecret string
	// Ready is consulted by the readiness endpoint when set.
	Ready ReadyChecker
	// Now overrides the clock.
	Now func() time.Time
}

// New constructs the HTTP server with routes and middleware.
func New(bk Book, logger *slog.Logger, opts Options) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{book: bk, rt: r, log: logger, now: opts.Now}
	if s.now == nil {
		s.now = time.Now
	}
	s.routes(opts)
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the endpoints and attaches the auth gate to the API surface.
func (s *Server) routes(opts Options) {
	s.rt.Route("/v1", func(r chi.Router) {
		r.Use(requireOwner(opts.JWTSecret))
		r.Get("/loans", s.listLoans)
		r.Post("/loans", s.postLoan)
		r.Patch("/loans/{id}", s.patchLoan)
		r.Post("/loans/{id}/payments", s.postPayment)
		r.Post("/loans/{id}/close", s.closeLoan)
		r.Delete("/loans", s.deleteLoans)
		r.Get("/warnings", s.listWarnings)
	})
	// Health and metrics (unversioned, unauthenticated)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz(opts.Ready))
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func (s *Server) readyz(ready ReadyChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
			defer cancel()
			if err := ready.Ready(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
