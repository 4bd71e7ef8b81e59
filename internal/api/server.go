// Package api exposes the corpus repository over HTTP: submit a
// fingerprint, search for near-duplicates, and a health probe.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JustinTDCT/pifindex/internal/auth"
	"github.com/JustinTDCT/pifindex/internal/repository"
)

// Server wires the corpus repository to a chi router.
type Server struct {
	router chi.Router
	repo   *repository.Repository
}

// NewServer builds a Server and registers every route.
func NewServer(repo *repository.Repository, authMW *auth.Middleware) *Server {
	s := &Server{repo: repo}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/v1/healthz", s.healthz)

	r.Route("/api/v1/hashes", func(r chi.Router) {
		r.Use(authMW.RequireKey)
		r.Post("/", s.submitHash)
		r.Get("/search", s.searchHashes)
	})

	s.router = r
	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
