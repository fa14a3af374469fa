// Package server exposes the interview engine over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/memora/internal/intake"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/store"
)

// Server is the memora HTTP API server.
type Server struct {
	db      *store.DB
	svc     *interview.Service
	intake  *intake.Pipeline
	router  chi.Router
	version string
	started time.Time
}

// New creates a Server. The intake pipeline is optional: when nil the
// memory submission routes answer 503.
func New(db *store.DB, svc *interview.Service, pipeline *intake.Pipeline, version string) *Server {
	s := &Server{
		db:      db,
		svc:     svc,
		intake:  pipeline,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/question", s.handleNextQuestion)
			r.Post("/answer", s.handleAnswer)
			r.Post("/skip", s.handleSkip)
			r.Post("/shuffle", s.handleShuffle)
			r.Post("/memories", s.handleSubmitMemory)
			r.Get("/progress", s.handleProgress)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
