// Package api provides the HTTP server for Bitewise: meal logging,
// day close-out, achievement queries, and the admin seed endpoint.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitewise-app/bitewise/internal/app/nutrition"
	"github.com/bitewise-app/bitewise/internal/domain"
	"github.com/bitewise-app/bitewise/internal/health"
	"github.com/bitewise-app/bitewise/internal/infra/sqlite"
)

// Version is the reported server version.
const Version = "0.1.0"

// Server is the Bitewise HTTP API server.
type Server struct {
	nutrition      *nutrition.Service
	store          *sqlite.DB
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(svc *nutrition.Service, store *sqlite.DB) *Server {
	return &Server{nutrition: svc, store: store}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker attaches the health checker backing /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}", s.handleGetUser)
		r.Get("/users/{id}/summary", s.handleSummary)
		r.Get("/users/{id}/achievements", s.handleUserAchievements)
		r.Get("/users/{id}/notifications", s.handleNotifications)
		r.Post("/users/{id}/days/{day}/complete", s.handleCompleteDay)

		r.Post("/meals", s.handleLogMeal)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)

		r.Get("/achievements", s.handleListAchievements)
		r.Post("/admin/seed", s.handleSeed)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := http.StatusOK
	if !s.checker.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"healthy": s.checker.IsHealthy(),
		"checks":  s.checker.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps sentinel domain errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrMealNotFound),
		errors.Is(err, domain.ErrDefinitionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProfileExists), errors.Is(err, domain.ErrDefinitionExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNothingToLog):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrAnalyzerUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for the mobile client's dev server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
