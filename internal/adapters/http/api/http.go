// Package api declares the backend's HTTP contracts and route registration.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
)

// Response copy, matching what the dashboard expects.
const (
	msgSubmitted   = "Data submitted successfully"
	msgSubmitError = "Error submitting data"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Submit classifies and stores one observation.
	Submit(ctx context.Context, s model.Submission) (model.Record, error)
	// Records lists stored observations, newest first.
	Records(ctx context.Context) ([]model.Record, error)
}

// Server wires HTTP routes for the backend API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	submitHandler *SubmitHandler
	dataHandler   *DataHandler

	allowedOrigins []string
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origin allow-list. Empty means any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		submitHandler:  NewSubmitHandler(deps),
		dataHandler:    NewDataHandler(deps),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.submitHandler.logger = s.logger
	s.dataHandler.logger = s.logger
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submit", MetricsMiddleware(s.submitHandler.HandleSubmit, "submit"))
	mux.HandleFunc("/data", MetricsMiddleware(s.dataHandler.HandleData, "data"))
}

// Handler wraps h with CORS and request logging. Use it around the mux
// the routes were registered on.
func (s *Server) Handler(h http.Handler) http.Handler {
	return NewCORS(s.allowedOrigins).Handler(RequestLogger(h, s.logger))
}

// submitResponse mirrors the OpenAPI schema for POST /submit.
type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Risk    string `json:"risk,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSubmitError(w http.ResponseWriter, status int) {
	writeJSON(w, status, submitResponse{Success: false, Message: msgSubmitError})
}

// allowMethods answers OPTIONS with 204 and rejects other methods not in allowed.
// It reports whether the handler should continue.
func allowMethods(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return false
	}
	for _, m := range allowed {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(append(allowed, http.MethodOptions), ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}
