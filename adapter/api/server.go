// Package api provides the HTTP surface for availability and bookings.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// Server is the HTTP API server.
type Server struct {
	mux          *http.ServeMux
	server       *http.Server
	logger       *slog.Logger
	availability *AvailabilityHandler
	bookings     *BookingHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, availability *AvailabilityHandler, bookings *BookingHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:          mux,
		logger:       logger,
		availability: availability,
		bookings:     bookings,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Artist-facing availability surface
	s.mux.HandleFunc("GET /api/v1/artists/{artistID}/availability", s.availability.GetAvailability)
	s.mux.HandleFunc("PUT /api/v1/artists/{artistID}/availability/{date}", s.availability.SetAvailability)
	s.mux.HandleFunc("DELETE /api/v1/artists/{artistID}/availability/{date}", s.availability.ClearAvailability)
	s.mux.HandleFunc("GET /api/v1/artists/{artistID}/blocks", s.availability.ListBlocks)
	s.mux.HandleFunc("POST /api/v1/artists/{artistID}/blocks", s.availability.CreateBlock)
	s.mux.HandleFunc("DELETE /api/v1/artists/{artistID}/blocks/{blockID}", s.availability.DeleteBlock)
	s.mux.HandleFunc("GET /api/v1/artists/{artistID}/blocked-ranges", s.availability.GetBlockedRanges)
	s.mux.HandleFunc("POST /api/v1/artists/{artistID}/calendar/import", s.availability.ImportCalendar)
	s.mux.HandleFunc("GET /api/v1/artists/{artistID}/calendar.ics", s.availability.ExportICal)

	// Venue-facing booking surface
	s.mux.HandleFunc("POST /api/v1/bookings", s.bookings.CreateBooking)
	s.mux.HandleFunc("GET /api/v1/bookings", s.bookings.ListBookings)
	s.mux.HandleFunc("GET /api/v1/bookings/{bookingID}", s.bookings.GetBooking)
	s.mux.HandleFunc("PATCH /api/v1/bookings/{bookingID}/status", s.bookings.UpdateStatus)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeDomainError maps domain error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case sharedDomain.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case sharedDomain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case sharedDomain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
