// Package server exposes the worker's small operational HTTP surface: a
// health endpoint that reports database reachability. The worker has no
// request-driven API; this exists for orchestrators and load balancers.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	readHeaderTimeout = 5 * time.Second
	healthPingTimeout = 2 * time.Second
)

// Pinger is the subset of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps the operational HTTP listener.
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// New builds the operational server on the given port.
func New(port int, db Pinger, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(db, logger))

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. A closed-server return is normal shutdown, not an error.
func (s *Server) Start() error {
	s.logger.Info("health server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// healthHandler reports 200 when the database answers a ping and 503
// otherwise. The worker is useless without its database, so database
// reachability is the liveness signal.
func healthHandler(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Database: "up"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check database ping failed", "error", err)
			resp = healthResponse{Status: "degraded", Database: "down"}
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// Compile-time check that *sql.DB satisfies Pinger.
var _ Pinger = (*sql.DB)(nil)
