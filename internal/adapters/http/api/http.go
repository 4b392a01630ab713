// Package api serves the diagnostics endpoints of the viewer.
package api

import (
	"context"
	"net/http"
)

// Server wires HTTP routes for the diagnostics API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	snapshotHandler *SnapshotHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(snapshots SnapshotDependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		snapshotHandler: NewSnapshotHandler(snapshots),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshot", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
}
