// Package http serves the hotspot map API: health and metrics endpoints, the
// hotspot list, stateless SVG renders and interactive map sessions over
// WebSocket.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
	"github.com/couchcryptid/hotspot-map-service/internal/mapview"
	"github.com/couchcryptid/hotspot-map-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// StatsSource supplies the current dashboard counters.
type StatsSource interface {
	Current() domain.DashboardStats
}

// Deps are the collaborators the API serves from.
type Deps struct {
	Ready      sharedobs.ReadinessChecker
	Hotspots   domain.HotspotProvider
	Stats      StatsSource
	Metrics    *observability.Metrics
	MapOptions mapview.Options
}

// Server exposes the health, metrics and map API routes.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewServer creates the HTTP server. See routes for the route table.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		deps:     deps,
		logger:   logger,
		sessions: make(map[*session]struct{}),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// Hijacked WebSocket connections are not tracked by Shutdown.
	s.httpServer.RegisterOnShutdown(s.closeSessions)
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline
// and closes open map sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) register(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	s.deps.Metrics.MapSessions.Inc()
}

func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	_, existed := s.sessions[sess]
	delete(s.sessions, sess)
	s.mu.Unlock()
	if existed {
		s.deps.Metrics.MapSessions.Dec()
	}
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		sess.close()
	}
}
