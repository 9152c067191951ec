// Package api exposes the engine over HTTP for local tooling and
// dashboards. It speaks the same JSON envelopes as the C boundary;
// engine error codes are additionally mapped onto HTTP status codes.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
)

// Engine is the call surface the facade forwards to.
type Engine interface {
	List() (*netif.ListResponse, *netif.Error)
	Apply(req *netif.ApplyRequest) (*netif.ApplyResponse, *netif.Error)
}

// Server represents the API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	engine     Engine
}

// NewServer creates a new API server around an engine.
func NewServer(engine Engine, bindAddr string) *Server {
	s := &Server{
		engine: engine,
		router: chi.NewRouter(),
	}

	// Setup middleware
	s.router.Use(RecoveryMiddleware)
	s.router.Use(LoggingMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(ContentTypeMiddleware)

	// Setup routes
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         bindAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/abi", s.handleABI)
		r.Get("/interfaces", s.handleList)
		r.Post("/interfaces/apply", s.handleApply)
	})

	// Health check endpoint at root
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server and blocks until shutdown.
func (s *Server) Start() error {
	log.Infof("[API] Starting ifbridge API server")
	log.Infof("[API] Bind address: %s", s.httpServer.Addr)
	log.Infof("[API] Example: curl http://%s/api/v1/interfaces", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the API server.
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
