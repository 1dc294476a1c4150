package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server is the dashboard HTTP server.
type Server struct {
	httpServer  *http.Server
	router      *mux.Router
	hub         *Hub
	projectsDir string
	startTime   time.Time
}

// NewServer creates a dashboard server that discovers projects under
// projectsDir and serves merge/conflict/audit operations.
func NewServer(projectsDir string, port int) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		hub:         NewHub(),
		projectsDir: projectsDir,
		startTime:   time.Now(),
	}

	s.routes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
	}
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/projects", s.handleGetProjects).Methods("GET")
	api.HandleFunc("/strategies", s.handleGetStrategies).Methods("GET")
	api.HandleFunc("/merge", s.handleMerge).Methods("POST")
	api.HandleFunc("/conflicts", s.handleConflicts).Methods("POST")
	api.HandleFunc("/audit", s.handleAudit).Methods("POST")
	api.HandleFunc("/events", s.handleEvents).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or closes.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
