// Package api provides HTTP handlers and the main API server logic for
// MindHaven.
//
// It exposes RESTful endpoints for guided sessions, generated exercises,
// emergency contacts, and the risk-evaluated chat path. The API integrates
// with the flow, genai, escalation, and store modules.
package api

import (
	"log/slog"
	"net/http"
)

// DefaultAddr is the default API listen address.
const DefaultAddr = ":8080"

// Server wires the HTTP surface to the core modules.
type Server struct {
	manager      SessionManager
	genaiClient  GenAIClient
	orchestrator Escalator
	contacts     ContactRegistry
	addr         string
}

// NewServer creates an API server with its dependencies.
func NewServer(manager SessionManager, genaiClient GenAIClient, orchestrator Escalator, contacts ContactRegistry, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		manager:      manager,
		genaiClient:  genaiClient,
		orchestrator: orchestrator,
		contacts:     contacts,
		addr:         addr,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.startSessionHandler)
	mux.HandleFunc("GET /sessions", s.listSessionsHandler)
	mux.HandleFunc("GET /sessions/{id}", s.getSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/messages", s.advanceSessionHandler)
	mux.HandleFunc("GET /sessions/{id}/exercises", s.getExercisesHandler)
	mux.HandleFunc("POST /sessions/{id}/exercises/{exerciseID}/toggle", s.toggleExerciseHandler)
	mux.HandleFunc("POST /chat", s.chatHandler)
	mux.HandleFunc("POST /contacts", s.addContactHandler)
	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("API server listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}
