// Package web serves the workbench UI: a JSON API over the session
// operations, an SSE stream of live updates, and the embedded static
// frontend.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ritzau/circuit-workbench/pkg/logging"
	"github.com/ritzau/circuit-workbench/pkg/pubsub"
	"github.com/ritzau/circuit-workbench/pkg/session"
)

//go:embed static/*
var staticFiles embed.FS

// sessionHeader selects which session a request operates on. Requests
// without it use the default session.
const sessionHeader = "X-Workbench-Session"

// Server is the workbench web server.
type Server struct {
	router      *mux.Router
	sessions    *session.Manager
	publisher   *pubsub.SSEPublisher
	circuitFile string
}

// NewServer creates a server over the given session manager.
func NewServer(sessions *session.Manager) *Server {
	publisher := pubsub.NewSSEPublisher()

	// Late subscribers only need the current state, not history.
	publisher.ConfigureTopic(pubsub.TopicCircuit, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})
	publisher.ConfigureTopic(pubsub.TopicAnalysis, pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		sessions:  sessions,
		publisher: publisher,
	}
	s.setupRoutes()
	return s
}

// Sessions returns the server's session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// SetCircuitFile sets the path POST /api/circuit/save writes to.
func (s *Server) SetCircuitFile(path string) {
	s.circuitFile = path
}

// Start serves HTTP on the given port, blocking until the listener fails.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("web server listening", "addr", addr)
	return http.ListenAndServe(addr, logging.RequestIDMiddleware(s.router))
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// PublishCircuit emits a circuit-changed event for the session.
func (s *Server) PublishCircuit(sess *session.Session, eventType string) {
	components, connections := sess.Snapshot()
	err := s.publisher.Publish(pubsub.TopicCircuit, eventType, pubsub.CircuitStatus{
		Components:  len(components),
		Connections: len(connections),
	})
	if err != nil {
		logging.Warn("publishing circuit event", "type", eventType, "error", err)
	}
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/subscribe/circuit", s.handleSubscribe(pubsub.TopicCircuit)).Methods("GET")
	api.HandleFunc("/subscribe/analysis", s.handleSubscribe(pubsub.TopicAnalysis)).Methods("GET")

	api.HandleFunc("/catalog", s.handleCatalog).Methods("GET")
	api.HandleFunc("/circuit", s.handleCircuit).Methods("GET")
	api.HandleFunc("/circuit/netlist", s.handleNetlist).Methods("GET")
	api.HandleFunc("/circuit/save", s.handleSaveCircuit).Methods("POST")
	api.HandleFunc("/components", s.handleAddComponent).Methods("POST")
	api.HandleFunc("/components/{id}/params", s.handleUpdateParams).Methods("PUT")
	api.HandleFunc("/connections", s.handleAddConnection).Methods("POST")
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	api.HandleFunc("/analysis", s.handleAnalysis).Methods("GET")
	api.HandleFunc("/clear", s.handleClear).Methods("POST")
	api.HandleFunc("/export.csv", s.handleExportCSV).Methods("GET")

	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("embedded static files missing", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// Initial comment establishes the stream (Safari compatibility).
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.Debug("sse stream closed", "topic", topic, "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}
