// Package api exposes the question-answering pipeline over HTTP.
//
// A single endpoint, POST /query, accepts a question with an optional
// base64-encoded image attachment and returns the answer with source
// links. The server is permissive about cross-origin callers so course
// front-ends can talk to it directly.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driving"
	"github.com/campuskit/courseqa/internal/logger"
)

// Server wraps the query service in an HTTP server.
type Server struct {
	query    driving.QueryService
	server   *http.Server
	listener net.Listener
}

// queryRequest is the POST /query body.
type queryRequest struct {
	Question string `json:"question"`
	Image    string `json:"image,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates an HTTP server bound to addr.
func NewServer(addr string, query driving.QueryService) *Server {
	s := &Server{query: query}

	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      withCORS(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
	}
	return s
}

// Start begins listening. It returns once the listener is bound; the
// serve loop runs until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server: %v", err)
		}
	}()

	logger.Info("Listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address, useful when the port was 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Image payloads can be large; log only the question.
	logger.Debug("query: %q (image: %d bytes)", req.Question, len(req.Image))

	answer, err := s.query.Ask(r.Context(), req.Question, req.Image)
	if err != nil {
		var provErr *domain.ProviderError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "question must not be empty")
		case errors.As(err, &provErr):
			logger.Error("provider failure: %v", err)
			writeError(w, http.StatusBadGateway, "upstream model unavailable")
		default:
			logger.Error("query failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS allows any origin; the API serves public course content.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
