// Package mcp provides an MCP (Model Context Protocol) server adapter
// for courseqa. It lets AI assistants query the course knowledge base
// as a tool.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/campuskit/courseqa/internal/core/ports/driving"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ErrMissingQueryService is returned when no query service is provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// Server is the MCP server for courseqa.
type Server struct {
	query  driving.QueryService
	server *mcp.Server
}

// NewServer creates a new MCP server backed by the query service.
func NewServer(query driving.QueryService) (*Server, error) {
	if query == nil {
		return nil, ErrMissingQueryService
	}

	impl := &mcp.Implementation{
		Name:    "courseqa",
		Version: Version,
	}

	s := &Server{
		query:  query,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			_ = err
		}
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
