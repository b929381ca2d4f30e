// Package mcp exposes the SQLite service over the Model Context
// Protocol, so MCP-capable assistants can query and mutate the database
// through declared tools instead of raw driver access.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Store is the database surface the MCP tools require.
type Store interface {
	Query(ctx context.Context, stmt Statement) ([]map[string]any, error)
	Execute(ctx context.Context, stmt Statement) (ExecSummary, error)
}

// Statement is a raw SQL statement with named text parameters.
type Statement struct {
	SQL    string
	Params map[string]string
}

// ExecSummary reports a mutation outcome.
type ExecSummary struct {
	RowsAffected int64
	LastInsertID int64
}

// Server is the MCP server for runar-sqlite.
type Server struct {
	store  Store
	server *mcp.Server
}

// NewServer creates an MCP server backed by the store.
func NewServer(store Store) (*Server, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}

	impl := &mcp.Implementation{
		Name:    "runar-sqlite",
		Version: Version,
	}

	s := &Server{
		store:  store,
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

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
		}
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
