package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docrag/internal/service"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Services aggregates the services the MCP tools call into.
type Services struct {
	Ingest service.IngestService
	Query  service.QueryService
}

// Validate ensures all required services are set.
func (s *Services) Validate() error {
	if s.Ingest == nil {
		return ErrMissingIngestService
	}
	if s.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}

// Server is the MCP server for docrag.
type Server struct {
	services *Services
	server   *mcp.Server
}

// NewServer creates a new MCP server backed by the given services.
func NewServer(services *Services) (*Server, error) {
	if err := services.Validate(); err != nil {
		return nil, fmt.Errorf("validating services: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "docrag",
		Version: Version,
	}

	s := &Server{
		services: services,
		server:   mcp.NewServer(impl, nil),
	}
	s.registerTools()

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
