// ABOUTME: MCP server setup for the BMI history store.
// ABOUTME: Wraps the MCP server around a history.Store shared with the CLI.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bmi/internal/history"
	"github.com/harperreed/bmi/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with history access.
type Server struct {
	mcpServer *mcp.Server
	store     *history.Store
	log       *log.Logger
}

// NewServer creates a new MCP server over the given store.
func NewServer(store *history.Store, logger *log.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("mcp: nil history store")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "bmi",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		log:       logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server listening on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// records reloads the listing so writes from other bmi processes are visible.
func (s *Server) records(ctx context.Context) ([]models.Record, error) {
	if err := s.store.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return s.store.Snapshot(), nil
}
