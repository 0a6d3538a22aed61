// Package service assembles the MCP server that exposes the scene tool
// surface to language agents over stdio.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/scenesync/internal/mcp/domain"
	"github.com/louisbranch/scenesync/internal/scene"
)

const (
	serverName    = "scenesync"
	serverVersion = "0.1.0"
)

// Server hosts the scene MCP tool surface.
type Server struct {
	mcpServer *mcp.Server
}

// New builds an MCP server over the given store and mutator. The store
// serves the query tools; the mutator routes mutation intents through the
// session so they reach the authority.
func New(store *scene.Store, mutator domain.Mutator) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("scene store is required")
	}
	if mutator == nil {
		return nil, fmt.Errorf("scene mutator is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, domain.SceneEntityGetTool(), domain.SceneEntityGetHandler(store))
	mcp.AddTool(mcpServer, domain.SceneSearchTool(), domain.SceneSearchHandler(store))
	mcp.AddTool(mcpServer, domain.SceneCategorySearchTool(), domain.SceneCategorySearchHandler(store))
	mcp.AddTool(mcpServer, domain.SceneNearbyTool(), domain.SceneNearbyHandler(store))
	mcp.AddTool(mcpServer, domain.SceneMovableListTool(), domain.SceneMovableListHandler(store))
	mcp.AddTool(mcpServer, domain.SceneRelationsTool(), domain.SceneRelationsHandler(store))
	mcp.AddTool(mcpServer, domain.ObjectMoveTool(), domain.ObjectMoveHandler(mutator))
	mcp.AddTool(mcpServer, domain.ObjectRotateTool(), domain.ObjectRotateHandler(mutator))
	mcp.AddTool(mcpServer, domain.ObjectAddTool(), domain.ObjectAddHandler(mutator))
	mcp.AddTool(mcpServer, domain.ObjectRemoveTool(), domain.ObjectRemoveHandler(mutator))

	return &Server{mcpServer: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("mcp server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run mcp server: %w", err)
	}
	return nil
}
