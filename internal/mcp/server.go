// ABOUTME: MCP server setup for the health assistant.
// ABOUTME: Wraps the MCP server around the health service and one session identity.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with service access.
type Server struct {
	mcpServer *mcp.Server
	svc       *health.Service
	session   *session.Session
}

// NewServer creates a new MCP server acting as the user held by sess.
func NewServer(svc *health.Service, sess *session.Session) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("health service is required")
	}
	if sess == nil || !sess.Authenticated() {
		return nil, fmt.Errorf("an authenticated session is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthai",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		session:   sess,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// user returns the session identity.
func (s *Server) user() (*models.User, error) {
	u, ok := s.session.Current()
	if !ok {
		return nil, fmt.Errorf("session is no longer authenticated")
	}
	return u, nil
}
