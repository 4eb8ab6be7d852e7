package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the chapter card search tools.
type Server struct {
	snapshot []cards.Card
	recorder analytics.Recorder
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over snapshot. A nil recorder discards
// search analytics.
func NewServer(snapshot []cards.Card, recorder analytics.Recorder) *Server {
	if recorder == nil {
		recorder = analytics.Nop{}
	}
	s := &Server{
		snapshot: snapshot,
		recorder: recorder,
	}

	s.mcp = server.NewMCPServer(
		"docsearch",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCardsTool, s.handleSearchCards)
	s.mcp.AddTool(listCardsTool, s.handleListCards)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
