package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopsavvy/savvy-scrape/internal/search"
)

// Serve starts the MCP stdio server with all tools registered.
func Serve(orch *search.Orchestrator) error {
	s := server.NewMCPServer(
		"savvy-scrape",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, orch)

	return server.ServeStdio(s)
}
