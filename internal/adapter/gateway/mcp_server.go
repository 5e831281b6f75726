// Package gateway exposes the registered tools over the Model Context
// Protocol. The server speaks MCP over stdio, which is why all logging
// in this program goes to stderr.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"webresearch/internal/domain"
)

// MCPServer bridges the tool registry onto an MCP stdio server.
type MCPServer struct {
	srv      *server.MCPServer
	executor domain.ToolExecutor
	logger   *slog.Logger
}

// NewMCPServer builds an MCP server exposing every tool the executor
// knows about. Tool schemas are passed through raw so the JSON Schema
// the client sees is exactly the one the registry validates against.
func NewMCPServer(name, version string, executor domain.ToolExecutor, logger *slog.Logger) *MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	g := &MCPServer{
		srv:      s,
		executor: executor,
		logger:   logger,
	}

	for _, schema := range executor.Schemas() {
		tool := mcp.NewToolWithRawSchema(schema.Name, schema.Description, schema.Parameters)
		s.AddTool(tool, g.makeHandler(schema.Name))
		logger.Debug("exposed tool over MCP", "tool", schema.Name)
	}

	return g
}

// makeHandler adapts one registry tool to an MCP tool handler.
func (g *MCPServer) makeHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t, err := g.executor.Get(name)
		if err != nil {
			// Reaching here means the MCP client called a tool the
			// registry never advertised; that is a protocol error, not
			// a per-item failure.
			return nil, fmt.Errorf("unknown tool %q: %w", name, err)
		}

		params, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode arguments: %v", err)), nil
		}

		res, err := t.Execute(ctx, params)
		if err != nil {
			g.logger.Error("tool execution error", "tool", name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		if res.IsError {
			return mcp.NewToolResultError(res.Content), nil
		}
		return mcp.NewToolResultText(res.Content), nil
	}
}

// ServeStdio runs the MCP server over stdin/stdout until the client
// disconnects or ctx is cancelled.
func (g *MCPServer) ServeStdio(ctx context.Context) error {
	g.logger.Info("serving MCP over stdio")
	stdio := server.NewStdioServer(g.srv)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// Underlying returns the wrapped mcp-go server, used by tests to drive
// requests without a stdio transport.
func (g *MCPServer) Underlying() *server.MCPServer {
	return g.srv
}
