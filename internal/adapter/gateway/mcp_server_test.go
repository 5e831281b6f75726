package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webresearch/internal/domain"
)

type stubTool struct {
	name string
	fn   func(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error)
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        s.name,
		Description: "stub",
		Parameters:  json.RawMessage(`{"type": "object"}`),
	}
}

func (s *stubTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return s.fn(ctx, params)
}

type stubExecutor struct {
	tools map[string]domain.Tool
}

func (e *stubExecutor) Get(name string) (domain.Tool, error) {
	t, ok := e.tools[name]
	if !ok {
		return nil, domain.NewDomainError("stubExecutor.Get", domain.ErrToolNotFound, name)
	}
	return t, nil
}

func (e *stubExecutor) Schemas() []domain.ToolSchema {
	out := make([]domain.ToolSchema, 0, len(e.tools))
	for _, t := range e.tools {
		out = append(out, t.Schema())
	}
	return out
}

func newTestServer(tools ...domain.Tool) *MCPServer {
	exec := &stubExecutor{tools: map[string]domain.Tool{}}
	for _, t := range tools {
		exec.tools[t.Name()] = t
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMCPServer("webresearch-test", "0.0.1", exec, logger)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("expected text content, got %T", res.Content[0])
		return ""
	}
}

func TestHandlerForwardsArgumentsAndResult(t *testing.T) {
	var gotParams json.RawMessage
	tool := &stubTool{
		name: "echo",
		fn: func(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
			gotParams = params
			return &domain.ToolResult{Content: "echoed"}, nil
		},
	}
	g := newTestServer(tool)

	res, err := g.makeHandler("echo")(context.Background(),
		callRequest(map[string]any{"message": "hi"}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, "echoed", textContent(t, res))
	assert.JSONEq(t, `{"message": "hi"}`, string(gotParams))
}

func TestHandlerMapsToolErrorToMCPError(t *testing.T) {
	tool := &stubTool{
		name: "broken",
		fn: func(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
			return &domain.ToolResult{Content: "non-HTML content type: application/pdf", IsError: true}, nil
		},
	}
	g := newTestServer(tool)

	res, err := g.makeHandler("broken")(context.Background(), callRequest(nil))
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Contains(t, textContent(t, res), "non-HTML")
}

func TestHandlerExecutionFailureStaysInBand(t *testing.T) {
	tool := &stubTool{
		name: "flaky",
		fn: func(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
			return nil, fmt.Errorf("internal failure")
		},
	}
	g := newTestServer(tool)

	res, err := g.makeHandler("flaky")(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandlerUnknownToolIsHardError(t *testing.T) {
	g := newTestServer()

	_, err := g.makeHandler("ghost")(context.Background(), callRequest(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}
