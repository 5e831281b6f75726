package tool

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"webresearch/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTool is a minimal Tool for registry tests.
type fakeTool struct {
	name   string
	schema json.RawMessage
	fn     func(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error)
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake tool" }
func (f *fakeTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{Name: f.name, Description: "fake tool", Parameters: f.schema}
}

func (f *fakeTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	if f.fn != nil {
		return f.fn(ctx, params)
	}
	return &domain.ToolResult{Content: "ok"}, nil
}

func TestRegistryGetUnknownTool(t *testing.T) {
	r := NewRegistry(testLogger())

	_, err := r.Get("nope")
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Register(&fakeTool{name: "alpha"})

	got, err := r.Get("alpha")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != "alpha" {
		t.Errorf("expected alpha, got %s", got.Name())
	}
}

func TestRegistrySchemasSorted(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Register(&fakeTool{name: "zeta"})
	r.Register(&fakeTool{name: "alpha"})

	schemas := r.Schemas()
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
	if schemas[0].Name != "alpha" || schemas[1].Name != "zeta" {
		t.Errorf("schemas not sorted by name: %s, %s", schemas[0].Name, schemas[1].Name)
	}
}

func TestRegistryWrapsWithSchemaValidation(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Register(&fakeTool{
		name: "strict",
		schema: json.RawMessage(`{
			"type": "object",
			"properties": {"n": {"type": "integer"}},
			"required": ["n"]
		}`),
	})

	tl, err := r.Get("strict")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	res, err := tl.Execute(context.Background(), json.RawMessage(`{"n": "not an int"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.IsError {
		t.Error("expected schema validation to reject bad params")
	}

	res, err = tl.Execute(context.Background(), json.RawMessage(`{"n": 3}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Errorf("expected valid params to pass, got error: %s", res.Content)
	}
}
