// Package tool implements the research tools exposed over MCP and the
// shared plumbing they run on: registry, schema validation, parameter
// decoding, and the search backends.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"webresearch/internal/domain"
	"webresearch/internal/infra/tracer"
)

// Execute wraps a tool handler with the shared cross-cutting concerns:
// parameter decoding, span creation, error recording, and result
// formatting. P is the tool's parameter struct.
func Execute[P any](
	ctx context.Context,
	spanName string,
	logger *slog.Logger,
	rawParams json.RawMessage,
	handler func(ctx context.Context, span trace.Span, params P) (any, error),
) (*domain.ToolResult, error) {
	ctx, span := tracer.StartSpan(ctx, spanName)
	defer span.End()

	var params P
	if len(rawParams) > 0 {
		if err := json.Unmarshal(rawParams, &params); err != nil {
			tracer.RecordError(span, err)
			return ErrResult(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
	}

	out, err := handler(ctx, span, params)
	if err != nil {
		tracer.RecordError(span, err)
		logger.Warn("tool execution failed", "tool", spanName, "error", err)
		return ErrResult(err.Error()), nil
	}

	tracer.SetOK(span)
	return formatResult(out)
}

// formatResult renders a handler's return value as a tool result.
// Strings pass through verbatim; everything else is marshaled as JSON.
func formatResult(out any) (*domain.ToolResult, error) {
	switch v := out.(type) {
	case string:
		return &domain.ToolResult{Content: v}, nil
	case nil:
		return &domain.ToolResult{Content: ""}, nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, domain.WrapOp("tool.formatResult", err)
		}
		return &domain.ToolResult{Content: string(data)}, nil
	}
}

// ErrResult builds a tool-level error result. The error travels inside
// the result so the caller can surface it per invocation instead of
// failing the whole session.
func ErrResult(msg string) *domain.ToolResult {
	return &domain.ToolResult{Content: msg, IsError: true}
}
