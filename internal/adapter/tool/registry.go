package tool

import (
	"log/slog"
	"sort"
	"sync"

	"webresearch/internal/domain"
)

// Registry holds the tools the server exposes. Registration wraps each
// tool with JSON Schema validation so handlers only ever see parameters
// that already passed their declared schema.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]domain.Tool
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]domain.Tool),
		logger: logger,
	}
}

// Register adds a tool, replacing any previous registration under the
// same name.
func (r *Registry) Register(t domain.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wrapped, err := WithSchemaValidation(t)
	if err != nil {
		// A schema that does not compile is a programming error in the
		// tool itself; register the bare tool and log loudly.
		r.logger.Error("tool schema does not compile, registering without validation",
			"tool", t.Name(), "error", err)
		wrapped = t
	}
	r.tools[t.Name()] = wrapped
	r.logger.Debug("registered tool", "tool", t.Name())
}

// Get returns the named tool, or domain.ErrToolNotFound wrapped with
// the requested name.
func (r *Registry) Get(name string) (domain.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, domain.NewDomainError("registry.Get", domain.ErrToolNotFound, name)
	}
	return t, nil
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Schemas returns the schemas of all registered tools sorted by name.
func (r *Registry) Schemas() []domain.ToolSchema {
	tools := r.List()
	out := make([]domain.ToolSchema, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Schema())
	}
	return out
}
