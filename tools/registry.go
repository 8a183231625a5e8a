// Package tools provides tool management and registration.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Catalog ordering hidden behind List
// - Default tool wiring hidden behind WithDefaults

package tools

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/richinex/multimodel/fsmap"
	"github.com/richinex/multimodel/llm"
	"github.com/richinex/multimodel/logging"
	"github.com/richinex/multimodel/storage"
)

// Registry manages available tools. Tools are listed in registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a tool exists in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// List returns metadata for all registered tools in registration order.
func (r *Registry) List() []ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]ToolMetadata, 0, len(r.order))
	for _, name := range r.order {
		metadata = append(metadata, r.tools[name].Metadata())
	}
	return metadata
}

// Dependencies are the shared components the default tools operate on.
type Dependencies struct {
	Providers  *llm.Registry
	Context    *storage.ContextStore
	Enumerator *fsmap.Enumerator
	Logger     *slog.Logger
}

// WithDefaults creates a registry holding the full tool catalog.
// Returns error if any tool registration fails.
func WithDefaults(deps Dependencies) (*Registry, error) {
	if deps.Providers == nil {
		return nil, fmt.Errorf("tools: provider registry is required")
	}
	if deps.Context == nil {
		deps.Context = storage.NewContextStore()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Enumerator == nil {
		deps.Enumerator = fsmap.New(fsmap.WithLogger(deps.Logger))
	}

	registry := NewRegistry()

	tools := []Tool{
		NewGenerateCodeTool(deps.Providers),
		NewReviewCodeTool(deps.Providers),
		NewSwitchModelTool(deps.Providers, deps.Logger),
		NewListModelsTool(deps.Providers),
		NewAddContextTool(deps.Context),
		NewGetContextTool(deps.Context),
		NewClearContextTool(deps.Context),
		NewLocalMapTool(deps.Enumerator),
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}

	return registry, nil
}
