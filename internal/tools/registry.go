package tools

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrDuplicateTool is returned when registering a name twice.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool is returned when looking up an unregistered name.
	// The orchestrator treats this as "no tool selected" rather than a
	// failure; models occasionally invent tool names.
	ErrUnknownTool = errors.New("unknown tool")
)

// Registry manages the tools available to the assistant.
// Registration order is preserved so the model-facing listing is stable.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
// Returns ErrDuplicateTool if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Lookup retrieves a tool by name.
// Returns ErrUnknownTool if the name is not registered.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return tool, nil
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Describe renders the "name: description" listing embedded in the
// tool-selection prompt, one tool per line in registration order.
func (r *Registry) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]string, 0, len(r.order))
	for _, name := range r.order {
		lines = append(lines, fmt.Sprintf("%s: %s", name, r.tools[name].Description()))
	}
	return strings.Join(lines, "\n")
}
