package agent

import (
	"fmt"
	"sync"
)

// Registry holds the tools available to a demo agent and dispatches
// tool calls to their handlers. Registration order is preserved so the
// session configuration lists tools the way the demo declared them.
type Registry struct {
	mu    sync.RWMutex
	tools []Tool
	index map[string]int
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register adds tools to the registry. Re-registering a name replaces
// the earlier tool in place.
func (r *Registry) Register(tools ...Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range tools {
		if i, ok := r.index[tool.Name]; ok {
			r.tools[i] = tool
			continue
		}
		r.index[tool.Name] = len(r.tools)
		r.tools = append(r.tools, tool)
	}
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Dispatch executes the handler for a tool call and returns its result.
// Unknown tools and handler panics come back as ToolResult errors, never
// as panics: a bad model-side call must not take down the session loop.
func (r *Registry) Dispatch(call ToolCall) (res ToolResult) {
	res.CallID = call.ID

	tool, ok := r.Get(call.Name)
	if !ok {
		res.Error = fmt.Errorf("%w: %q", ErrToolNotFound, call.Name)
		return res
	}
	if tool.Handler == nil {
		res.Error = fmt.Errorf("%w: %q", ErrNilHandler, call.Name)
		return res
	}

	defer func() {
		if rec := recover(); rec != nil {
			res.Error = fmt.Errorf("agent: tool %q panicked: %v", call.Name, rec)
		}
	}()

	result, err := tool.Handler(call.Arguments)
	res.Result = result
	res.Error = err
	return res
}
