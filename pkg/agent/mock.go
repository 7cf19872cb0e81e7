package agent

import (
	"context"
	"sync"
)

// MockSession is a Session implementation for tests and offline demos.
// It records everything submitted to it and lets the caller simulate
// service-side events (tool calls, transcripts, errors).
type MockSession struct {
	mu sync.RWMutex

	// State
	connected bool
	tools     []Tool
	opts      SessionOptions

	// Callbacks
	onToolCall   func(call ToolCall)
	onTranscript func(role, text string, isFinal bool)
	onError      func(err error)

	// Recorded interactions
	submitted []ToolResult

	// Configurable behavior
	ConnectFunc          func(ctx context.Context) error
	CloseFunc            func() error
	ConfigureSessionFunc func(opts SessionOptions) error
	SubmitToolResultFunc func(callID, result string) error
}

// NewMockSession creates a new mock session.
func NewMockSession() *MockSession {
	return &MockSession{}
}

// Connect marks the session connected.
func (m *MockSession) Connect(ctx context.Context) error {
	if m.ConnectFunc != nil {
		if err := m.ConnectFunc(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		return ErrAlreadyConnected
	}
	m.connected = true
	return nil
}

// Close marks the session disconnected.
func (m *MockSession) Close() error {
	if m.CloseFunc != nil {
		if err := m.CloseFunc(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected returns the connection state.
func (m *MockSession) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// ConfigureSession stores the session options.
func (m *MockSession) ConfigureSession(opts SessionOptions) error {
	if m.ConfigureSessionFunc != nil {
		if err := m.ConfigureSessionFunc(opts); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
	if len(opts.Tools) > 0 {
		m.tools = append(m.tools, opts.Tools...)
	}
	return nil
}

// RegisterTool records a registered tool.
func (m *MockSession) RegisterTool(tool Tool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools = append(m.tools, tool)
}

// SubmitToolResult records a tool result.
func (m *MockSession) SubmitToolResult(callID, result string) error {
	if m.SubmitToolResultFunc != nil {
		if err := m.SubmitToolResultFunc(callID, result); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return ErrNotConnected
	}
	m.submitted = append(m.submitted, ToolResult{CallID: callID, Result: result})
	return nil
}

// OnToolCall sets the tool call callback.
func (m *MockSession) OnToolCall(fn func(call ToolCall)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onToolCall = fn
}

// OnTranscript sets the transcript callback.
func (m *MockSession) OnTranscript(fn func(role, text string, isFinal bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTranscript = fn
}

// OnError sets the error callback.
func (m *MockSession) OnError(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// Test helpers: simulate service-side events.

// TriggerToolCall simulates the model invoking a tool.
func (m *MockSession) TriggerToolCall(id, name string, args map[string]any) {
	m.mu.RLock()
	fn := m.onToolCall
	m.mu.RUnlock()

	if fn != nil {
		fn(ToolCall{ID: id, Name: name, Arguments: args})
	}
}

// TriggerTranscript simulates a transcript event.
func (m *MockSession) TriggerTranscript(role, text string, isFinal bool) {
	m.mu.RLock()
	fn := m.onTranscript
	m.mu.RUnlock()

	if fn != nil {
		fn(role, text, isFinal)
	}
}

// TriggerError simulates a service error.
func (m *MockSession) TriggerError(err error) {
	m.mu.RLock()
	fn := m.onError
	m.mu.RUnlock()

	if fn != nil {
		fn(err)
	}
}

// Inspection helpers.

// Tools returns the registered tools.
func (m *MockSession) Tools() []Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Tool, len(m.tools))
	copy(out, m.tools)
	return out
}

// Options returns the configured session options.
func (m *MockSession) Options() SessionOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// SubmittedResults returns everything passed to SubmitToolResult.
func (m *MockSession) SubmittedResults() []ToolResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ToolResult, len(m.submitted))
	copy(out, m.submitted)
	return out
}

// Ensure MockSession implements Session.
var _ Session = (*MockSession)(nil)
