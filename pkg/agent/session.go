package agent

import (
	"context"
)

// ConnectionState represents the session connection state.
type ConnectionState int

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected ConnectionState = iota
	// StateConnecting indicates connection is being established.
	StateConnecting
	// StateConnected indicates an active connection.
	StateConnected
)

// String returns a human-readable connection state.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Session is the interface to a live conversation with the hosted
// voice-agent service. Implementations handle the control-plane
// connection; media never crosses this boundary.
type Session interface {
	// Connect establishes the connection to the conversation service.
	// Call this after setting up event handlers.
	Connect(ctx context.Context) error

	// Close gracefully shuts down the connection and releases resources.
	Close() error

	// IsConnected returns true if the session has an active connection.
	IsConnected() bool

	// ConfigureSession configures the conversation session.
	// Call this before Connect.
	ConfigureSession(opts SessionOptions) error

	// RegisterTool adds a tool that the model can invoke.
	// Must be called before Connect.
	RegisterTool(tool Tool)

	// SubmitToolResult returns a tool call result to the model.
	SubmitToolResult(callID, result string) error

	// OnToolCall sets the callback for tool invocations.
	// Call SubmitToolResult with the call ID to return the result.
	OnToolCall(fn func(call ToolCall))

	// OnTranscript is called with transcribed turns.
	// role is "user" or "agent", isFinal indicates a completed turn.
	OnTranscript(fn func(role, text string, isFinal bool))

	// OnError is called when an error occurs.
	OnError(fn func(err error))
}

// SessionOptions configures a conversation session.
type SessionOptions struct {
	// SystemPrompt is the persona instruction for the agent.
	SystemPrompt string

	// Voice is the voice ID or name to use for TTS.
	Voice string

	// Language is the language code (e.g., "en", "es").
	Language string

	// Temperature controls randomness in responses (0.0-1.0).
	Temperature float64

	// MaxResponseTokens limits the response length.
	MaxResponseTokens int

	// TurnDetection configures voice activity detection.
	TurnDetection *TurnDetection

	// Tools is the list of tools available to the agent.
	Tools []Tool
}

// TurnDetection configures voice activity detection for turn-taking.
type TurnDetection struct {
	// Type is the detection type: "server_vad" or "none".
	Type string

	// Threshold is the VAD threshold (0.0-1.0).
	Threshold float64

	// PrefixPaddingMs is silence before speech starts.
	PrefixPaddingMs int

	// SilenceDurationMs is silence duration to end turn.
	SilenceDurationMs int
}

// DefaultSessionOptions returns SessionOptions with sensible defaults.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Temperature:       0.8,
		MaxResponseTokens: 4096,
		TurnDetection: &TurnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMs:   300,
			SilenceDurationMs: 500,
		},
	}
}

// Capabilities describes what features a session backend supports.
type Capabilities struct {
	// SupportsToolCalls indicates the backend can call tools.
	SupportsToolCalls bool

	// SupportsInterruption indicates responses can be interrupted mid-turn.
	SupportsInterruption bool

	// SupportsCustomVoice indicates custom voice selection is available.
	SupportsCustomVoice bool
}
