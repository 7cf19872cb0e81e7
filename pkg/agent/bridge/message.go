package bridge

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of control-plane message exchanged
// with the hosted voice-agent service. Audio never crosses this
// connection; the media plane stays inside the service.
type MessageType string

const (
	// Client-to-service messages
	TypeSessionConfigure MessageType = "session.configure" // Persona, tools, turn detection
	TypeToolResult       MessageType = "tool.result"       // Result of a tool call

	// Service-to-client messages
	TypeSessionReady MessageType = "session.ready" // Session accepted and live
	TypeToolCall     MessageType = "tool.call"     // Model invoked a tool
	TypeTranscript   MessageType = "transcript"    // Transcribed turn text
	TypeError        MessageType = "error"         // Service-side error

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the base wrapper for all control-plane messages.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("bridge: marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct.
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// ParseMessage parses a JSON message from bytes.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("bridge: parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Client-to-service payloads
// =============================================================================

// SessionConfig configures the hosted conversation session.
type SessionConfig struct {
	SystemPrompt      string         `json:"system_prompt,omitempty"`
	Voice             string         `json:"voice,omitempty"`
	Language          string         `json:"language,omitempty"`
	Temperature       float64        `json:"temperature,omitempty"`
	MaxResponseTokens int            `json:"max_response_tokens,omitempty"`
	TurnDetection     *TurnDetection `json:"turn_detection,omitempty"`
	Tools             []ToolSpec     `json:"tools,omitempty"`
}

// TurnDetection mirrors the service's VAD configuration.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold,omitempty"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms,omitempty"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitempty"`
}

// ToolSpec is the wire form of a function tool: name, description, and
// JSON-schema parameters. Handlers stay client-side.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToolResultData carries a tool result back to the model.
type ToolResultData struct {
	CallID  string `json:"call_id"`
	Result  string `json:"result"`
	IsError bool   `json:"is_error,omitempty"`
}

// =============================================================================
// Service-to-client payloads
// =============================================================================

// ToolCallData is the model invoking a client-side tool.
type ToolCallData struct {
	CallID    string         `json:"call_id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// TranscriptData is a transcribed conversation turn.
type TranscriptData struct {
	Role  string `json:"role"` // "user" or "agent"
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// ErrorData is a service-side error event.
type ErrorData struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
