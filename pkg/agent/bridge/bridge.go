// Package bridge implements agent.Session over a WebSocket control-plane
// connection to the hosted voice-agent service.
//
// The bridge carries session configuration, tool calls, tool results,
// and transcripts as JSON messages. The audio path (microphone, STT,
// TTS, playback) is handled entirely by the hosted service and never
// touches this process.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/velvetlabs/chorus/pkg/agent"
)

// Config holds configuration for the bridge connection.
type Config struct {
	// URL is the WebSocket endpoint of the voice-agent service.
	URL string

	// APIKey authenticates the connection.
	APIKey string

	// Timeout is the connection handshake timeout.
	Timeout time.Duration

	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration

	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Second,
		Logger:       slog.Default(),
	}
}

// Bridge is the WebSocket control-plane client. It implements
// agent.Session.
type Bridge struct {
	config Config
	logger *slog.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	state     agent.ConnectionState
	opts      agent.SessionOptions
	tools     []agent.Tool
	cancelCtx context.CancelFunc

	// writeMu serializes writes; gorilla connections allow one
	// concurrent writer only.
	writeMu sync.Mutex

	// Callbacks
	onToolCall   func(call agent.ToolCall)
	onTranscript func(role, text string, isFinal bool)
	onError      func(err error)

	messagesSent     atomic.Int64
	messagesReceived atomic.Int64
}

// New creates a new bridge with the given configuration.
func New(cfg Config) (*Bridge, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("bridge: service URL is required")
	}
	if cfg.APIKey == "" {
		return nil, agent.ErrMissingAPIKey
	}

	def := DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Bridge{
		config: cfg,
		logger: cfg.Logger.With("component", "agent.bridge"),
		state:  agent.StateDisconnected,
	}, nil
}

// Connect establishes the WebSocket connection and sends the session
// configuration.
func (b *Bridge) Connect(ctx context.Context) error {
	b.mu.Lock()
	if b.state == agent.StateConnected {
		b.mu.Unlock()
		return agent.ErrAlreadyConnected
	}
	b.state = agent.StateConnecting
	b.mu.Unlock()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+b.config.APIKey)

	dialer := websocket.Dialer{
		HandshakeTimeout: b.config.Timeout,
	}

	b.logger.Info("connecting to voice-agent service", "url", b.config.URL)

	conn, resp, err := dialer.DialContext(ctx, b.config.URL, headers)
	if err != nil {
		b.mu.Lock()
		b.state = agent.StateDisconnected
		b.mu.Unlock()
		if resp != nil {
			return agent.NewConnectionError(
				fmt.Sprintf("dial failed with status %d", resp.StatusCode),
				err,
				resp.StatusCode >= 500,
			)
		}
		return agent.NewConnectionError("dial failed", err, true)
	}

	msgCtx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	b.conn = conn
	b.state = agent.StateConnected
	b.cancelCtx = cancel
	b.mu.Unlock()

	go b.handleMessages(msgCtx)

	if err := b.sendSessionConfig(); err != nil {
		b.Close()
		return err
	}

	b.logger.Info("connected to voice-agent service")
	return nil
}

// Close gracefully closes the connection.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == agent.StateDisconnected {
		return nil
	}

	if b.cancelCtx != nil {
		b.cancelCtx()
	}

	if b.conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = b.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		)
		b.conn.Close()
		b.conn = nil
	}

	b.state = agent.StateDisconnected
	b.logger.Info("disconnected from voice-agent service")

	return nil
}

// IsConnected returns true if connected.
func (b *Bridge) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state == agent.StateConnected
}

// ConfigureSession stores session options. They are sent to the service
// on Connect.
func (b *Bridge) ConfigureSession(opts agent.SessionOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.opts = opts
	if len(opts.Tools) > 0 {
		b.tools = append(b.tools, opts.Tools...)
	}
	return nil
}

// RegisterTool registers a tool. Must be called before Connect.
func (b *Bridge) RegisterTool(tool agent.Tool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tools = append(b.tools, tool)
}

// SubmitToolResult returns a tool call result to the model.
func (b *Bridge) SubmitToolResult(callID, result string) error {
	err := b.send(TypeToolResult, ToolResultData{
		CallID: callID,
		Result: result,
	})
	if err != nil {
		return err
	}

	b.logger.Debug("submitted tool result",
		"call_id", callID,
		"result_len", len(result),
	)
	return nil
}

// OnToolCall sets the tool call callback.
func (b *Bridge) OnToolCall(fn func(call agent.ToolCall)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onToolCall = fn
}

// OnTranscript sets the transcript callback.
func (b *Bridge) OnTranscript(fn func(role, text string, isFinal bool)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTranscript = fn
}

// OnError sets the error callback.
func (b *Bridge) OnError(fn func(err error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}

// Capabilities returns what the bridge supports.
func (b *Bridge) Capabilities() agent.Capabilities {
	return agent.Capabilities{
		SupportsToolCalls:    true,
		SupportsInterruption: true,
		SupportsCustomVoice:  true,
	}
}

// Metrics returns message counters for the connection.
func (b *Bridge) Metrics() (sent, received int64) {
	return b.messagesSent.Load(), b.messagesReceived.Load()
}

// sendSessionConfig serializes the stored options and tools into a
// session.configure message.
func (b *Bridge) sendSessionConfig() error {
	b.mu.RLock()
	opts := b.opts
	tools := b.tools
	b.mu.RUnlock()

	cfg := SessionConfig{
		SystemPrompt:      opts.SystemPrompt,
		Voice:             opts.Voice,
		Language:          opts.Language,
		Temperature:       opts.Temperature,
		MaxResponseTokens: opts.MaxResponseTokens,
	}
	if opts.TurnDetection != nil {
		cfg.TurnDetection = &TurnDetection{
			Type:              opts.TurnDetection.Type,
			Threshold:         opts.TurnDetection.Threshold,
			PrefixPaddingMs:   opts.TurnDetection.PrefixPaddingMs,
			SilenceDurationMs: opts.TurnDetection.SilenceDurationMs,
		}
	}
	for _, t := range tools {
		cfg.Tools = append(cfg.Tools, ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}

	return b.send(TypeSessionConfigure, cfg)
}

// send marshals and writes a message under the write lock.
func (b *Bridge) send(msgType MessageType, data interface{}) error {
	b.mu.RLock()
	conn := b.conn
	state := b.state
	b.mu.RUnlock()

	if state != agent.StateConnected || conn == nil {
		return agent.ErrNotConnected
	}

	msg, err := NewMessage(msgType, data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("bridge: marshal failed: %w", err)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return agent.NewConnectionError("send failed", err, true)
	}

	b.messagesSent.Add(1)
	return nil
}

// handleMessages processes incoming WebSocket messages.
func (b *Bridge) handleMessages(ctx context.Context) {
	defer func() {
		b.mu.Lock()
		if b.state == agent.StateConnected {
			b.state = agent.StateDisconnected
		}
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		b.mu.RLock()
		conn := b.conn
		b.mu.RUnlock()

		if conn == nil {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(b.config.ReadTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Info("connection closed normally")
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			b.logger.Error("read error", "error", err)
			b.emitError(agent.NewConnectionError("read failed", err, true))
			return
		}

		b.messagesReceived.Add(1)
		b.handleMessage(data)
	}
}

// handleMessage dispatches a single inbound message.
func (b *Bridge) handleMessage(data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		b.logger.Warn("dropping malformed message", "error", err)
		return
	}

	switch msg.Type {
	case TypeSessionReady:
		b.logger.Info("session ready")

	case TypeToolCall:
		var call ToolCallData
		if err := msg.ParseData(&call); err != nil {
			b.logger.Warn("malformed tool call", "error", err)
			return
		}

		b.mu.RLock()
		fn := b.onToolCall
		b.mu.RUnlock()

		b.logger.Debug("tool call received", "name", call.Name, "call_id", call.CallID)
		if fn != nil {
			fn(agent.ToolCall{ID: call.CallID, Name: call.Name, Arguments: call.Arguments})
		}

	case TypeTranscript:
		var tr TranscriptData
		if err := msg.ParseData(&tr); err != nil {
			b.logger.Warn("malformed transcript", "error", err)
			return
		}

		b.mu.RLock()
		fn := b.onTranscript
		b.mu.RUnlock()

		if fn != nil {
			fn(tr.Role, tr.Text, tr.Final)
		}

	case TypeError:
		var ed ErrorData
		if err := msg.ParseData(&ed); err != nil {
			b.logger.Warn("malformed error event", "error", err)
			return
		}
		b.emitError(&agent.APIError{Code: ed.Code, Message: ed.Message})

	case TypePing:
		if err := b.send(TypePong, nil); err != nil {
			b.logger.Debug("pong failed", "error", err)
		}

	case TypePong:
		// keepalive reply, nothing to do

	default:
		b.logger.Debug("ignoring unknown message type", "type", msg.Type)
	}
}

// emitError forwards an error to the registered callback.
func (b *Bridge) emitError(err error) {
	b.mu.RLock()
	fn := b.onError
	b.mu.RUnlock()

	if fn != nil {
		fn(err)
	}
}

// Ensure Bridge implements agent.Session.
var _ agent.Session = (*Bridge)(nil)
