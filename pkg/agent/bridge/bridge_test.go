package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/velvetlabs/chorus/pkg/agent"
)

var upgrader = websocket.Upgrader{}

// startTestService runs a fake voice-agent service that hands the
// upgraded connection to script.
func startTestService(t *testing.T, script func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		script(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// readMessage reads and parses one message from the service side.
func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("service read failed: %v", err)
	}
	msg, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("service parse failed: %v", err)
	}
	return msg
}

func writeMessage(t *testing.T, conn *websocket.Conn, msgType MessageType, data interface{}) {
	t.Helper()

	msg, err := NewMessage(msgType, data)
	if err != nil {
		t.Fatalf("service marshal failed: %v", err)
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("service write failed: %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{APIKey: "k"}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := New(Config{URL: "ws://x"}); err != agent.ErrMissingAPIKey {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestConnectSendsSessionConfig(t *testing.T) {
	gotConfig := make(chan SessionConfig, 1)

	srv := startTestService(t, func(conn *websocket.Conn) {
		msg := readMessage(t, conn)
		if msg.Type != TypeSessionConfigure {
			t.Errorf("expected session.configure, got %s", msg.Type)
		}
		var cfg SessionConfig
		if err := msg.ParseData(&cfg); err != nil {
			t.Errorf("parse config failed: %v", err)
		}
		gotConfig <- cfg
		writeMessage(t, conn, TypeSessionReady, nil)
	})

	b, err := New(Config{URL: wsURL(srv), APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new bridge failed: %v", err)
	}

	opts := agent.DefaultSessionOptions()
	opts.SystemPrompt = "You are ShopBot."
	opts.Voice = "terrell"
	b.ConfigureSession(opts)
	b.RegisterTool(agent.Tool{
		Name:        "search_catalog",
		Description: "Search for products",
		Parameters:  map[string]any{"query": map[string]any{"type": "string"}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer b.Close()

	if !b.IsConnected() {
		t.Error("expected bridge to be connected")
	}

	select {
	case cfg := <-gotConfig:
		if cfg.SystemPrompt != "You are ShopBot." {
			t.Errorf("unexpected system prompt: %q", cfg.SystemPrompt)
		}
		if cfg.Voice != "terrell" {
			t.Errorf("unexpected voice: %q", cfg.Voice)
		}
		if len(cfg.Tools) != 1 || cfg.Tools[0].Name != "search_catalog" {
			t.Errorf("unexpected tools: %+v", cfg.Tools)
		}
		if cfg.TurnDetection == nil || cfg.TurnDetection.Type != "server_vad" {
			t.Errorf("unexpected turn detection: %+v", cfg.TurnDetection)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session config")
	}
}

func TestToolCallRoundTrip(t *testing.T) {
	gotResult := make(chan ToolResultData, 1)

	srv := startTestService(t, func(conn *websocket.Conn) {
		readMessage(t, conn) // session.configure

		writeMessage(t, conn, TypeToolCall, ToolCallData{
			CallID:    "call-42",
			Name:      "place_order",
			Arguments: map[string]any{"product_name": "hoodie", "quantity": float64(2)},
		})

		msg := readMessage(t, conn)
		if msg.Type != TypeToolResult {
			t.Errorf("expected tool.result, got %s", msg.Type)
		}
		var res ToolResultData
		if err := msg.ParseData(&res); err != nil {
			t.Errorf("parse result failed: %v", err)
		}
		gotResult <- res
	})

	b, err := New(Config{URL: wsURL(srv), APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new bridge failed: %v", err)
	}

	calls := make(chan agent.ToolCall, 1)
	b.OnToolCall(func(call agent.ToolCall) {
		calls <- call
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer b.Close()

	var call agent.ToolCall
	select {
	case call = <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tool call")
	}

	if call.ID != "call-42" || call.Name != "place_order" {
		t.Errorf("unexpected call: %+v", call)
	}
	if qty, ok := call.Arguments["quantity"].(float64); !ok || qty != 2 {
		t.Errorf("unexpected quantity argument: %v", call.Arguments["quantity"])
	}

	if err := b.SubmitToolResult(call.ID, "Order confirmed"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case res := <-gotResult:
		if res.CallID != "call-42" || res.Result != "Order confirmed" {
			t.Errorf("unexpected result: %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tool result")
	}
}

func TestTranscriptAndErrorEvents(t *testing.T) {
	srv := startTestService(t, func(conn *websocket.Conn) {
		readMessage(t, conn) // session.configure

		writeMessage(t, conn, TypeTranscript, TranscriptData{Role: "user", Text: "find me a hoodie", Final: true})
		writeMessage(t, conn, TypeError, ErrorData{Code: "rate_limited", Message: "slow down"})

		// Keep the connection open until the client closes.
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		conn.ReadMessage()
	})

	b, err := New(Config{URL: wsURL(srv), APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new bridge failed: %v", err)
	}

	transcripts := make(chan string, 1)
	errs := make(chan error, 1)
	b.OnTranscript(func(role, text string, isFinal bool) {
		if role == "user" && isFinal {
			transcripts <- text
		}
	})
	b.OnError(func(err error) {
		errs <- err
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer b.Close()

	select {
	case text := <-transcripts:
		if text != "find me a hoodie" {
			t.Errorf("unexpected transcript: %q", text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for transcript")
	}

	select {
	case err := <-errs:
		apiErr, ok := err.(*agent.APIError)
		if !ok {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Code != "rate_limited" {
			t.Errorf("unexpected code: %q", apiErr.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error event")
	}
}

func TestSubmitWhenDisconnected(t *testing.T) {
	b, err := New(Config{URL: "ws://localhost:1", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new bridge failed: %v", err)
	}

	if err := b.SubmitToolResult("c1", "x"); err != agent.ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := startTestService(t, func(conn *websocket.Conn) {
		readMessage(t, conn)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		conn.ReadMessage()
	})

	b, err := New(Config{URL: wsURL(srv), APIKey: "test-key"})
	if err != nil {
		t.Fatalf("new bridge failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if b.IsConnected() {
		t.Error("expected bridge to be disconnected")
	}
}
