// Package web provides a real-time dashboard for a running agent:
// session state, conversation history, tool inspection with manual
// triggering, and a live event stream over websocket.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
	"github.com/velvetlabs/chorus/pkg/hub"
)

// AgentState is the dashboard's view of the running agent.
type AgentState struct {
	Name             string `json:"name"`
	SessionConnected bool   `json:"session_connected"`
	Speaking         bool   `json:"speaking"`
	Listening        bool   `json:"listening"`
	ToolCalls        int    `json:"tool_calls"`
	LastUserMessage  string `json:"last_user_message"`
	LastAgentMessage string `json:"last_agent_message"`
}

// LogEntry is one dashboard log line.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, tool, transcript, error
	Message string `json:"message"`
}

// ConversationEntry is one message in the conversation buffer.
type ConversationEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user, agent, tool
	Message string `json:"message"`
}

const (
	maxLogEntries          = 500
	maxConversationEntries = 100
)

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	addr string

	registry *agent.Registry

	state   AgentState
	stateMu sync.RWMutex

	logs   []LogEntry
	logsMu sync.RWMutex

	conversation   []ConversationEntry
	conversationMu sync.RWMutex

	events *hub.Hub

	// OnToolTrigger handles manual tool invocations from the
	// dashboard. Wired by the app harness to the tool registry.
	OnToolTrigger func(name string, args map[string]any) (string, error)
}

// NewServer creates a dashboard server listening on addr, exposing the
// tools in registry.
func NewServer(addr string, registry *agent.Registry) *Server {
	s := &Server{
		addr:         addr,
		registry:     registry,
		logs:         make([]LogEntry, 0, maxLogEntries),
		conversation: make([]ConversationEntry, 0, maxConversationEntries),
		events:       hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Chorus Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development.
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tools", s.handleListTools)
	api.Post("/tools/:name", s.handleTriggerTool)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/conversation", s.handleGetConversation)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start starts the dashboard server. It blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", s.addr)
	go s.events.Run()
	return s.app.Listen(s.addr)
}

// StartAsync starts the dashboard server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server stopped", "error", err)
		}
	}()
}

// Shutdown gracefully stops the dashboard server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// UpdateState applies update to the agent state and broadcasts the
// result to clients.
func (s *Server) UpdateState(update func(*AgentState)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	s.publish("status", state)
}

// AddLog appends a log entry and broadcasts it.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.publish("log", entry)
}

// AddConversation appends a conversation entry and broadcasts it.
func (s *Server) AddConversation(role, message string) {
	entry := ConversationEntry{
		Time:    time.Now().Format("15:04:05"),
		Role:    role,
		Message: message,
	}

	s.conversationMu.Lock()
	s.conversation = append(s.conversation, entry)
	if len(s.conversation) > maxConversationEntries {
		s.conversation = s.conversation[1:]
	}
	s.conversationMu.Unlock()

	s.publish("conversation", entry)
}

// Events returns the event hub for external publishers.
func (s *Server) Events() *hub.Hub {
	return s.events
}

func (s *Server) publish(eventType string, payload any) {
	event, err := hub.NewEvent(eventType, payload)
	if err != nil {
		log.Error("encode dashboard event", "type", eventType, "error", err)
		return
	}
	s.events.Publish(event)
}
