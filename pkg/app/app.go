// Package app wires a demo agent together: tool registry, session,
// and the optional web dashboard. Each cmd builds a Config with its
// persona and tools and hands the rest to Run.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/velvetlabs/chorus/internal/config"
	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
	"github.com/velvetlabs/chorus/pkg/agent/bridge"
	"github.com/velvetlabs/chorus/pkg/web"
)

// Config describes one demo agent.
type Config struct {
	// Name identifies the agent in logs and on the dashboard.
	Name string

	// Instructions is the persona prompt sent with the session config.
	Instructions string

	// Tools are the agent's function tools.
	Tools []agent.Tool

	// AgentURL is the websocket endpoint of the voice-agent service.
	// Empty means run against a mock session (offline demo mode).
	AgentURL string

	// APIKey authenticates against the voice-agent service.
	APIKey string

	// Voice selects the agent's speaking voice.
	Voice string

	// WebAddr enables the dashboard when non-empty.
	WebAddr string

	// Debug enables debug-level logging.
	Debug bool
}

// LoadEnv fills unset fields from the environment.
func (c *Config) LoadEnv() {
	if c.AgentURL == "" {
		c.AgentURL = config.AgentURL()
	}
	if c.APIKey == "" {
		c.APIKey = config.APIKey()
	}
	if c.WebAddr == "" {
		c.WebAddr = config.WebAddr()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("app: agent name is required")
	}
	if c.Instructions == "" {
		return fmt.Errorf("app: instructions are required")
	}
	if len(c.Tools) == 0 {
		return fmt.Errorf("app: at least one tool is required")
	}
	if c.AgentURL != "" && c.APIKey == "" {
		return agent.ErrMissingAPIKey
	}
	return nil
}

// App orchestrates one running demo agent.
type App struct {
	config   Config
	registry *agent.Registry
	session  agent.Session
	web      *web.Server
}

// New builds an app from cfg. Environment overrides are applied and
// the session is constructed but not connected.
func New(cfg Config) (*App, error) {
	cfg.LoadEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log.Init(level)

	registry := agent.NewRegistry()
	registry.Register(cfg.Tools...)

	a := &App{
		config:   cfg,
		registry: registry,
	}

	if cfg.AgentURL != "" {
		session, err := bridge.New(bridge.Config{
			URL:    cfg.AgentURL,
			APIKey: cfg.APIKey,
			Logger: log.With("agent", cfg.Name),
		})
		if err != nil {
			return nil, err
		}
		a.session = session
	} else {
		log.Warn("no agent URL configured, running with a mock session")
		a.session = agent.NewMockSession()
	}

	a.configureSession()

	if cfg.WebAddr != "" {
		a.web = web.NewServer(cfg.WebAddr, registry)
		a.web.OnToolTrigger = a.triggerTool
	}

	return a, nil
}

// Session returns the underlying session, mainly for tests.
func (a *App) Session() agent.Session {
	return a.session
}

// configureSession wires session options and callbacks.
func (a *App) configureSession() {
	opts := agent.DefaultSessionOptions()
	opts.SystemPrompt = a.config.Instructions
	if a.config.Voice != "" {
		opts.Voice = a.config.Voice
	}
	opts.Tools = a.registry.Tools()
	if err := a.session.ConfigureSession(opts); err != nil {
		log.Warn("configure session", "error", err)
	}

	a.session.OnToolCall(a.handleToolCall)
	a.session.OnTranscript(a.handleTranscript)
	a.session.OnError(func(err error) {
		log.Error("session error", "agent", a.config.Name, "error", err)
		if a.web != nil {
			a.web.AddLog("error", err.Error())
		}
	})
}

// handleToolCall dispatches a model tool call and submits the result.
func (a *App) handleToolCall(call agent.ToolCall) {
	result := a.registry.Dispatch(call)

	text := result.Result
	if result.Error != nil {
		log.Error("tool failed", "tool", call.Name, "error", result.Error)
		text = "Sorry, that didn't work: " + result.Error.Error()
	}

	if err := a.session.SubmitToolResult(call.ID, text); err != nil {
		log.Error("submit tool result", "tool", call.Name, "error", err)
	}

	if a.web != nil {
		a.web.AddLog("tool", call.Name+" -> "+text)
		a.web.AddConversation("tool", text)
		a.web.UpdateState(func(s *web.AgentState) { s.ToolCalls++ })
	}
}

// handleTranscript mirrors final transcripts onto the dashboard.
func (a *App) handleTranscript(role, text string, final bool) {
	if !final {
		return
	}
	log.Debug("transcript", "role", role, "text", text)
	if a.web == nil {
		return
	}
	a.web.AddConversation(role, text)
	a.web.UpdateState(func(s *web.AgentState) {
		if role == "user" {
			s.LastUserMessage = text
		} else {
			s.LastAgentMessage = text
		}
	})
}

// triggerTool services manual invocations from the dashboard.
func (a *App) triggerTool(name string, args map[string]any) (string, error) {
	result := a.registry.Dispatch(agent.ToolCall{
		ID:        fmt.Sprintf("manual-%d", time.Now().UnixNano()),
		Name:      name,
		Arguments: args,
	})
	if result.Error != nil {
		return "", result.Error
	}
	return result.Result, nil
}

// Run connects the session and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	log.Info("starting agent", "name", a.config.Name, "tools", a.registry.Count())

	if err := a.session.Connect(ctx); err != nil {
		return fmt.Errorf("app: connect session: %w", err)
	}

	if a.web != nil {
		a.web.StartAsync()
		a.web.UpdateState(func(s *web.AgentState) {
			s.Name = a.config.Name
			s.SessionConnected = a.session.IsConnected()
			s.Listening = true
		})
		a.web.AddLog("info", a.config.Name+" started")
	}

	<-ctx.Done()
	return nil
}

// Shutdown stops the session and the dashboard.
func (a *App) Shutdown() {
	if err := a.session.Close(); err != nil {
		log.Warn("close session", "error", err)
	}
	if a.web != nil {
		if err := a.web.Shutdown(); err != nil {
			log.Warn("shutdown dashboard", "error", err)
		}
	}
	log.Info("agent stopped", "name", a.config.Name)
}
