package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/velvetlabs/chorus/pkg/agent"
)

func testConfig() Config {
	return Config{
		Name:         "testbot",
		Instructions: "You are a test agent.",
		Tools: []agent.Tool{
			{
				Name:        "echo",
				Description: "Echo the input back",
				Handler: func(args map[string]any) (string, error) {
					return "echo: " + agent.StringArg(args, "text"), nil
				},
			},
		},
	}
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no name", func(c *Config) { c.Name = "" }},
		{"no instructions", func(c *Config) { c.Instructions = "" }},
		{"no tools", func(c *Config) { c.Tools = nil }},
	}
	for _, tc := range cases {
		cfg := testConfig()
		tc.mutate(&cfg)
		if _, err := New(cfg); err == nil {
			t.Errorf("%s: New accepted bad config", tc.name)
		}
	}
}

func TestToolCallLoop(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mock, ok := a.Session().(*agent.MockSession)
	if !ok {
		t.Fatal("app without agent URL should use the mock session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// Wait for the session to come up.
	deadline := time.Now().Add(2 * time.Second)
	for !mock.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatal("session never connected")
		}
		time.Sleep(10 * time.Millisecond)
	}

	mock.TriggerToolCall("call-1", "echo", map[string]any{"text": "hi"})

	results := mock.SubmittedResults()
	if len(results) != 1 {
		t.Fatalf("submitted %d results, want 1", len(results))
	}
	if results[0].CallID != "call-1" || results[0].Result != "echo: hi" {
		t.Fatalf("result = %+v", results[0])
	}

	// Unknown tools come back as an apology, not a dropped call.
	mock.TriggerToolCall("call-2", "missing", nil)
	results = mock.SubmittedResults()
	if len(results) != 2 {
		t.Fatalf("submitted %d results, want 2", len(results))
	}
	if !strings.Contains(results[1].Result, "didn't work") {
		t.Fatalf("error result = %+v", results[1])
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	a.Shutdown()
	if mock.IsConnected() {
		t.Fatal("shutdown left the session connected")
	}
}

func TestSessionOptionsCarryPersona(t *testing.T) {
	cfg := testConfig()
	cfg.Voice = "aria"

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mock := a.Session().(*agent.MockSession)

	opts := mock.Options()
	if opts.SystemPrompt != cfg.Instructions {
		t.Errorf("SystemPrompt = %q", opts.SystemPrompt)
	}
	if opts.Voice != "aria" {
		t.Errorf("Voice = %q", opts.Voice)
	}
	if len(opts.Tools) != 1 || opts.Tools[0].Name != "echo" {
		t.Errorf("Tools = %+v", opts.Tools)
	}
}
