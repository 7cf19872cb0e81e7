package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/velvetlabs/chorus/pkg/hub"
)

// ToolInfo describes one registered tool for the dashboard.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleStatus returns the agent's current state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleListTools returns the registered tools.
func (s *Server) handleListTools(c *fiber.Ctx) error {
	tools := s.registry.Tools()
	out := make([]ToolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolInfo{Name: t.Name, Description: t.Description})
	}
	return c.JSON(out)
}

// TriggerToolRequest is the body for a manual tool invocation.
type TriggerToolRequest struct {
	Args map[string]any `json:"args"`
}

// handleTriggerTool runs a tool by hand from the dashboard.
func (s *Server) handleTriggerTool(c *fiber.Ctx) error {
	name := c.Params("name")

	var req TriggerToolRequest
	if err := c.BodyParser(&req); err != nil {
		req.Args = make(map[string]any)
	}

	if s.OnToolTrigger == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "tool trigger not configured",
		})
	}

	result, err := s.OnToolTrigger(name, req.Args)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.AddLog("tool", "manual: "+name+" -> "+result)

	return c.JSON(fiber.Map{
		"tool":   name,
		"result": result,
	})
}

// handleGetLogs returns recent log entries.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleGetConversation returns the conversation buffer.
func (s *Server) handleGetConversation(c *fiber.Ctx) error {
	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	return c.JSON(s.conversation)
}

// handleEventsWS streams live events to a dashboard client.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	// Replay current state so a fresh client isn't blank.
	s.stateMu.RLock()
	c.WriteJSON(s.state)
	s.stateMu.RUnlock()

	client := hub.NewClient(s.events, c)
	client.Run()
}
