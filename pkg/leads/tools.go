package leads

import (
	"fmt"

	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the LeadBot persona prompt.
const Instructions = `You are 'LeadBot', a sales assistant for ` + CompanyName + `.

YOUR JOB:
Answer questions about the platform and qualify restaurant owners who
want to list their business.

CAPABILITIES:
1. Use answer_faq whenever the caller asks about the product, pricing,
   commission, or trials. Read the answer back naturally.
2. Qualify: learn the caller's name, company, role, rough budget, and
   timeline through natural conversation, then call capture_lead.
   - Don't interrogate. Weave the questions into the conversation.
3. Use lead_count if a teammate asks how the pipeline looks.

IMPORTANT: Never invent pricing or commission numbers. If the FAQ
doesn't cover a question, say you'll have a specialist follow up.

TONE: Professional, upbeat, and consultative.`

// Tools returns the LeadBot function tools bound to store.
func Tools(store *Store) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "answer_faq",
			Description: "Look up the answer to a question about " + CompanyName + ".",
			Parameters: map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The caller's question in their own words",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				question := agent.StringArg(args, "question")
				entry, ok := AnswerFAQ(question)
				if !ok {
					return "That's not covered in my materials. I'll have a specialist follow up with the details.", nil
				}
				return entry.Answer, nil
			},
		},
		{
			Name:        "capture_lead",
			Description: "Save a qualified prospect once you've learned their details.",
			Parameters: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Caller's name",
				},
				"company": map[string]any{
					"type":        "string",
					"description": "Restaurant or business name",
				},
				"role": map[string]any{
					"type":        "string",
					"description": "Caller's role (e.g. owner, manager)",
				},
				"budget": map[string]any{
					"type":        "string",
					"description": "Rough budget or spend the caller mentioned",
				},
				"timeline": map[string]any{
					"type":        "string",
					"description": "When they want to get started",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				name := agent.StringArg(args, "name")
				if name == "" {
					return "Could I get your name before I save your details?", nil
				}

				lead, err := store.Capture(
					name,
					agent.StringArg(args, "company"),
					agent.StringArg(args, "role"),
					agent.StringArg(args, "budget"),
					agent.StringArg(args, "timeline"),
				)
				if err != nil {
					return "", err
				}

				log.Info("lead captured",
					"name", lead.Name,
					"score", lead.Score,
					"qualified", lead.Qualified,
				)
				if lead.Qualified {
					return fmt.Sprintf("Thanks %s! I've saved your details and our onboarding team will reach out shortly.", lead.Name), nil
				}
				return fmt.Sprintf("Thanks %s! I've saved your details and we'll be in touch.", lead.Name), nil
			},
		},
		{
			Name:        "lead_count",
			Description: "Report how many leads have been captured and how many qualified.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				total, qualified := store.Count()
				return fmt.Sprintf("%d lead(s) captured, %d qualified.", total, qualified), nil
			},
		},
	}
}
