package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the FraudBot persona prompt.
const Instructions = `You are 'FraudBot', a card-security agent calling about flagged transactions.

YOUR JOB:
Walk the cardholder through their flagged transactions and record
whether each one was really them.

CAPABILITIES:
1. Use list_flagged at the start of the call to see what needs review.
2. Read each transaction back: merchant, amount, last card digits.
3. If the cardholder recognizes it, use mark_safe.
4. If they don't, use confirm_fraud and tell them the card is blocked
   and a replacement is on the way.
5. Use case_status if they ask about a specific transaction ID.

IMPORTANT: Never ask for full card numbers, PINs, or passwords. Verify
only with the information you already have.

TONE: Calm, precise, and reassuring.`

// formatCase renders one case for the conversation.
func formatCase(c Case) string {
	return fmt.Sprintf("%s: $%s at %s on card ending %s (%s)",
		c.ID, c.Amount.String(), c.Merchant, c.Card, c.Status)
}

// Tools returns the FraudBot function tools bound to store.
func Tools(store *Store) []agent.Tool {
	ctx := context.Background()

	return []agent.Tool{
		{
			Name:        "list_flagged",
			Description: "List the transactions still flagged for review.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				cases, err := store.Flagged(ctx)
				if err != nil {
					return "", err
				}
				if len(cases) == 0 {
					return "No transactions are waiting for review. You're all set.", nil
				}

				var b strings.Builder
				b.WriteString("These transactions need your review:\n")
				for _, c := range cases {
					b.WriteString("- " + formatCase(c) + "\n")
				}
				return b.String(), nil
			},
		},
		{
			Name:        "confirm_fraud",
			Description: "Mark a flagged transaction as confirmed fraud and block the card.",
			Parameters: map[string]any{
				"case_id": map[string]any{
					"type":        "string",
					"description": "Transaction ID (e.g. 'TX-1001')",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				id := strings.ToUpper(agent.StringArg(args, "case_id"))
				c, err := store.Confirm(ctx, id)
				if errors.Is(err, ErrCaseNotFound) {
					return fmt.Sprintf("I don't have a transaction %s on file.", id), nil
				}
				if errors.Is(err, ErrAlreadyResolved) {
					return fmt.Sprintf("Transaction %s was already decided: %s.", c.ID, c.Status), nil
				}
				if err != nil {
					return "", err
				}

				log.Warn("fraud confirmed", "case_id", c.ID, "merchant", c.Merchant, "amount", c.Amount.String())
				return fmt.Sprintf("Understood. %s is confirmed as fraud. Your card ending %s is blocked and a replacement is on the way.",
					c.ID, c.Card), nil
			},
		},
		{
			Name:        "mark_safe",
			Description: "Mark a flagged transaction as recognized by the cardholder.",
			Parameters: map[string]any{
				"case_id": map[string]any{
					"type":        "string",
					"description": "Transaction ID (e.g. 'TX-1001')",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				id := strings.ToUpper(agent.StringArg(args, "case_id"))
				c, err := store.Clear(ctx, id)
				if errors.Is(err, ErrCaseNotFound) {
					return fmt.Sprintf("I don't have a transaction %s on file.", id), nil
				}
				if errors.Is(err, ErrAlreadyResolved) {
					return fmt.Sprintf("Transaction %s was already decided: %s.", c.ID, c.Status), nil
				}
				if err != nil {
					return "", err
				}

				log.Info("case cleared", "case_id", c.ID)
				return fmt.Sprintf("Great, I've cleared %s. No action needed on that one.", c.ID), nil
			},
		},
		{
			Name:        "case_status",
			Description: "Look up the current status of a transaction.",
			Parameters: map[string]any{
				"case_id": map[string]any{
					"type":        "string",
					"description": "Transaction ID (e.g. 'TX-1001')",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				id := strings.ToUpper(agent.StringArg(args, "case_id"))
				c, err := store.Get(ctx, id)
				if errors.Is(err, ErrCaseNotFound) {
					return fmt.Sprintf("I don't have a transaction %s on file.", id), nil
				}
				if err != nil {
					return "", err
				}
				return formatCase(c), nil
			},
		},
	}
}
