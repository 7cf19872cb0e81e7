package wellness

import (
	"fmt"
	"strings"

	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the CheckInBot persona prompt.
const Instructions = `You are 'CheckInBot', a gentle daily wellness companion.

YOUR JOB:
Help the user reflect on how they're doing and keep a lightweight log of
their check-ins.

CAPABILITIES:
1. Use log_checkin once the user has described their mood and energy.
   - Mood is a short word or phrase ("calm", "stressed", "pretty good").
   - Energy is a number from 1 (drained) to 5 (energized). Ask if they
     haven't said.
2. Use checkin_history when they ask what they logged recently.
3. Use checkin_summary when they ask how they've been doing overall.

You are not a therapist and never give medical advice. If the user
sounds like they're in crisis, gently suggest they talk to someone they
trust or a professional.

TONE: Soft, unhurried, and non-judgmental.`

// Tools returns the CheckInBot function tools bound to store.
func Tools(store *Store) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "log_checkin",
			Description: "Record a wellness check-in with the user's mood and energy level.",
			Parameters: map[string]any{
				"mood": map[string]any{
					"type":        "string",
					"description": "Short description of the user's mood",
				},
				"energy": map[string]any{
					"type":        "integer",
					"description": "Energy level from 1 (drained) to 5 (energized)",
				},
				"note": map[string]any{
					"type":        "string",
					"description": "Optional free-form note about the day",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				mood := agent.StringArg(args, "mood")
				energy := agent.IntArg(args, "energy", 0)
				note := agent.StringArg(args, "note")

				if mood == "" {
					return "How would you describe your mood right now?", nil
				}
				if energy < 1 || energy > 5 {
					return "On a scale of 1 to 5, how's your energy?", nil
				}

				entry, err := store.Log(mood, energy, note)
				if err != nil {
					return "", err
				}
				log.Info("check-in logged", "mood", entry.Mood, "energy", entry.Energy)
				return fmt.Sprintf("Got it. Logged %s with energy %d/5. Thanks for checking in.",
					entry.Mood, entry.Energy), nil
			},
		},
		{
			Name:        "checkin_history",
			Description: "List the user's recent wellness check-ins, newest first.",
			Parameters: map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "How many recent check-ins to show",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				limit := agent.IntArg(args, "limit", 5)

				entries := store.History(limit)
				if len(entries) == 0 {
					return "No check-ins logged yet. Want to do your first one now?", nil
				}

				var b strings.Builder
				b.WriteString("Your recent check-ins:\n")
				for _, c := range entries {
					fmt.Fprintf(&b, "- %s: %s, energy %d/5",
						c.At.Format("Jan 2"), c.Mood, c.Energy)
					if c.Note != "" {
						fmt.Fprintf(&b, " (%s)", c.Note)
					}
					b.WriteByte('\n')
				}
				return b.String(), nil
			},
		},
		{
			Name:        "checkin_summary",
			Description: "Summarize the user's check-in log: totals, average energy, and streak.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				sum := store.Summarize()
				if sum.Total == 0 {
					return "Nothing logged yet, so there's nothing to summarize.", nil
				}
				return fmt.Sprintf("You've logged %d check-ins. Average energy: %.1f/5. Current streak: %d day(s).",
					sum.Total, sum.AvgEnergy, sum.Streak), nil
			},
		},
	}
}
