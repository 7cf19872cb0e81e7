package adventure

import (
	"fmt"
	"strings"

	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the QuestBot persona prompt.
const Instructions = `You are 'QuestBot', the narrator of a short spoken adventure.

YOUR JOB:
Guide the player through the story, always grounded in the game state.

CAPABILITIES:
1. Use look_around to narrate the current scene and its options.
2. Use choose when the player picks an action. Pass their words as-is.
   - If the choice is invalid, read the options back and let them retry.
3. Use check_inventory when they ask what they're carrying.
4. Use restart_game if they want to start over.

IMPORTANT: Never invent rooms, items, or outcomes. The tools are the
only source of truth about the world.

TONE: Atmospheric but brisk. Keep narration to a few sentences.`

// Tools returns the QuestBot function tools bound to game.
func Tools(game *Game) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "look_around",
			Description: "Describe the current scene and the available choices.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				return describe(game.Current()), nil
			},
		},
		{
			Name:        "choose",
			Description: "Apply the player's chosen action to the game.",
			Parameters: map[string]any{
				"action": map[string]any{
					"type":        "string",
					"description": "The player's choice in their own words",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				action := agent.StringArg(args, "action")
				result := game.Choose(action)

				switch {
				case result.Invalid:
					return "That's not something you can do here.\n" + describe(result.Scene), nil
				case result.Blocked != "":
					return fmt.Sprintf("You need the %s for that.\n%s", result.Blocked, describe(result.Scene)), nil
				case result.Granted != "":
					return fmt.Sprintf("You take the %s.\n%s", result.Granted, describe(result.Scene)), nil
				default:
					return describe(result.Scene), nil
				}
			},
		},
		{
			Name:        "check_inventory",
			Description: "List what the player is carrying.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				items := game.Inventory()
				if len(items) == 0 {
					return "You're not carrying anything.", nil
				}
				return "You're carrying: " + strings.Join(items, ", ") + ".", nil
			},
		},
		{
			Name:        "restart_game",
			Description: "Restart the adventure from the beginning.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				scene := game.Restart()
				return "The story begins again.\n" + describe(scene), nil
			},
		},
	}
}
