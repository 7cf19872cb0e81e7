// Package adventure implements the QuestBot demo agent: a scripted
// text-adventure whose game state the model drives through tools.
package adventure

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Choice is one exit from a scene.
type Choice struct {
	Keyword string
	Label   string
	Next    string
	Grants  string
	Needs   string
}

// Scene is one node in the scripted story.
type Scene struct {
	ID          string
	Description string
	Choices     []Choice
	Ending      bool
}

// defaultScenes is the built-in story: a short cave quest.
func defaultScenes() map[string]Scene {
	return map[string]Scene{
		"clearing": {
			ID:          "clearing",
			Description: "You stand in a moonlit clearing. A dark cave mouth yawns to the north, and a rusty lantern hangs from a branch.",
			Choices: []Choice{
				{Keyword: "lantern", Label: "Take the lantern", Next: "clearing", Grants: "lantern"},
				{Keyword: "cave", Label: "Enter the cave", Next: "tunnel"},
			},
		},
		"tunnel": {
			ID:          "tunnel",
			Description: "The tunnel swallows the light behind you. Ahead you hear dripping water; to the left, a faint metallic glint.",
			Choices: []Choice{
				{Keyword: "glint", Label: "Investigate the glint", Next: "alcove", Needs: "lantern"},
				{Keyword: "water", Label: "Follow the dripping water", Next: "chamber"},
				{Keyword: "back", Label: "Go back to the clearing", Next: "clearing"},
			},
		},
		"alcove": {
			ID:          "alcove",
			Description: "Your lantern reveals a small alcove. A bronze key rests on a stone shelf.",
			Choices: []Choice{
				{Keyword: "key", Label: "Take the key", Next: "tunnel", Grants: "key"},
				{Keyword: "back", Label: "Return to the tunnel", Next: "tunnel"},
			},
		},
		"chamber": {
			ID:          "chamber",
			Description: "A vast chamber with an underground pool. On the far side, a locked iron door.",
			Choices: []Choice{
				{Keyword: "door", Label: "Unlock the iron door", Next: "vault", Needs: "key"},
				{Keyword: "back", Label: "Return to the tunnel", Next: "tunnel"},
			},
		},
		"vault": {
			ID:          "vault",
			Description: "The door swings open onto a vault of ancient coins. You've found the lost treasure. The end.",
			Ending:      true,
		},
	}
}

const startScene = "clearing"

// Game holds the mutable story state. Safe for concurrent use.
type Game struct {
	mu        sync.Mutex
	scenes    map[string]Scene
	current   string
	inventory map[string]bool
	visited   []string
}

// NewGame starts a fresh game on the built-in story.
func NewGame() *Game {
	g := &Game{scenes: defaultScenes()}
	g.reset()
	return g
}

// reset rewinds the game to the opening scene. Callers must hold g.mu
// or have exclusive access.
func (g *Game) reset() {
	g.current = startScene
	g.inventory = make(map[string]bool)
	g.visited = []string{startScene}
}

// Restart rewinds the game to the opening scene.
func (g *Game) Restart() Scene {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	return g.scenes[g.current]
}

// Current returns the active scene.
func (g *Game) Current() Scene {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scenes[g.current]
}

// Inventory returns carried items, sorted.
func (g *Game) Inventory() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	items := make([]string, 0, len(g.inventory))
	for item := range g.inventory {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// Visited returns the scene IDs in visit order.
func (g *Game) Visited() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, len(g.visited))
	copy(out, g.visited)
	return out
}

// ChoiceResult reports what a choice did.
type ChoiceResult struct {
	Scene   Scene
	Granted string
	Blocked string
	Invalid bool
}

// Choose applies a player choice matched by keyword substring. Invalid
// choices and unmet item requirements leave the state untouched.
func (g *Game) Choose(input string) ChoiceResult {
	needle := strings.ToLower(strings.TrimSpace(input))

	g.mu.Lock()
	defer g.mu.Unlock()

	scene := g.scenes[g.current]
	for _, choice := range scene.Choices {
		if !strings.Contains(needle, choice.Keyword) {
			continue
		}
		if choice.Needs != "" && !g.inventory[choice.Needs] {
			return ChoiceResult{Scene: scene, Blocked: choice.Needs}
		}
		if choice.Grants != "" {
			g.inventory[choice.Grants] = true
		}
		if choice.Next != g.current {
			g.current = choice.Next
			g.visited = append(g.visited, choice.Next)
		}
		return ChoiceResult{Scene: g.scenes[g.current], Granted: choice.Grants}
	}
	return ChoiceResult{Scene: scene, Invalid: true}
}

// describe renders a scene with its choices for the player.
func describe(s Scene) string {
	var b strings.Builder
	b.WriteString(s.Description)
	if s.Ending {
		return b.String()
	}
	b.WriteString("\nYou can:\n")
	for _, c := range s.Choices {
		fmt.Fprintf(&b, "- %s\n", c.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}
