package adventure

import (
	"strings"
	"testing"

	"github.com/velvetlabs/chorus/pkg/agent"
)

func TestNewGameStartsAtClearing(t *testing.T) {
	g := NewGame()

	if g.Current().ID != "clearing" {
		t.Fatalf("start scene = %s, want clearing", g.Current().ID)
	}
	if len(g.Inventory()) != 0 {
		t.Fatal("new game has inventory")
	}
	if v := g.Visited(); len(v) != 1 || v[0] != "clearing" {
		t.Fatalf("visited = %v", v)
	}
}

func TestInvalidChoiceKeepsState(t *testing.T) {
	g := NewGame()

	result := g.Choose("fly to the moon")
	if !result.Invalid {
		t.Fatal("nonsense choice accepted")
	}
	if g.Current().ID != "clearing" {
		t.Fatalf("scene moved to %s on invalid choice", g.Current().ID)
	}
}

func TestItemGateBlocksWithoutItem(t *testing.T) {
	g := NewGame()

	// Into the tunnel with no lantern.
	g.Choose("enter the cave")
	if g.Current().ID != "tunnel" {
		t.Fatalf("scene = %s, want tunnel", g.Current().ID)
	}

	result := g.Choose("investigate the glint")
	if result.Blocked != "lantern" {
		t.Fatalf("Blocked = %q, want lantern", result.Blocked)
	}
	if g.Current().ID != "tunnel" {
		t.Fatal("blocked choice moved the player")
	}
}

func TestFullPlaythrough(t *testing.T) {
	g := NewGame()

	// Taking the key drops the player back into the tunnel.
	steps := []string{
		"take the lantern",
		"enter the cave",
		"check the glint",
		"grab the key",
		"follow the water",
		"open the door",
	}
	for _, step := range steps {
		result := g.Choose(step)
		if result.Invalid || result.Blocked != "" {
			t.Fatalf("step %q failed: %+v (at %s)", step, result, g.Current().ID)
		}
	}

	scene := g.Current()
	if scene.ID != "vault" || !scene.Ending {
		t.Fatalf("final scene = %s, want the vault ending", scene.ID)
	}

	inv := g.Inventory()
	if len(inv) != 2 || inv[0] != "key" || inv[1] != "lantern" {
		t.Fatalf("inventory = %v, want [key lantern]", inv)
	}

	visited := g.Visited()
	if visited[0] != "clearing" || visited[len(visited)-1] != "vault" {
		t.Fatalf("visited = %v", visited)
	}
}

func TestRestart(t *testing.T) {
	g := NewGame()
	g.Choose("take the lantern")
	g.Choose("enter the cave")

	scene := g.Restart()
	if scene.ID != "clearing" || g.Current().ID != "clearing" {
		t.Fatal("restart did not rewind the scene")
	}
	if len(g.Inventory()) != 0 {
		t.Fatal("restart kept the inventory")
	}
	if len(g.Visited()) != 1 {
		t.Fatalf("restart kept visited log: %v", g.Visited())
	}
}

func TestAdventureTools(t *testing.T) {
	g := NewGame()
	tools := Tools(g)

	byName := make(map[string]agent.Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	out, err := byName["look_around"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "moonlit clearing") || !strings.Contains(out, "You can:") {
		t.Errorf("look_around = %q", out)
	}

	out, err = byName["choose"].Handler(map[string]any{"action": "take the lantern"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "You take the lantern.") {
		t.Errorf("choose reply = %q", out)
	}

	out, err = byName["check_inventory"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "lantern") {
		t.Errorf("inventory reply = %q", out)
	}

	// Invalid choices re-prompt with the options.
	out, err = byName["choose"].Handler(map[string]any{"action": "summon a dragon"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not something you can do") || !strings.Contains(out, "You can:") {
		t.Errorf("invalid choice reply = %q", out)
	}

	out, err = byName["restart_game"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "begins again") {
		t.Errorf("restart reply = %q", out)
	}
	if len(g.Inventory()) != 0 {
		t.Fatal("restart tool kept inventory")
	}
}
