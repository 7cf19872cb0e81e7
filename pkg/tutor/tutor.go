// Package tutor implements the TutorBot demo agent: a set of teaching
// personas the user can switch between mid-conversation.
package tutor

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the TutorBot persona prompt.
const Instructions = `You are 'TutorBot', an adaptable AI study companion.

YOUR JOB:
Help students learn by adjusting your teaching style to what works for
them.

CAPABILITIES:
1. Use list_personas when the student asks how you can teach.
2. Use switch_persona when they ask for a different style
   (e.g. "quiz me" means the examiner, "just tell me a story" means the
   storyteller).
3. Use current_persona if they ask how you're currently teaching.

After switching, immediately adopt the new persona's style and greet the
student in that voice.

TONE: Warm, patient, and encouraging.`

// Persona is one teaching style the tutor can adopt.
type Persona struct {
	Name     string
	Style    string
	Greeting string
}

// Built-in persona names.
const (
	PersonaSocratic    = "socratic"
	PersonaDrill       = "drill"
	PersonaStoryteller = "storyteller"
	PersonaExaminer    = "examiner"
)

func defaultPersonas() map[string]Persona {
	return map[string]Persona{
		PersonaSocratic: {
			Name:     PersonaSocratic,
			Style:    "Never give the answer directly. Respond to every question with a guiding question that leads the student one step closer.",
			Greeting: "Interesting. What do you already know about this?",
		},
		PersonaDrill: {
			Name:     PersonaDrill,
			Style:    "Rapid-fire practice. Short questions, immediate corrections, keep score out loud.",
			Greeting: "Warm-up's over. First question coming up.",
		},
		PersonaStoryteller: {
			Name:     PersonaStoryteller,
			Style:    "Teach every concept through a short narrative with characters and stakes before naming the concept itself.",
			Greeting: "Let me tell you about the time this idea saved someone's day.",
		},
		PersonaExaminer: {
			Name:     PersonaExaminer,
			Style:    "Formal assessment mode. Pose exam-style questions, grade answers strictly, and summarize weak areas.",
			Greeting: "We'll begin the assessment now. Answer as precisely as you can.",
		},
	}
}

// Switcher holds the current teaching persona. Safe for concurrent use.
type Switcher struct {
	mu       sync.RWMutex
	personas map[string]Persona
	current  string
}

// NewSwitcher creates a switcher with the built-in personas, starting
// on the socratic one.
func NewSwitcher() *Switcher {
	return &Switcher{
		personas: defaultPersonas(),
		current:  PersonaSocratic,
	}
}

// Current returns the active persona.
func (s *Switcher) Current() Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.personas[s.current]
}

// Switch activates the named persona. Unknown names leave the current
// persona untouched.
func (s *Switcher) Switch(name string) (Persona, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.personas[key]
	if !ok {
		return Persona{}, fmt.Errorf("tutor: unknown persona %q", name)
	}
	s.current = key
	return p, nil
}

// Names returns the available persona names, sorted.
func (s *Switcher) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.personas))
	for name := range s.personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns the TutorBot function tools bound to sw.
func Tools(sw *Switcher) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "list_personas",
			Description: "List the teaching styles the tutor can switch between.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				return "I can teach as: " + strings.Join(sw.Names(), ", ") + ".", nil
			},
		},
		{
			Name:        "switch_persona",
			Description: "Switch the tutor to a different teaching style.",
			Parameters: map[string]any{
				"persona": map[string]any{
					"type":        "string",
					"description": "One of: socratic, drill, storyteller, examiner",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				name := agent.StringArg(args, "persona")
				p, err := sw.Switch(name)
				if err != nil {
					return fmt.Sprintf("I don't have a %q style. I can teach as: %s.",
						name, strings.Join(sw.Names(), ", ")), nil
				}
				log.Info("persona switched", "persona", p.Name)
				return fmt.Sprintf("Switched to %s mode. %s", p.Name, p.Greeting), nil
			},
		},
		{
			Name:        "current_persona",
			Description: "Report which teaching style is currently active.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				p := sw.Current()
				return fmt.Sprintf("I'm currently in %s mode: %s", p.Name, p.Style), nil
			},
		},
	}
}
