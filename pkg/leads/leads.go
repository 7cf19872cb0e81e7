// Package leads implements the LeadBot demo agent: a sales assistant
// for "Zomato for Business" that answers product FAQs and qualifies
// inbound leads.
package leads

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CompanyName is the business the agent represents.
const CompanyName = "Zomato for Business"

// FAQEntry is one question/answer pair the agent can serve.
type FAQEntry struct {
	Question string
	Answer   string
	Keywords []string
}

// FAQ is the product knowledge base.
var FAQ = []FAQEntry{
	{
		Question: "What is Zomato for Business?",
		Answer:   "It is a platform for restaurant owners to list their business, manage online orders, and attract customers through Zomato Gold.",
		Keywords: []string{"what", "platform", "about"},
	},
	{
		Question: "How much does it cost to list?",
		Answer:   "Listing is free! We only charge a commission on orders delivered through our platform.",
		Keywords: []string{"cost", "price", "list", "fee"},
	},
	{
		Question: "What is the commission rate?",
		Answer:   "It typically ranges from 18% to 25% per order, depending on your location and package.",
		Keywords: []string{"commission", "rate", "percent"},
	},
	{
		Question: "Do I get a free trial?",
		Answer:   "We don't offer a free trial for listings, but you can start with a basic free listing and upgrade later.",
		Keywords: []string{"trial", "free", "try"},
	},
	{
		Question: "Who is this for?",
		Answer:   "Restaurant owners, cafe managers, and cloud kitchen operators looking to expand their reach.",
		Keywords: []string{"who", "for", "audience"},
	},
}

// AnswerFAQ finds the FAQ entry best matching the question by keyword
// overlap. Returns false when nothing matches.
func AnswerFAQ(question string) (FAQEntry, bool) {
	terms := strings.Fields(strings.ToLower(question))

	best := -1
	bestScore := 0
	for i, entry := range FAQ {
		score := 0
		for _, term := range terms {
			for _, kw := range entry.Keywords {
				if strings.Contains(term, kw) || strings.Contains(kw, term) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return FAQEntry{}, false
	}
	return FAQ[best], true
}

// Lead is one captured prospect.
type Lead struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Budget    string    `json:"budget"`
	Timeline  string    `json:"timeline"`
	Score     int       `json:"score"`
	Qualified bool      `json:"qualified"`
}

// score rates a lead 0–100 on role, budget, and timeline signals.
func score(role, budget, timeline string) int {
	total := 0

	role = strings.ToLower(role)
	switch {
	case strings.Contains(role, "owner") || strings.Contains(role, "founder"):
		total += 40
	case strings.Contains(role, "manager") || strings.Contains(role, "operator"):
		total += 30
	case role != "":
		total += 10
	}

	budget = strings.ToLower(budget)
	switch {
	case strings.Contains(budget, "no budget") || strings.Contains(budget, "none"):
		// No points.
	case budget != "":
		total += 30
	}

	timeline = strings.ToLower(timeline)
	switch {
	case strings.Contains(timeline, "now") || strings.Contains(timeline, "immediate") ||
		strings.Contains(timeline, "week") || strings.Contains(timeline, "asap"):
		total += 30
	case strings.Contains(timeline, "month"):
		total += 20
	case timeline != "":
		total += 10
	}

	return total
}

// qualifiedThreshold marks a lead worth a sales follow-up.
const qualifiedThreshold = 60

// storeData is the JSON structure for the lead file.
type storeData struct {
	Version   int    `json:"version"`
	UpdatedAt string `json:"updated_at"`
	Leads     []Lead `json:"leads"`
}

// Store persists captured leads to a JSON file. Safe for concurrent
// use.
type Store struct {
	path  string
	mu    sync.RWMutex
	leads []Lead

	now func() time.Time
}

// NewStore creates a lead store at path, loading any existing leads.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("leads: create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("leads: read store: %w", err)
		}
		var stored storeData
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, fmt.Errorf("leads: parse store: %w", err)
		}
		s.leads = stored.Leads
	}

	return s, nil
}

// Capture scores and persists a new lead.
func (s *Store) Capture(name, company, role, budget, timeline string) (Lead, error) {
	if name == "" {
		return Lead{}, fmt.Errorf("leads: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lead := Lead{
		ID:       uuid.New().String(),
		At:       s.now(),
		Name:     name,
		Company:  company,
		Role:     role,
		Budget:   budget,
		Timeline: timeline,
		Score:    score(role, budget, timeline),
	}
	lead.Qualified = lead.Score >= qualifiedThreshold

	s.leads = append(s.leads, lead)
	if err := s.save(); err != nil {
		s.leads = s.leads[:len(s.leads)-1]
		return Lead{}, err
	}
	return lead, nil
}

// save writes the store via temp file + rename. Callers must hold s.mu.
func (s *Store) save() error {
	stored := storeData{
		Version:   1,
		UpdatedAt: s.now().Format(time.RFC3339),
		Leads:     s.leads,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("leads: marshal store: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("leads: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("leads: rename temp file: %w", err)
	}
	return nil
}

// Count returns total and qualified lead counts.
func (s *Store) Count() (total, qualified int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leads {
		if l.Qualified {
			qualified++
		}
	}
	return len(s.leads), qualified
}

// Leads returns all captured leads, oldest first.
func (s *Store) Leads() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Lead, len(s.leads))
	copy(out, s.leads)
	return out
}
