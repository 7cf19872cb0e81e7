// Package wellness implements the CheckInBot demo agent: a daily
// mood/energy check-in logger backed by a JSON file.
package wellness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CheckIn is one logged wellness entry.
type CheckIn struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Mood   string    `json:"mood"`
	Energy int       `json:"energy"`
	Note   string    `json:"note,omitempty"`
}

// storeData is the JSON structure for the store file.
type storeData struct {
	Version   int       `json:"version"`
	UpdatedAt string    `json:"updated_at"`
	CheckIns  []CheckIn `json:"checkins"`
}

const currentVersion = 1

// Store persists check-ins to a JSON file. Safe for concurrent use.
type Store struct {
	path     string
	mu       sync.RWMutex
	checkins []CheckIn

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates a check-in store at path, loading any existing
// entries. The file is created on the first check-in.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("wellness: create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("wellness: load store: %w", err)
		}
	}

	return s, nil
}

// load reads the store from disk.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var stored storeData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	s.checkins = stored.CheckIns
	return nil
}

// save writes the store to disk via temp file + rename. Callers must
// hold s.mu.
func (s *Store) save() error {
	stored := storeData{
		Version:   currentVersion,
		UpdatedAt: s.now().Format(time.RFC3339),
		CheckIns:  s.checkins,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("wellness: marshal store: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("wellness: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("wellness: rename temp file: %w", err)
	}
	return nil
}

// Log appends a check-in. Energy must be between 1 and 5.
func (s *Store) Log(mood string, energy int, note string) (CheckIn, error) {
	if mood == "" {
		return CheckIn{}, fmt.Errorf("wellness: mood is required")
	}
	if energy < 1 || energy > 5 {
		return CheckIn{}, fmt.Errorf("wellness: energy must be between 1 and 5, got %d", energy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := CheckIn{
		ID:     uuid.New().String(),
		At:     s.now(),
		Mood:   mood,
		Energy: energy,
		Note:   note,
	}
	s.checkins = append(s.checkins, entry)

	if err := s.save(); err != nil {
		s.checkins = s.checkins[:len(s.checkins)-1]
		return CheckIn{}, err
	}
	return entry, nil
}

// History returns the most recent n check-ins, newest first. n <= 0
// returns everything.
func (s *Store) History(n int) []CheckIn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CheckIn, len(s.checkins))
	for i, c := range s.checkins {
		out[len(s.checkins)-1-i] = c
	}
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Count returns the number of logged check-ins.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.checkins)
}

// Summary aggregates the log: total entries, average energy, and the
// current streak of consecutive calendar days ending today.
type Summary struct {
	Total     int
	AvgEnergy float64
	Streak    int
}

// Summarize computes the summary over the whole log.
func (s *Store) Summarize() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{Total: len(s.checkins)}
	if sum.Total == 0 {
		return sum
	}

	energy := 0
	days := make(map[string]bool, len(s.checkins))
	for _, c := range s.checkins {
		energy += c.Energy
		days[c.At.Format("2006-01-02")] = true
	}
	sum.AvgEnergy = float64(energy) / float64(sum.Total)

	// Walk backwards from today counting consecutive days with at
	// least one check-in.
	day := s.now()
	for days[day.Format("2006-01-02")] {
		sum.Streak++
		day = day.AddDate(0, 0, -1)
	}
	return sum
}
