package fraud

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/velvetlabs/chorus/pkg/agent"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Seed(context.Background(), DemoCases()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return s
}

func TestFlaggedListsSeededCases(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cases, err := s.Flagged(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 3 {
		t.Fatalf("Flagged returned %d cases, want 3", len(cases))
	}
	if cases[0].ID != "TX-1001" {
		t.Fatalf("first case = %s, want insert order TX-1001", cases[0].ID)
	}
	if !cases[0].Amount.Equal(DemoCases()[0].Amount) {
		t.Fatalf("amount round-trip = %s", cases[0].Amount)
	}
}

func TestConfirmMovesOutOfFlagged(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	c, err := s.Confirm(ctx, "TX-1001")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if c.Status != StatusConfirmedFraud {
		t.Fatalf("status = %s, want confirmed_fraud", c.Status)
	}

	cases, err := s.Flagged(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Fatalf("Flagged returned %d cases after confirm, want 2", len(cases))
	}
}

func TestResolvedCasesStayResolved(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Clear(ctx, "TX-1002"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	// A second decision is rejected in either direction.
	if _, err := s.Confirm(ctx, "TX-1002"); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("Confirm after Clear: err = %v, want ErrAlreadyResolved", err)
	}
	if _, err := s.Clear(ctx, "TX-1002"); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("second Clear: err = %v, want ErrAlreadyResolved", err)
	}

	c, err := s.Get(ctx, "TX-1002")
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != StatusCleared {
		t.Fatalf("status flipped to %s", c.Status)
	}
}

func TestUnknownCase(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "TX-9999"); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("Get unknown: err = %v, want ErrCaseNotFound", err)
	}
	if _, err := s.Confirm(ctx, "TX-9999"); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("Confirm unknown: err = %v, want ErrCaseNotFound", err)
	}
}

func TestFraudTools(t *testing.T) {
	s := testStore(t)
	tools := Tools(s)

	byName := make(map[string]agent.Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	out, err := byName["list_flagged"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "TX-1001") || !strings.Contains(out, "Night Owl Electronics") {
		t.Errorf("list_flagged = %q", out)
	}

	out, err = byName["confirm_fraud"].Handler(map[string]any{"case_id": "tx-1001"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "confirmed as fraud") || !strings.Contains(out, "4532") {
		t.Errorf("confirm_fraud = %q", out)
	}

	out, err = byName["mark_safe"].Handler(map[string]any{"case_id": "TX-1003"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cleared TX-1003") {
		t.Errorf("mark_safe = %q", out)
	}

	// Double decision reads back the existing status.
	out, err = byName["mark_safe"].Handler(map[string]any{"case_id": "TX-1001"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "already decided") || !strings.Contains(out, StatusConfirmedFraud) {
		t.Errorf("double decision = %q", out)
	}

	out, err = byName["case_status"].Handler(map[string]any{"case_id": "TX-1002"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "flagged") {
		t.Errorf("case_status = %q", out)
	}

	out, err = byName["case_status"].Handler(map[string]any{"case_id": "TX-9999"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "don't have a transaction") {
		t.Errorf("unknown case reply = %q", out)
	}
}
