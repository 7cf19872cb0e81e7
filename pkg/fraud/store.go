// Package fraud implements the FraudBot demo agent: a card-fraud
// confirmation workflow over an ephemeral in-memory SQL store.
package fraud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Case statuses.
const (
	StatusFlagged        = "flagged"
	StatusConfirmedFraud = "confirmed_fraud"
	StatusCleared        = "cleared"
)

// Case is one flagged card transaction under review.
type Case struct {
	ID       string
	Card     string
	Merchant string
	Amount   decimal.Decimal
	Status   string
}

// Sentinel errors for the fraud package.
var (
	// ErrCaseNotFound indicates an unknown case ID.
	ErrCaseNotFound = errors.New("fraud: case not found")
	// ErrAlreadyResolved indicates a transition on a case that is no
	// longer flagged.
	ErrAlreadyResolved = errors.New("fraud: case already resolved")
)

// Store holds fraud cases in an in-memory SQLite database. The
// database lives only as long as the process.
type Store struct {
	db *sql.DB
}

// NewStore opens a fresh in-memory store and creates the schema.
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("fraud: open database: %w", err)
	}

	// A :memory: database exists per connection; a second connection
	// would see an empty schema.
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE cases (
			id       TEXT PRIMARY KEY,
			card     TEXT NOT NULL,
			merchant TEXT NOT NULL,
			amount   TEXT NOT NULL,
			status   TEXT NOT NULL DEFAULT 'flagged'
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("fraud: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database. All cases are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed inserts cases, typically the demo data set.
func (s *Store) Seed(ctx context.Context, cases []Case) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fraud: begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cases {
		status := c.Status
		if status == "" {
			status = StatusFlagged
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cases (id, card, merchant, amount, status) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Card, c.Merchant, c.Amount.String(), status)
		if err != nil {
			return fmt.Errorf("fraud: seed case %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// DemoCases returns the built-in flagged transactions.
func DemoCases() []Case {
	d := decimal.RequireFromString
	return []Case{
		{ID: "TX-1001", Card: "4532", Merchant: "Night Owl Electronics", Amount: d("899.99")},
		{ID: "TX-1002", Card: "4532", Merchant: "Duty Free Lisbon", Amount: d("240.00")},
		{ID: "TX-1003", Card: "7719", Merchant: "QuickFuel 24h", Amount: d("3.50")},
	}
}

// Flagged lists cases still awaiting a decision, oldest insert first.
func (s *Store) Flagged(ctx context.Context) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, card, merchant, amount, status FROM cases WHERE status = ? ORDER BY rowid`,
		StatusFlagged)
	if err != nil {
		return nil, fmt.Errorf("fraud: list flagged: %w", err)
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one case by ID.
func (s *Store) Get(ctx context.Context, id string) (Case, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, card, merchant, amount, status FROM cases WHERE id = ?`, id)

	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, id)
	}
	return c, err
}

// Confirm marks a flagged case as confirmed fraud.
func (s *Store) Confirm(ctx context.Context, id string) (Case, error) {
	return s.transition(ctx, id, StatusConfirmedFraud)
}

// Clear marks a flagged case as a legitimate transaction.
func (s *Store) Clear(ctx context.Context, id string) (Case, error) {
	return s.transition(ctx, id, StatusCleared)
}

// transition moves a case out of flagged. The WHERE clause enforces
// that resolved cases stay resolved.
func (s *Store) transition(ctx context.Context, id, to string) (Case, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cases SET status = ? WHERE id = ? AND status = ?`,
		to, id, StatusFlagged)
	if err != nil {
		return Case{}, fmt.Errorf("fraud: update case %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Case{}, fmt.Errorf("fraud: rows affected: %w", err)
	}
	if n == 0 {
		// Either the case doesn't exist or it was already decided.
		c, err := s.Get(ctx, id)
		if err != nil {
			return Case{}, err
		}
		return c, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, id, c.Status)
	}
	return s.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (Case, error) {
	var c Case
	var amount string
	if err := row.Scan(&c.ID, &c.Card, &c.Merchant, &amount, &c.Status); err != nil {
		return Case{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Case{}, fmt.Errorf("fraud: bad amount for %s: %w", c.ID, err)
	}
	c.Amount = parsed
	return c, nil
}
