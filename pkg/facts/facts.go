// Package facts stores the "this day in Bitcoin history" records shown by
// the fact-browser overlay. Records live in a local SQLite database and
// are seeded from an embedded YAML file on first run.
package facts

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

//go:embed seed.yaml
var seedYAML []byte

// Fact is one historical record. Date is the canonical YYYY-MM-DD form;
// month/day/year are denormalized for the anniversary query.
type Fact struct {
	Date        string `json:"date" yaml:"date"`
	Month       int    `json:"month" yaml:"month"`
	Day         int    `json:"day" yaml:"day"`
	Year        int    `json:"year" yaml:"year"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Importance  int    `json:"importance" yaml:"importance"`
	SourceURL   string `json:"sourceUrl" yaml:"source_url"`
}

// Store wraps the facts database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the facts database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("facts: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS facts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	month       INTEGER NOT NULL,
	day         INTEGER NOT NULL,
	year        INTEGER NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	importance  INTEGER NOT NULL DEFAULT 0,
	source_url  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_facts_month_day ON facts(month, day);
`)
	if err != nil {
		return fmt.Errorf("facts: create schema: %w", err)
	}
	return nil
}

// SeedIfEmpty loads the embedded seed records when the table has no rows.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&count); err != nil {
		return fmt.Errorf("facts: count: %w", err)
	}
	if count > 0 {
		return nil
	}

	var seed struct {
		Facts []Fact `yaml:"facts"`
	}
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return fmt.Errorf("facts: parse seed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("facts: begin seed tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO facts (date, month, day, year, title, description, category, importance, source_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("facts: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range seed.Facts {
		if _, err := stmt.ExecContext(ctx, f.Date, f.Month, f.Day, f.Year,
			f.Title, f.Description, f.Category, f.Importance, f.SourceURL); err != nil {
			return fmt.Errorf("facts: insert %q: %w", f.Title, err)
		}
	}
	return tx.Commit()
}

// Insert adds a single fact record.
func (s *Store) Insert(ctx context.Context, f Fact) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO facts (date, month, day, year, title, description, category, importance, source_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Date, f.Month, f.Day, f.Year, f.Title, f.Description, f.Category, f.Importance, f.SourceURL)
	if err != nil {
		return fmt.Errorf("facts: insert: %w", err)
	}
	return nil
}

// TodaysFacts returns records whose (month, day) match now's month and day,
// or whose exact date is today, ordered by importance descending then year
// ascending.
func (s *Store) TodaysFacts(ctx context.Context, now time.Time) ([]Fact, error) {
	today := now.Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, `
SELECT date, month, day, year, title, description, category, importance, source_url
FROM facts
WHERE (month = ? AND day = ?) OR date = ?
ORDER BY importance DESC, year ASC`,
		int(now.Month()), now.Day(), today)
	if err != nil {
		return nil, fmt.Errorf("facts: query today: %w", err)
	}
	defer rows.Close()

	var out []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.Date, &f.Month, &f.Day, &f.Year, &f.Title,
			&f.Description, &f.Category, &f.Importance, &f.SourceURL); err != nil {
			return nil, fmt.Errorf("facts: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Count returns the total number of stored facts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&n)
	return n, err
}
