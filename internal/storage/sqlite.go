// Package storage provides SQLite-based persistence for game replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snake/internal/games/snake"
)

// ErrNotFound is returned when a replay ID does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Outcomes recorded with a replay.
const (
	OutcomeGameOver  = "game_over" // Run ended in a collision
	OutcomeAbandoned = "abandoned" // Player quit or disconnected mid-run
)

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// ReplayEntry is one stored run.
type ReplayEntry struct {
	ID        string
	Frontend  string // "tui", "ssh" or "web"
	Player    string
	Outcome   string
	Journal   snake.Journal
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// SSH and web sessions save concurrently
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			frontend TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL,
			length INTEGER NOT NULL,
			moves TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_frontend ON replays(frontend);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay records a finished or abandoned run. An empty ID is filled in
// with a new UUID. Returns the stored ID.
func (s *Store) SaveReplay(entry ReplayEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeAbandoned
		if entry.Journal.Over {
			entry.Outcome = OutcomeGameOver
		}
	}

	moves, err := json.Marshal(entry.Journal.Moves)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode moves: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO replays (id, frontend, player, outcome, seed, ticks, score, length, moves)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Frontend,
		entry.Player,
		entry.Outcome,
		entry.Journal.Seed,
		int64(entry.Journal.Ticks),
		entry.Journal.Score,
		entry.Journal.Length,
		string(moves),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save replay: %w", err)
	}

	return entry.ID, nil
}

// Replay retrieves a stored run by ID, including its moves.
func (s *Store) Replay(id string) (*ReplayEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, frontend, player, outcome, seed, ticks, score, length, moves, created_at
		 FROM replays
		 WHERE id = ?`,
		id,
	)

	entry, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return entry, nil
}

// RecentReplays retrieves the most recent runs, newest first.
func (s *Store) RecentReplays(limit int) ([]ReplayEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, frontend, player, outcome, seed, ticks, score, length, moves, created_at
		 FROM replays
		 ORDER BY seq DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		entry, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteReplay removes a stored run.
func (s *Store) DeleteReplay(id string) error {
	res, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(sc scanner) (*ReplayEntry, error) {
	var (
		e         ReplayEntry
		ticks     int64
		moves     string
		createdAt any
	)
	if err := sc.Scan(
		&e.ID,
		&e.Frontend,
		&e.Player,
		&e.Outcome,
		&e.Journal.Seed,
		&ticks,
		&e.Journal.Score,
		&e.Journal.Length,
		&moves,
		&createdAt,
	); err != nil {
		return nil, err
	}

	e.Journal.Ticks = uint64(ticks)
	e.Journal.Over = e.Outcome == OutcomeGameOver
	if err := json.Unmarshal([]byte(moves), &e.Journal.Moves); err != nil {
		return nil, fmt.Errorf("decode moves for %s: %w", e.ID, err)
	}
	e.CreatedAt = parseTime(createdAt)

	return &e, nil
}

// parseTime handles both time.Time and string values for DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
