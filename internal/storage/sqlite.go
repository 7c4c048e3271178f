// Package storage provides SQLite-based persistence: a cache of
// fetched contribution grids and a history of generated animations.
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

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gh-space-shooter/internal/game"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RenderEntry records one generated animation.
type RenderEntry struct {
	ID         int64
	Username   string
	Policy     string
	FrameCount int
	Ticks      int
	Cleared    bool
	CreatedAt  time.Time
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS contribution_cache (
			username TEXT PRIMARY KEY,
			counts TEXT NOT NULL,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			policy TEXT NOT NULL,
			frame_count INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			cleared INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_renders_username ON renders(username, created_at DESC);
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

// SaveGrid upserts the cached contribution grid for a username.
func (s *Store) SaveGrid(username string, g *game.Grid) error {
	counts := g.Counts()
	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("storage: cannot encode grid: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO contribution_cache (username, counts, fetched_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(username) DO UPDATE SET counts = excluded.counts, fetched_at = CURRENT_TIMESTAMP`,
		username, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save grid: %w", err)
	}
	return nil
}

// CachedGrid returns the cached grid for a username if it was fetched
// within maxAge. The second return is false on a cache miss.
func (s *Store) CachedGrid(username string, maxAge time.Duration) (*game.Grid, bool, error) {
	var countsJSON string
	var fetchedAt any
	err := s.db.QueryRow(
		`SELECT counts, fetched_at FROM contribution_cache WHERE username = ?`,
		username,
	).Scan(&countsJSON, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot query cache: %w", err)
	}

	if age, ok := sinceTimestamp(fetchedAt); !ok || age > maxAge {
		return nil, false, nil
	}

	var counts [game.NumWeeks][game.NumDays]int
	if err := json.Unmarshal([]byte(countsJSON), &counts); err != nil {
		return nil, false, fmt.Errorf("storage: cannot decode cached grid: %w", err)
	}
	grid, err := game.NewGrid(counts)
	if err != nil {
		return nil, false, fmt.Errorf("storage: cached grid invalid: %w", err)
	}
	return grid, true, nil
}

// SaveRender records a generated animation.
// Returns the ID of the inserted record.
func (s *Store) SaveRender(e RenderEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO renders (username, policy, frame_count, ticks, cleared)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Username, e.Policy, e.FrameCount, e.Ticks, boolToInt(e.Cleared),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save render: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRenders retrieves the last N renders for a username, most
// recent first.
func (s *Store) RecentRenders(username string, limit int) ([]RenderEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, username, policy, frame_count, ticks, cleared, created_at
		 FROM renders
		 WHERE username = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query renders: %w", err)
	}
	defer rows.Close()

	var entries []RenderEntry
	for rows.Next() {
		var e RenderEntry
		var cleared int
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Username, &e.Policy, &e.FrameCount, &e.Ticks, &cleared, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Cleared = cleared != 0
		if t, ok := parseTimestamp(createdAt); ok {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// parseTimestamp handles both time.Time and string datetime columns.
func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func sinceTimestamp(v any) (time.Duration, bool) {
	t, ok := parseTimestamp(v)
	if !ok {
		return 0, false
	}
	return time.Since(t), true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
