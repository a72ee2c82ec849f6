// Package data keeps a local SQLite cache of raw match-v5 payloads so the
// history can be rebuilt without hitting the API again.
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CachedMatch is one cached payload
type CachedMatch struct {
	ID        string
	CreatedAt time.Time
	Payload   json.RawMessage
}

// MatchCache stores raw match JSON keyed by match id
type MatchCache struct {
	db *sql.DB
}

// DefaultCachePath returns the per-user location of the cache database
func DefaultCachePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "MatchHistory", "matches.db"), nil
}

// OpenMatchCache opens (creating if needed) the cache at path
func OpenMatchCache(path string) (*MatchCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	c := &MatchCache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// init creates the schema
func (c *MatchCache) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			payload BLOB NOT NULL,
			fetched_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database
func (c *MatchCache) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for a match
func (c *MatchCache) Get(ctx context.Context, matchID string) (json.RawMessage, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM matches WHERE match_id = ?`, matchID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read match %s: %w", matchID, err)
	}
	return json.RawMessage(payload), true, nil
}

// Put inserts or replaces one payload
func (c *MatchCache) Put(ctx context.Context, m CachedMatch) error {
	return c.PutMany(ctx, []CachedMatch{m})
}

// PutMany upserts payloads in a single transaction
func (c *MatchCache) PutMany(ctx context.Context, matches []CachedMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches (match_id, created_at, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			created_at = excluded.created_at,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range matches {
		if _, err := stmt.ExecContext(ctx, m.ID, m.CreatedAt.UnixMilli(), []byte(m.Payload), now); err != nil {
			return fmt.Errorf("failed to store match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Count returns the number of cached matches
func (c *MatchCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

// Recent returns up to limit payloads, newest first. limit <= 0 returns all.
func (c *MatchCache) Recent(ctx context.Context, limit int) ([]CachedMatch, error) {
	query := `SELECT match_id, created_at, payload FROM matches ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var out []CachedMatch
	for rows.Next() {
		var (
			m       CachedMatch
			created int64
			payload []byte
		)
		if err := rows.Scan(&m.ID, &created, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.CreatedAt = time.UnixMilli(created).UTC()
		m.Payload = json.RawMessage(payload)
		out = append(out, m)
	}
	return out, rows.Err()
}
