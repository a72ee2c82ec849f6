package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"matchhistory/internal/history"
	"matchhistory/internal/playedwith"
)

// CreateTables creates the export schema if it does not exist
func (db *DB) CreateTables(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS history_games (
			owner TEXT NOT NULL,
			match_id TEXT NOT NULL,
			queue TEXT NOT NULL,
			outcome TEXT NOT NULL,
			champion TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			minutes DOUBLE PRECISION NOT NULL,
			kills INTEGER NOT NULL,
			deaths INTEGER NOT NULL,
			assists INTEGER NOT NULL,
			kda DOUBLE PRECISION NOT NULL,
			kill_participation INTEGER NOT NULL,
			cs INTEGER NOT NULL,
			damage INTEGER NOT NULL,
			damage_share INTEGER,
			vision INTEGER NOT NULL,
			detail JSONB NOT NULL,
			PRIMARY KEY (owner, match_id)
		);

		CREATE TABLE IF NOT EXISTS played_with (
			owner TEXT NOT NULL,
			player_key TEXT NOT NULL,
			username TEXT NOT NULL,
			ally BOOLEAN NOT NULL,
			games INTEGER NOT NULL,
			wins INTEGER NOT NULL,
			losses INTEGER NOT NULL,
			win_rate DOUBLE PRECISION NOT NULL,
			last_played TIMESTAMPTZ,
			PRIMARY KEY (owner, player_key)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// ExportGames upserts games for owner in one batch
func (db *DB) ExportGames(ctx context.Context, owner string, games []history.DerivedGame) error {
	batch := &pgx.Batch{}
	for i := range games {
		g := &games[i]
		detail, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal game %s: %w", g.MatchID, err)
		}

		batch.Queue(`
			INSERT INTO history_games (
				owner, match_id, queue, outcome, champion, role, created_at, minutes,
				kills, deaths, assists, kda, kill_participation, cs, damage, damage_share, vision, detail
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (owner, match_id) DO UPDATE SET
				queue = EXCLUDED.queue,
				outcome = EXCLUDED.outcome,
				role = EXCLUDED.role,
				kda = EXCLUDED.kda,
				kill_participation = EXCLUDED.kill_participation,
				damage_share = EXCLUDED.damage_share,
				detail = EXCLUDED.detail
		`, owner, g.MatchID, g.Queue, string(g.Outcome), g.Champion, string(g.Role), g.CreatedAt, g.Minutes,
			g.Kills, g.Deaths, g.Assists, g.KDA, g.KillParticipation, g.CS, g.Damage, g.DamageShare, g.Vision, detail)
	}
	return db.sendBatch(ctx, batch, "games")
}

// ExportRelationships replaces owner's played-with rows with rels
func (db *DB) ExportRelationships(ctx context.Context, owner string, rels []*playedwith.Relationship) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM played_with WHERE owner = $1`, owner)
	for _, rel := range rels {
		s := rel.Summary()
		var lastPlayed any
		if !s.LastPlayed.IsZero() {
			lastPlayed = s.LastPlayed
		}
		batch.Queue(`
			INSERT INTO played_with (owner, player_key, username, ally, games, wins, losses, win_rate, last_played)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, owner, s.Key, s.Username, s.Ally, s.Games, s.Wins, s.Losses, s.WinRate, lastPlayed)
	}
	return db.sendBatch(ctx, batch, "relationships")
}

// sendBatch runs the batch inside a transaction
func (db *DB) sendBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to export %s: %w", what, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", what, err)
	}
	return nil
}

// GameCount returns how many games are stored for owner
func (db *DB) GameCount(ctx context.Context, owner string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM history_games WHERE owner = $1`, owner).Scan(&count)
	return count, err
}

// AllyCount returns how many allies are stored for owner
func (db *DB) AllyCount(ctx context.Context, owner string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM played_with WHERE owner = $1 AND ally`, owner).Scan(&count)
	return count, err
}
