package database

import (
	"context"
	"fmt"

	"github.com/chiefotto/clustercalculator/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_logs (
	game_id            TEXT        NOT NULL,
	player_id          BIGINT      NOT NULL,
	game_date          TIMESTAMPTZ NOT NULL,
	season_year        TEXT        NOT NULL DEFAULT '',
	player_name        TEXT        NOT NULL DEFAULT '',
	team_id            BIGINT      NOT NULL,
	team_abbreviation  TEXT        NOT NULL DEFAULT '',
	team_name          TEXT        NOT NULL DEFAULT '',
	opponent_team_id   BIGINT      NOT NULL DEFAULT 0,
	opponent_name      TEXT        NOT NULL DEFAULT '',
	matchup            TEXT        NOT NULL DEFAULT '',
	wl                 TEXT        NOT NULL DEFAULT '',
	stats              JSONB       NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (game_id, player_id)
);
CREATE INDEX IF NOT EXISTS game_logs_player_idx ON game_logs (player_id);
CREATE INDEX IF NOT EXISTS game_logs_opponent_idx ON game_logs (opponent_team_id);
`

// Initialize creates a connection pool and ensures the game log schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema. It is idempotent.
func Migrate(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
