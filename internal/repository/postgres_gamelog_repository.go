package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chiefotto/clustercalculator/internal/database"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/jackc/pgx/v5"
)

const gameLogColumns = `game_id, player_id, game_date, season_year, player_name, team_id, team_abbreviation,
	team_name, opponent_team_id, opponent_name, matchup, wl, stats`

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game log repository
func NewPostgresGameLogRepository(db *database.DB) *PostgresGameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

// LoadAll returns every stored row
func (r *PostgresGameLogRepository) LoadAll(ctx context.Context) ([]models.GameLogRow, error) {
	query := `SELECT ` + gameLogColumns + ` FROM game_logs ORDER BY game_date, game_id, player_id`
	return r.query(ctx, query)
}

// GetByPlayer returns one player's rows
func (r *PostgresGameLogRepository) GetByPlayer(ctx context.Context, playerID int) ([]models.GameLogRow, error) {
	query := `SELECT ` + gameLogColumns + ` FROM game_logs WHERE player_id = $1 ORDER BY game_date, game_id`
	return r.query(ctx, query, playerID)
}

// ReplaceAll truncates the table and bulk loads rows in one transaction
func (r *PostgresGameLogRepository) ReplaceAll(ctx context.Context, rows []models.GameLogRow) error {
	columns := []string{
		"game_id", "player_id", "game_date", "season_year", "player_name", "team_id", "team_abbreviation",
		"team_name", "opponent_team_id", "opponent_name", "matchup", "wl", "stats",
	}

	copyFromSource := make([][]interface{}, len(rows))
	for i, row := range rows {
		stats, err := json.Marshal(finiteStats(row.Stats))
		if err != nil {
			return fmt.Errorf("failed to encode stats for game %s player %d: %w", row.GameID, row.PlayerID, err)
		}
		copyFromSource[i] = []interface{}{
			row.GameID, row.PlayerID, row.GameDate, row.SeasonYear, row.PlayerName, row.TeamID,
			row.TeamAbbreviation, row.TeamName, row.OpponentTeamID, row.OpponentName, row.Matchup,
			row.WL, stats,
		}
	}

	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		conn := r.db.Conn(txCtx)
		if _, err := conn.Exec(txCtx, "TRUNCATE game_logs"); err != nil {
			return fmt.Errorf("failed to truncate game logs: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		count, err := conn.CopyFrom(txCtx, pgx.Identifier{"game_logs"}, columns, pgx.CopyFromRows(copyFromSource))
		if err != nil {
			return fmt.Errorf("failed to batch insert game logs: %w", err)
		}
		if count != int64(len(rows)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(rows))
		}
		return nil
	})
}

// Count returns the number of stored rows
func (r *PostgresGameLogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Conn(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM game_logs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count game logs: %w", err)
	}
	return n, nil
}

func (r *PostgresGameLogRepository) query(ctx context.Context, query string, args ...any) ([]models.GameLogRow, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	var out []models.GameLogRow
	for rows.Next() {
		var row models.GameLogRow
		var stats []byte
		if err := rows.Scan(
			&row.GameID, &row.PlayerID, &row.GameDate, &row.SeasonYear, &row.PlayerName, &row.TeamID,
			&row.TeamAbbreviation, &row.TeamName, &row.OpponentTeamID, &row.OpponentName, &row.Matchup,
			&row.WL, &stats,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game log: %w", err)
		}
		if err := json.Unmarshal(stats, &row.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode stats for game %s player %d: %w", row.GameID, row.PlayerID, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game logs: %w", err)
	}
	return out, nil
}
