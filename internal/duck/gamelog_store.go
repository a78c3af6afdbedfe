package duck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chiefotto/clustercalculator/internal/models"
)

const stagingTable = "staging_game_logs"

// ParquetGameLogStore persists game logs as a single parquet file. Writes go to a
// temporary file that is renamed over the old one.
type ParquetGameLogStore struct {
	reader *Reader
	path   string
	mu     sync.RWMutex
}

// NewParquetGameLogStore creates a store backed by the file at path
func NewParquetGameLogStore(reader *Reader, path string) *ParquetGameLogStore {
	return &ParquetGameLogStore{reader: reader, path: path}
}

// Path returns the parquet file location
func (s *ParquetGameLogStore) Path() string {
	return s.path
}

// LoadAll reads every row. A missing file is an empty store.
func (s *ParquetGameLogStore) LoadAll(ctx context.Context) ([]models.GameLogRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.reader.ReadTable(ctx, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return models.ParseGameLogTable(t)
}

// GetByPlayer returns one player's rows
func (s *ParquetGameLogStore) GetByPlayer(ctx context.Context, playerID int) ([]models.GameLogRow, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.GameLogRow
	for _, r := range all {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Count returns the number of stored rows
func (s *ParquetGameLogStore) Count(ctx context.Context) (int, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// ReplaceAll writes rows to a fresh parquet file
func (s *ParquetGameLogStore) ReplaceAll(ctx context.Context, rows []models.GameLogRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create game log directory: %w", err)
	}
	tmp := s.path + ".tmp"

	conn, err := s.reader.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire duckdb connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createStagingSQL()); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	defer conn.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+stagingTable)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin staging transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertStagingSQL())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare staging insert: %w", err)
	}
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, stagingArgs(r)...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("failed to stage game %s player %d: %w", r.GameID, r.PlayerID, err)
		}
	}
	_ = stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit staging transaction: %w", err)
	}

	copySQL := fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET)", stagingTable, quoteLiteral(tmp))
	if _, err := conn.ExecContext(ctx, copySQL); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.reader.log.WithField("rows", len(rows)).WithField("path", s.path).Debug("Game logs written")
	return nil
}

func createStagingSQL() string {
	cols := []string{
		quoteIdent(models.ColSeasonYear) + " VARCHAR",
		quoteIdent(models.ColPlayerID) + " BIGINT",
		quoteIdent(models.ColPlayerName) + " VARCHAR",
		quoteIdent(models.ColTeamID) + " BIGINT",
		quoteIdent(models.ColTeamAbbreviation) + " VARCHAR",
		quoteIdent(models.ColTeamName) + " VARCHAR",
		quoteIdent(models.ColGameID) + " VARCHAR",
		quoteIdent(models.ColGameDate) + " TIMESTAMP",
		quoteIdent(models.ColMatchup) + " VARCHAR",
		quoteIdent(models.ColWL) + " VARCHAR",
		quoteIdent(models.ColOpponentTeamID) + " BIGINT",
		quoteIdent(models.ColOpponentTeamName) + " VARCHAR",
	}
	for _, stat := range models.AllStatColumns {
		cols = append(cols, quoteIdent(string(stat))+" DOUBLE")
	}
	return fmt.Sprintf("CREATE OR REPLACE TEMP TABLE %s (%s)", stagingTable, strings.Join(cols, ", "))
}

func insertStagingSQL() string {
	n := len(models.GameLogIdentityColumns) + len(models.AllStatColumns)
	marks := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", stagingTable, marks)
}

func stagingArgs(r models.GameLogRow) []any {
	var opponent any
	if r.HasOpponent() {
		opponent = int64(r.OpponentTeamID)
	}
	args := []any{
		r.SeasonYear, int64(r.PlayerID), r.PlayerName, int64(r.TeamID), r.TeamAbbreviation, r.TeamName,
		r.GameID, r.GameDate, r.Matchup, r.WL, opponent, r.OpponentName,
	}
	for _, stat := range models.AllStatColumns {
		if v, ok := r.Value(stat); ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	return args
}
