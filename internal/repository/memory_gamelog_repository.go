package repository

import (
	"context"
	"sync"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// MemoryGameLogRepository keeps game logs in process
type MemoryGameLogRepository struct {
	mu   sync.RWMutex
	rows []models.GameLogRow
}

// NewMemoryGameLogRepository creates an in-memory repository seeded with rows
func NewMemoryGameLogRepository(rows ...models.GameLogRow) *MemoryGameLogRepository {
	r := &MemoryGameLogRepository{}
	r.rows = cloneRows(rows)
	return r
}

// LoadAll returns a copy of every row
func (r *MemoryGameLogRepository) LoadAll(ctx context.Context) ([]models.GameLogRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRows(r.rows), nil
}

// GetByPlayer returns a copy of one player's rows
func (r *MemoryGameLogRepository) GetByPlayer(ctx context.Context, playerID int) ([]models.GameLogRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.GameLogRow
	for _, row := range r.rows {
		if row.PlayerID == playerID {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

// ReplaceAll swaps the stored rows
func (r *MemoryGameLogRepository) ReplaceAll(ctx context.Context, rows []models.GameLogRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := cloneRows(rows)
	sortRows(next)

	r.mu.Lock()
	r.rows = next
	r.mu.Unlock()
	return nil
}

// Count returns the number of stored rows
func (r *MemoryGameLogRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}

func cloneRows(rows []models.GameLogRow) []models.GameLogRow {
	if rows == nil {
		return nil
	}
	out := make([]models.GameLogRow, len(rows))
	for i, row := range rows {
		out[i] = cloneRow(row)
	}
	return out
}

func cloneRow(row models.GameLogRow) models.GameLogRow {
	stats := make(map[models.StatColumn]float64, len(row.Stats))
	for k, v := range row.Stats {
		stats[k] = v
	}
	row.Stats = stats
	return row
}
