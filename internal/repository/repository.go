package repository

import (
	"fmt"
	"math"
	"sort"

	"github.com/chiefotto/clustercalculator/internal/database"
	"github.com/chiefotto/clustercalculator/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	GameLogs GameLogRepository
}

// NewRepositories creates the Postgres-backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &Repositories{GameLogs: NewPostgresGameLogRepository(db)}, nil
}

// finiteStats drops NaN and infinite values, which are treated as missing
func finiteStats(stats map[models.StatColumn]float64) map[models.StatColumn]float64 {
	out := make(map[models.StatColumn]float64, len(stats))
	for k, v := range stats {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

// sortRows orders rows by date, then game, then player
func sortRows(rows []models.GameLogRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.GameDate.Equal(b.GameDate) {
			return a.GameDate.Before(b.GameDate)
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.PlayerID < b.PlayerID
	})
}
