package repository

import (
	"context"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// GameLogRepository defines the interface for game log storage. The store is
// replaced wholesale on refresh; readers always see a complete snapshot.
type GameLogRepository interface {
	LoadAll(ctx context.Context) ([]models.GameLogRow, error)
	GetByPlayer(ctx context.Context, playerID int) ([]models.GameLogRow, error)
	ReplaceAll(ctx context.Context, rows []models.GameLogRow) error
	Count(ctx context.Context) (int, error)
}
