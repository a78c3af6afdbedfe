package service

import (
	"context"
	"fmt"

	"github.com/chiefotto/clustercalculator/internal/config"
	"github.com/chiefotto/clustercalculator/internal/duck"
	"github.com/chiefotto/clustercalculator/internal/models"
)

// ReferenceSource loads the slowly changing reference tables
type ReferenceSource interface {
	Teams(ctx context.Context) ([]models.TeamRecord, error)
	ClusterAssignments(ctx context.Context) ([]models.ClusterAssignment, error)
	DVPTable(ctx context.Context) (models.RawTable, error)
}

// FileReferenceSource reads reference tables from CSV or parquet files
type FileReferenceSource struct {
	reader *duck.Reader
	paths  config.StorageConfig
}

// NewFileReferenceSource creates a reference source over the configured paths
func NewFileReferenceSource(reader *duck.Reader, paths config.StorageConfig) *FileReferenceSource {
	return &FileReferenceSource{reader: reader, paths: paths}
}

// Teams reads the team registry
func (s *FileReferenceSource) Teams(ctx context.Context) ([]models.TeamRecord, error) {
	if s.paths.TeamsPath == "" {
		return nil, fmt.Errorf("teams path: %w", models.ErrNotFound)
	}
	return s.reader.Teams(ctx, s.paths.TeamsPath)
}

// ClusterAssignments reads the team to cluster table
func (s *FileReferenceSource) ClusterAssignments(ctx context.Context) ([]models.ClusterAssignment, error) {
	if s.paths.ClustersPath == "" {
		return nil, fmt.Errorf("clusters path: %w", models.ErrNotFound)
	}
	return s.reader.ClusterAssignments(ctx, s.paths.ClustersPath)
}

// DVPTable reads the raw defense-vs-position feed
func (s *FileReferenceSource) DVPTable(ctx context.Context) (models.RawTable, error) {
	if s.paths.DVPPath == "" {
		return models.RawTable{}, fmt.Errorf("dvp path: %w", models.ErrNotFound)
	}
	return s.reader.ReadTable(ctx, s.paths.DVPPath)
}
