package main

import (
	"context"
	"fmt"

	"github.com/chiefotto/clustercalculator/internal/cache"
	"github.com/chiefotto/clustercalculator/internal/config"
	"github.com/chiefotto/clustercalculator/internal/database"
	"github.com/chiefotto/clustercalculator/internal/datasource"
	"github.com/chiefotto/clustercalculator/internal/duck"
	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/repository"
	"github.com/chiefotto/clustercalculator/internal/service"
)

// app holds the wired services for one command invocation
type app struct {
	analysis  *service.AnalysisService
	ingestion *service.IngestionService
	db        *database.DB
	reader    *duck.Reader
}

func newApp(ctx context.Context) (*app, error) {
	reader, err := duck.NewReader(appLog, cfg.Storage.DuckDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	a := &app{reader: reader}

	var repo repository.GameLogRepository
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		repo = repository.NewMemoryGameLogRepository()
	case config.BackendParquet:
		repo = duck.NewParquetGameLogStore(reader, cfg.Storage.GameLogPath)
	case config.BackendPostgres:
		a.db, err = database.Initialize(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(a.db)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
		repo = repos.GameLogs
	default:
		a.Close()
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	refs := service.NewFileReferenceSource(reader, cfg.Storage)
	provider := datasource.NewStatsProvider(cfg.StatsProvider, appLog)

	a.analysis = service.NewAnalysisService(refs, provider, repo, cache.NewMemo(nil), cfg.Analysis, nil, appLog)

	ingestionLog := logger.NewIngestionLogger(appLog)
	a.ingestion = service.NewIngestionService(
		provider,
		repo,
		refs,
		service.NewGameLogValidator(ingestionLog),
		ingestionLog,
		nil,
		a.analysis.InvalidateGameLogs,
	)
	return a, nil
}

// Close releases the database pool and the duckdb handle
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.reader != nil {
		if err := a.reader.Close(); err != nil {
			appLog.WithError(err).Warn("Failed to close duckdb")
		}
	}
}
