package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/chiefotto/clustercalculator/internal/datasource"
	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/metrics"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/chiefotto/clustercalculator/internal/repository"
)

// IngestionService merges freshly fetched game logs into the game log store
type IngestionService struct {
	provider  datasource.StatsProvider
	repo      repository.GameLogRepository
	refs      ReferenceSource
	validator *GameLogValidator
	logger    *logger.IngestionLogger
	clock     clockwork.Clock
	onRefresh func()
}

// NewIngestionService creates a new ingestion service. onRefresh runs after every
// successful write and may be nil.
func NewIngestionService(
	provider datasource.StatsProvider,
	repo repository.GameLogRepository,
	refs ReferenceSource,
	validator *GameLogValidator,
	logger *logger.IngestionLogger,
	clock clockwork.Clock,
	onRefresh func(),
) *IngestionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &IngestionService{
		provider:  provider,
		repo:      repo,
		refs:      refs,
		validator: validator,
		logger:    logger,
		clock:     clock,
		onRefresh: onRefresh,
	}
}

// RefreshGameLogs fetches the season's game logs and appends the rows whose
// (game_id, player_id) key is not stored yet. Stored rows are never modified apart
// from a missing opponent id being filled in. A failed fetch leaves the store untouched.
func (s *IngestionService) RefreshGameLogs(ctx context.Context) (models.UpsertResult, error) {
	start := s.clock.Now()

	existing, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("failed to load game logs: %w", err)
	}

	fresh, err := s.provider.FetchPlayerGameLogs(ctx)
	if err != nil {
		s.logger.LogUpstreamFailure("playergamelogs", err)
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
		}
		return models.UpsertResult{}, fmt.Errorf("failed to fetch game logs: %w", err)
	}
	if s.validator != nil {
		fresh = s.validator.Filter(fresh)
	}

	merged, added := mergeGameLogs(existing, fresh)

	s.backfillOpponents(ctx, merged)
	if n := countMatchupMismatches(merged); n > 0 {
		s.logger.LogMatchupMismatch(n)
	}

	if err := s.repo.ReplaceAll(ctx, merged); err != nil {
		return models.UpsertResult{}, fmt.Errorf("failed to write game logs: %w", err)
	}
	if s.onRefresh != nil {
		s.onRefresh()
	}

	result := models.UpsertResult{
		Added:    added,
		Total:    len(merged),
		WasEmpty: len(existing) == 0,
	}
	elapsed := s.clock.Since(start)
	metrics.RecordRefresh(result.Added, result.Total, elapsed.Seconds())
	s.logger.LogUpsert(result.Added, result.Total, result.WasEmpty, float64(elapsed.Milliseconds()))

	return result, nil
}

// mergeGameLogs appends the fresh rows whose key is new. With an empty store the
// fresh rows are deduplicated keeping the first occurrence; otherwise duplicates
// among the new rows keep the last occurrence. added counts distinct new keys.
func mergeGameLogs(existing, fresh []models.GameLogRow) ([]models.GameLogRow, int) {
	if len(existing) == 0 {
		out := dedupeKeepFirst(fresh)
		return out, len(out)
	}

	stored := make(map[models.GameLogKey]bool, len(existing))
	for _, r := range existing {
		stored[r.Key()] = true
	}

	var novel []models.GameLogRow
	for _, r := range fresh {
		if !stored[r.Key()] {
			novel = append(novel, r)
		}
	}
	novel = dedupeKeepLast(novel)

	out := make([]models.GameLogRow, 0, len(existing)+len(novel))
	out = append(out, existing...)
	out = append(out, novel...)
	return dedupeKeepLast(out), len(novel)
}

func dedupeKeepFirst(rows []models.GameLogRow) []models.GameLogRow {
	seen := make(map[models.GameLogKey]bool, len(rows))
	out := make([]models.GameLogRow, 0, len(rows))
	for _, r := range rows {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}

// dedupeKeepLast keeps the last row per key at the position of its first occurrence
func dedupeKeepLast(rows []models.GameLogRow) []models.GameLogRow {
	index := make(map[models.GameLogKey]int, len(rows))
	out := make([]models.GameLogRow, 0, len(rows))
	for _, r := range rows {
		if i, ok := index[r.Key()]; ok {
			out[i] = r
			continue
		}
		index[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}

// backfillOpponents resolves missing opponent ids from MATCHUP. A registry that
// cannot be read skips the backfill.
func (s *IngestionService) backfillOpponents(ctx context.Context, rows []models.GameLogRow) {
	if s.refs == nil {
		return
	}
	teams, err := s.refs.Teams(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Team registry unavailable, skipping opponent backfill")
		return
	}
	registry := models.NewTeamRegistry(teams)

	filled := 0
	for i := range rows {
		if rows[i].HasOpponent() {
			continue
		}
		_, opp, ok := ParseMatchup(rows[i].Matchup)
		if !ok {
			continue
		}
		team, ok := registry.LookupAbbreviation(opp)
		if !ok {
			continue
		}
		rows[i].OpponentTeamID = team.ID
		if rows[i].OpponentName == "" {
			rows[i].OpponentName = team.FullName
		}
		filled++
	}
	if filled > 0 {
		s.logger.WithField("rows", filled).Debug("Backfilled opponent ids from matchup")
	}
}

func countMatchupMismatches(rows []models.GameLogRow) int {
	n := 0
	for _, r := range rows {
		if r.TeamAbbreviation == "" {
			continue
		}
		team, _, ok := ParseMatchup(r.Matchup)
		if ok && team != strings.ToUpper(r.TeamAbbreviation) {
			n++
		}
	}
	return n
}
