package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/chiefotto/clustercalculator/internal/cache"
	"github.com/chiefotto/clustercalculator/internal/cluster"
	"github.com/chiefotto/clustercalculator/internal/config"
	"github.com/chiefotto/clustercalculator/internal/datasource"
	"github.com/chiefotto/clustercalculator/internal/dvp"
	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/metrics"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/chiefotto/clustercalculator/internal/projection"
	"github.com/chiefotto/clustercalculator/internal/repository"
	"github.com/chiefotto/clustercalculator/internal/roster"
)

// errSourceUnavailable marks failures that degrade to an empty result
var errSourceUnavailable = errors.New("source unavailable")

// AnalysisService wires the reference tables, game logs and rosters into the
// projection pipeline. Derived tables are memoized.
type AnalysisService struct {
	refs       ReferenceSource
	provider   datasource.StatsProvider
	repo       repository.GameLogRepository
	memo       *cache.Memo
	cfg        config.AnalysisConfig
	clock      clockwork.Clock
	reconciler *roster.Reconciler
	log        *logrus.Entry
	plog       *logger.ProjectionLogger
	ilog       *logger.IngestionLogger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	refs ReferenceSource,
	provider datasource.StatsProvider,
	repo repository.GameLogRepository,
	memo *cache.Memo,
	cfg config.AnalysisConfig,
	clock clockwork.Clock,
	log *logrus.Logger,
) *AnalysisService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if memo == nil {
		memo = cache.NewMemo(clock)
	}
	if cfg.TargetCount <= 0 {
		cfg.TargetCount = dvp.DefaultTargetCount
	}
	return &AnalysisService{
		refs:       refs,
		provider:   provider,
		repo:       repo,
		memo:       memo,
		cfg:        cfg,
		clock:      clock,
		reconciler: roster.NewReconciler(cfg.MinGames),
		log:        log.WithField("component", "analysis"),
		plog:       logger.NewProjectionLogger(log),
		ilog:       logger.NewIngestionLogger(log),
	}
}

// Registry returns the team registry
func (s *AnalysisService) Registry(ctx context.Context) (*models.TeamRegistry, error) {
	return cache.Remember(s.memo, cache.KindRegistry, cache.Key(cache.KindRegistry), s.cfg.DVPCacheTTL,
		func() (*models.TeamRegistry, error) {
			teams, err := s.refs.Teams(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load team registry: %w", err)
			}
			return models.NewTeamRegistry(teams), nil
		})
}

// Grouper returns the cluster index
func (s *AnalysisService) Grouper(ctx context.Context) (*cluster.Grouper, error) {
	return cache.Remember(s.memo, cache.KindGrouper, cache.Key(cache.KindGrouper), s.cfg.DVPCacheTTL,
		func() (*cluster.Grouper, error) {
			assignments, err := s.refs.ClusterAssignments(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load cluster assignments: %w", err)
			}
			return cluster.NewGrouper(assignments)
		})
}

// DefensiveTable returns the normalized DVP table with def_factors applied. An
// unreadable source degrades to an empty table that is not memoized.
func (s *AnalysisService) DefensiveTable(ctx context.Context) ([]models.DVPRow, error) {
	registry, err := s.Registry(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := cache.Remember(s.memo, cache.KindDVP, cache.Key(cache.KindDVP), s.cfg.DVPCacheTTL,
		func() ([]models.DVPRow, error) {
			start := s.clock.Now()
			raw, err := s.refs.DVPTable(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errSourceUnavailable, err)
			}
			normalized, err := dvp.NewNormalizer(registry).Normalize(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to normalize dvp table: %w", err)
			}
			table, _ := dvp.ApplyDefFactors(normalized)

			unresolved := dvp.Unresolved(table)
			for _, abbr := range unresolved {
				s.plog.LogUnresolved("dvp_team", abbr)
			}
			metrics.RecordDVPRebuild(len(unresolved))
			s.plog.LogDefensiveTable(len(table), len(unresolved), float64(s.clock.Since(start).Milliseconds()))
			return table, nil
		})
	if errors.Is(err, errSourceUnavailable) {
		s.log.WithError(err).Warn("DVP source unavailable, using an empty defensive table")
		return []models.DVPRow{}, nil
	}
	return rows, err
}

// GameLogs returns every stored game log row
func (s *AnalysisService) GameLogs(ctx context.Context) ([]models.GameLogRow, error) {
	return cache.Remember(s.memo, cache.KindGameLogs, cache.Key(cache.KindGameLogs), s.cfg.DVPCacheTTL,
		func() ([]models.GameLogRow, error) {
			rows, err := s.repo.LoadAll(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load game logs: %w", err)
			}
			return rows, nil
		})
}

// InvalidateGameLogs drops the memoized game logs after the store changed
func (s *AnalysisService) InvalidateGameLogs() {
	s.memo.Invalidate(cache.KindGameLogs)
}

// Roster returns a team's current roster. A provider failure degrades to an empty
// roster that is not memoized.
func (s *AnalysisService) Roster(ctx context.Context, teamID int) ([]models.RosterEntry, error) {
	entries, err := cache.Remember(s.memo, cache.KindRoster, cache.Key(cache.KindRoster, teamID), s.cfg.RosterCacheTTL,
		func() ([]models.RosterEntry, error) {
			return s.provider.FetchTeamRoster(ctx, teamID)
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.ilog.LogUpstreamFailure("commonteamroster", err)
		return []models.RosterEntry{}, nil
	}
	return entries, nil
}

// Schedule returns the season schedule. A provider failure degrades to an empty
// schedule that is not memoized.
func (s *AnalysisService) Schedule(ctx context.Context) ([]models.ScheduledGame, error) {
	games, err := cache.Remember(s.memo, cache.KindSchedule, cache.Key(cache.KindSchedule), s.cfg.RosterCacheTTL,
		func() ([]models.ScheduledGame, error) {
			return s.provider.FetchSchedule(ctx)
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.ilog.LogUpstreamFailure("scheduleleaguev2", err)
		return []models.ScheduledGame{}, nil
	}
	return games, nil
}

// Slate returns the games scheduled on the calendar date of day, annotated with
// team names and clusters. Teams missing from the registry or the cluster table
// keep only their id.
func (s *AnalysisService) Slate(ctx context.Context, day time.Time) ([]models.SlateGame, error) {
	games, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := s.Registry(ctx)
	if err != nil {
		return nil, err
	}
	grouper, err := s.Grouper(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := day.Date()
	slate := make([]models.SlateGame, 0)
	for _, g := range games {
		gy, gm, gd := g.GameDate.Date()
		if gy != y || gm != m || gd != d {
			continue
		}
		slate = append(slate, models.SlateGame{
			GameID:   g.GameID,
			GameDate: g.GameDate,
			Home:     s.slateTeam(g.HomeTeamID, registry, grouper),
			Away:     s.slateTeam(g.AwayTeamID, registry, grouper),
		})
	}
	return slate, nil
}

func (s *AnalysisService) slateTeam(teamID int, registry *models.TeamRegistry, grouper *cluster.Grouper) models.SlateTeam {
	team := models.SlateTeam{TeamID: teamID}
	if rec, ok := registry.Lookup(teamID); ok {
		team.Name = rec.FullName
		team.Abbreviation = rec.Abbreviation
	} else {
		s.plog.LogUnresolved("registry_team", teamID)
	}
	if c, err := grouper.ClusterOf(teamID); err == nil {
		team.Cluster = &c
	} else {
		s.plog.LogUnresolved("cluster_team", teamID)
	}
	return team
}

// TeamDVP returns a team's target/avoid lists and, when position is set, the
// ranked factors against that roster position.
func (s *AnalysisService) TeamDVP(ctx context.Context, teamID int, position string) (models.TeamDefense, error) {
	registry, err := s.Registry(ctx)
	if err != nil {
		return models.TeamDefense{}, err
	}
	team, err := registry.MustLookup(teamID)
	if err != nil {
		return models.TeamDefense{}, err
	}
	table, err := s.DefensiveTable(ctx)
	if err != nil {
		return models.TeamDefense{}, err
	}

	out := models.TeamDefense{Team: team, Position: position}
	out.Targets, out.Avoids = dvp.TargetAvoid(dvp.FilterByTeam(table, teamID), s.cfg.TargetCount, s.cfg.MinEdge)
	if position != "" {
		out.Positions = dvp.ResolvePositions(position)
		out.Factors = dvp.OpponentFactors(table, teamID, position)
	}
	return out, nil
}

// MatchupPlayers lists the rostered players of both teams with enough logged games
func (s *AnalysisService) MatchupPlayers(ctx context.Context, sel models.Selection) ([]models.MatchupPlayer, error) {
	if err := sel.ValidateMatchup(); err != nil {
		return nil, err
	}
	logs, err := s.GameLogs(ctx)
	if err != nil {
		return nil, err
	}

	var rosters []models.RosterEntry
	for _, teamID := range sel.TeamIDs() {
		entries, err := s.Roster(ctx, teamID)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, entries...)
	}
	return s.reconciler.Reconcile(logs, rosters, sel), nil
}

// Matchup returns both defenses' target/avoid lists and the eligible players
func (s *AnalysisService) Matchup(ctx context.Context, sel models.Selection) (models.MatchupView, error) {
	if err := sel.ValidateMatchup(); err != nil {
		return models.MatchupView{}, err
	}

	home, err := s.TeamDVP(ctx, sel.HomeTeamID, "")
	if err != nil {
		return models.MatchupView{}, err
	}
	away, err := s.TeamDVP(ctx, sel.AwayTeamID, "")
	if err != nil {
		return models.MatchupView{}, err
	}
	players, err := s.MatchupPlayers(ctx, sel)
	if err != nil {
		return models.MatchupView{}, err
	}

	return models.MatchupView{
		Selection: sel,
		Home:      models.TeamMatchup{Team: home.Team, Targets: home.Targets, Avoids: home.Avoids},
		Away:      models.TeamMatchup{Team: away.Team, Targets: away.Targets, Avoids: away.Avoids},
		Players:   players,
	}, nil
}

// PlayerReport projects the selected player's stat against the opponent's cluster
// and scales the season averages by the opponent's def_factors.
func (s *AnalysisService) PlayerReport(ctx context.Context, sel models.Selection) (models.PlayerReport, error) {
	start := s.clock.Now()
	if sel.PlayerTeamID == 0 {
		resolved, err := s.resolvePlayerTeam(ctx, sel)
		if err != nil {
			return models.PlayerReport{}, err
		}
		sel = resolved
	}
	if err := sel.ValidatePlayer(); err != nil {
		return models.PlayerReport{}, err
	}

	registry, err := s.Registry(ctx)
	if err != nil {
		return models.PlayerReport{}, err
	}
	opponent, err := registry.MustLookup(sel.OpponentTeamID())
	if err != nil {
		return models.PlayerReport{}, err
	}
	grouper, err := s.Grouper(ctx)
	if err != nil {
		return models.PlayerReport{}, err
	}
	clusterID, _, err := grouper.Peers(opponent.ID)
	if err != nil {
		return models.PlayerReport{}, err
	}

	logs, err := s.GameLogs(ctx)
	if err != nil {
		return models.PlayerReport{}, err
	}
	var rows []models.GameLogRow
	for _, r := range logs {
		if r.PlayerID == sel.PlayerID {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return models.PlayerReport{}, fmt.Errorf("player %d has no game logs: %w", sel.PlayerID, models.ErrInsufficientSample)
	}

	playerName := rows[len(rows)-1].PlayerName
	if sel.PlayerPosition == "" {
		entries, err := s.Roster(ctx, sel.PlayerTeamID)
		if err != nil {
			return models.PlayerReport{}, err
		}
		for _, e := range entries {
			if e.PlayerID == sel.PlayerID {
				sel.PlayerPosition = e.Position
				break
			}
		}
	}

	table, err := s.DefensiveTable(ctx)
	if err != nil {
		return models.PlayerReport{}, err
	}

	members := grouper.MemberSet(clusterID)
	report := models.PlayerReport{
		ReportID:        uuid.New(),
		GeneratedAt:     s.clock.Now(),
		Selection:       sel,
		PlayerName:      playerName,
		Opponent:        opponent,
		OpponentCluster: clusterID,
		ClusterTeams:    grouper.Teams(clusterID, registry),
		GamesLogged:     len(rows),
		Projection:      projection.Project(rows, members, sel.Stat, sel.Line),
		Blended:         projection.BlendStats(rows, members, models.HeadlineStats),
		DVPAdjusted:     projection.DVPAdjusted(rows, dvp.OpponentFactors(table, opponent.ID, sel.PlayerPosition)),
	}

	if report.Projection.InsufficientData {
		s.plog.LogInsufficientSample(sel.PlayerID, clusterID, string(sel.Stat))
	}
	elapsed := s.clock.Since(start)
	verdict := string(report.Projection.Verdict)
	metrics.RecordReport(verdict, elapsed.Seconds())
	s.plog.LogReport(report.ReportID.String(), sel.PlayerID, opponent.ID, clusterID, string(sel.Stat),
		sel.Line, report.Projection.Cluster.N, verdict, float64(elapsed.Milliseconds()))

	return report, nil
}

// resolvePlayerTeam picks the matchup side the player logged for most recently,
// falling back to the current rosters.
func (s *AnalysisService) resolvePlayerTeam(ctx context.Context, sel models.Selection) (models.Selection, error) {
	if err := sel.ValidateMatchup(); err != nil {
		return sel, err
	}
	logs, err := s.GameLogs(ctx)
	if err != nil {
		return sel, err
	}
	var latest time.Time
	for _, r := range logs {
		if r.PlayerID != sel.PlayerID || (r.TeamID != sel.HomeTeamID && r.TeamID != sel.AwayTeamID) {
			continue
		}
		if sel.PlayerTeamID == 0 || !r.GameDate.Before(latest) {
			sel.PlayerTeamID = r.TeamID
			latest = r.GameDate
		}
	}
	if sel.PlayerTeamID != 0 {
		return sel, nil
	}

	for _, teamID := range sel.TeamIDs() {
		entries, err := s.Roster(ctx, teamID)
		if err != nil {
			return sel, err
		}
		for _, e := range entries {
			if e.PlayerID == sel.PlayerID {
				sel.PlayerTeamID = teamID
				return sel, nil
			}
		}
	}
	return sel, fmt.Errorf("player %d is not on either team: %w", sel.PlayerID, models.ErrInvalidSelection)
}
