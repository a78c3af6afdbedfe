package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chiefotto/clustercalculator/internal/api"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/chiefotto/clustercalculator/internal/scheduler"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the season's game logs and append new rows to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.ingestion.RefreshGameLogs(cmd.Context())
			if err != nil {
				return err
			}
			renderUpsert(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newSlateCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "slate",
		Short: "List the games on a date with each team's cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q (use YYYY-MM-DD): %w", date, err)
				}
				day = parsed
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			games, err := a.analysis.Slate(cmd.Context(), day)
			if err != nil {
				return err
			}
			renderSlate(cmd.OutOrStdout(), day, games)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Slate date (YYYY-MM-DD), today by default")
	return cmd
}

func newMatchupCmd() *cobra.Command {
	var home, away string
	cmd := &cobra.Command{
		Use:   "matchup",
		Short: "Show target/avoid lists and eligible players for a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sel, err := resolveMatchup(cmd.Context(), a, home, away)
			if err != nil {
				return err
			}
			view, err := a.analysis.Matchup(cmd.Context(), sel)
			if err != nil {
				return err
			}
			renderMatchup(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&home, "home", "", "Home team id or abbreviation")
	cmd.Flags().StringVar(&away, "away", "", "Away team id or abbreviation")
	cmd.MarkFlagRequired("home")
	cmd.MarkFlagRequired("away")
	return cmd
}

func newProjectCmd() *cobra.Command {
	var (
		home, away, stat, position string
		player                     int
		line                       float64
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a player's stat line against the opponent's cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			column, err := models.ParseStatColumn(stat)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sel, err := resolveMatchup(cmd.Context(), a, home, away)
			if err != nil {
				return err
			}
			sel.PlayerID = player
			sel.PlayerPosition = position
			sel.Stat = column
			sel.Line = cfg.Analysis.DefaultLine
			if cmd.Flags().Changed("line") {
				sel.Line = line
			}

			report, err := a.analysis.PlayerReport(cmd.Context(), sel)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&home, "home", "", "Home team id or abbreviation")
	cmd.Flags().StringVar(&away, "away", "", "Away team id or abbreviation")
	cmd.Flags().IntVar(&player, "player", 0, "Player id")
	cmd.Flags().StringVar(&stat, "stat", string(models.StatPoints), "Stat column, e.g. PTS, REB, AST, FG3M")
	cmd.Flags().Float64Var(&line, "line", 0, "Prop line; the configured default_line when omitted")
	cmd.Flags().StringVar(&position, "position", "", "Roster position override, e.g. G-F")
	cmd.MarkFlagRequired("home")
	cmd.MarkFlagRequired("away")
	cmd.MarkFlagRequired("player")
	return cmd
}

func newDVPCmd() *cobra.Command {
	var team, position string
	cmd := &cobra.Command{
		Use:   "dvp",
		Short: "Show a team's defense-vs-position profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			registry, err := a.analysis.Registry(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := api.ResolveTeam(registry, team)
			if err != nil {
				return err
			}
			def, err := a.analysis.TeamDVP(cmd.Context(), rec.ID, position)
			if err != nil {
				return err
			}
			renderTeamDefense(cmd.OutOrStdout(), def)
			return nil
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "Team id or abbreviation")
	cmd.Flags().StringVar(&position, "position", "", "Roster position, e.g. SG-PF")
	cmd.MarkFlagRequired("team")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the scheduled game log refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sched := scheduler.NewScheduler(a.ingestion, appLog)
			if cfg.Schedule.RefreshEnabled {
				if err := sched.ScheduleRefresh(cfg.Schedule.RefreshCron); err != nil {
					return err
				}
				if err := sched.Start(); err != nil {
					return err
				}
				defer sched.Stop()
			}

			serverCfg := api.Config{
				ServiceName:  cfg.App.Name,
				Version:      Version + "+" + GitCommit,
				Port:         cfg.Server.Port,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
				MetricsPath:  cfg.Metrics.Path,
				NoMetrics:    !cfg.Metrics.Enabled,
				DefaultLine:  cfg.Analysis.DefaultLine,
				Logger:       appLog,
				Analysis:     a.analysis,
				Refresh:      sched.RunNow,
			}
			if a.db != nil {
				serverCfg.DB = a.db
			}
			server := api.NewServer(serverCfg)
			server.SetReady(true)

			return server.Start(ctx)
		},
	}
}

func resolveMatchup(ctx context.Context, a *app, home, away string) (models.Selection, error) {
	registry, err := a.analysis.Registry(ctx)
	if err != nil {
		return models.Selection{}, err
	}
	h, err := api.ResolveTeam(registry, home)
	if err != nil {
		return models.Selection{}, err
	}
	w, err := api.ResolveTeam(registry, away)
	if err != nil {
		return models.Selection{}, err
	}
	return models.Selection{HomeTeamID: h.ID, AwayTeamID: w.ID}, nil
}
