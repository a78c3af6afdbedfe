package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/chiefotto/clustercalculator/internal/dvp"
	"github.com/chiefotto/clustercalculator/internal/models"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func renderUpsert(w io.Writer, result models.UpsertResult) {
	if result.WasEmpty {
		fmt.Fprintf(w, "Game log store was empty; wrote %d rows\n", result.Total)
		return
	}
	fmt.Fprintf(w, "Added %d new rows (total %d)\n", result.Added, result.Total)
}

func renderSlate(w io.Writer, day time.Time, games []models.SlateGame) {
	fmt.Fprintf(w, "Slate for %s\n", day.Format("2006-01-02"))
	if len(games) == 0 {
		fmt.Fprintln(w, "No games scheduled")
		return
	}

	table := newTable(w, "Game", "Matchup", "Away", "Away Cluster", "Home", "Home Cluster")
	for _, g := range games {
		table.Append([]string{
			g.GameID,
			g.Label(),
			teamRef(g.Away),
			clusterLabel(g.Away.Cluster),
			teamRef(g.Home),
			clusterLabel(g.Home.Cluster),
		})
	}
	table.Render()
}

func renderMatchup(w io.Writer, view models.MatchupView) {
	renderTargetAvoid(w, view.Away.Team, view.Away.Targets, view.Away.Avoids)
	renderTargetAvoid(w, view.Home.Team, view.Home.Targets, view.Home.Avoids)

	fmt.Fprintln(w, "\nPlayers")
	if len(view.Players) == 0 {
		fmt.Fprintln(w, "No eligible players")
		return
	}
	table := newTable(w, "Player ID", "Player", "Team", "Position", "Games")
	for _, p := range view.Players {
		table.Append([]string{
			strconv.Itoa(p.PlayerID),
			p.PlayerName,
			p.TeamName,
			orDash(p.Position),
			strconv.Itoa(p.GamesLogged),
		})
	}
	table.Render()
}

func renderTeamDefense(w io.Writer, def models.TeamDefense) {
	renderTargetAvoid(w, def.Team, def.Targets, def.Avoids)
	if def.Position == "" {
		return
	}

	fmt.Fprintf(w, "\nvs %s (%s)\n", def.Position, strings.Join(def.Positions, ", "))
	if len(def.Factors) == 0 {
		fmt.Fprintln(w, "No defensive data for this position")
		return
	}
	table := newTable(w, "Rank", "Stat", "Def Factor", "vs League")
	for _, f := range def.Factors {
		table.Append([]string{
			strconv.Itoa(f.Rank),
			string(f.Stat),
			strconv.FormatFloat(f.DefFactor, 'f', 4, 64),
			dvp.FormatDefFactor(f.DefFactor),
		})
	}
	table.Render()
}

func renderTargetAvoid(w io.Writer, team models.TeamRecord, targets, avoids []models.PositionStatFactor) {
	fmt.Fprintf(w, "\n%s defense\n", orDash(team.FullName))
	table := newTable(w, "", "Position", "Stat", "vs League")
	for _, t := range targets {
		table.Append([]string{"target", t.Position, string(t.Stat), t.Display})
	}
	for _, a := range avoids {
		table.Append([]string{"avoid", a.Position, string(a.Stat), a.Display})
	}
	if len(targets)+len(avoids) == 0 {
		table.Append([]string{"-", "-", "-", "no edges"})
	}
	table.Render()
}

func renderReport(w io.Writer, r models.PlayerReport) {
	p := r.Projection
	clusterTeams := make([]string, 0, len(r.ClusterTeams))
	for _, t := range r.ClusterTeams {
		clusterTeams = append(clusterTeams, orDash(t.Abbreviation))
	}

	fmt.Fprintf(w, "%s vs %s (cluster %d: %s)\n", r.PlayerName, r.Opponent.FullName, r.OpponentCluster, strings.Join(clusterTeams, ", "))
	fmt.Fprintf(w, "%s line %.1f, %d games logged, report %s\n", p.Stat, p.Line, r.GamesLogged, r.ReportID)

	summary := newTable(w, "Sample", "N", "Mean", "Median", "Std", "Min", "P25", "P75", "Max")
	summary.Append(summaryRow("vs cluster", p.Cluster))
	summary.Append(summaryRow("rest of season", p.SeasonExCluster))
	summary.Render()

	table := newTable(w, "Blended", "Hit %", "Fair Odds", "Season Hit %", "Hit Delta", "Mean Delta", "Delta %", "Verdict")
	table.Append([]string{
		optFloat(p.Blended, 2),
		optPct(p.HitProbability),
		optOdds(p.FairOdds),
		optPct(p.SeasonHitProbability),
		optPct(p.HitRateDelta),
		optFloat(p.MeanDelta, 2),
		optPct(p.DeltaPct),
		string(p.Verdict),
	})
	table.Render()

	blended := newTable(w, "Stat", "Cluster Mean", "Season Mean", "Blended", "Cluster Games", "Season Games")
	for _, b := range r.Blended {
		blended.Append([]string{
			string(b.Stat),
			optFloat(b.ClusterMean, 2),
			optFloat(b.SeasonExClusterMean, 2),
			optFloat(b.Blended, 2),
			strconv.Itoa(b.ClusterGames),
			strconv.Itoa(b.SeasonGames),
		})
	}
	blended.Render()

	if len(r.DVPAdjusted) == 0 {
		fmt.Fprintln(w, "No DVP adjustment available")
		return
	}
	adjusted := newTable(w, "Rank", "Stat", "vs League", "Season Avg", "Projected")
	for _, a := range r.DVPAdjusted {
		adjusted.Append([]string{
			strconv.Itoa(a.Rank),
			string(a.Stat),
			a.Display,
			strconv.FormatFloat(a.SeasonAverage, 'f', 2, 64),
			strconv.FormatFloat(a.Projected, 'f', 2, 64),
		})
	}
	adjusted.Render()
}

func summaryRow(label string, s models.Summary) []string {
	if s.Empty() {
		return []string{label, "0", "-", "-", "-", "-", "-", "-", "-"}
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	return []string{label, strconv.Itoa(s.N), f(s.Mean), f(s.Median), f(s.Std), f(s.Min), f(s.P25), f(s.P75), f(s.Max)}
}

func teamRef(t models.SlateTeam) string {
	if t.Abbreviation != "" {
		return t.Abbreviation
	}
	return strconv.Itoa(t.TeamID)
}

func clusterLabel(c *int) string {
	if c == nil {
		return "?"
	}
	return strconv.Itoa(*c)
}

func optFloat(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', places, 64)
}

func optPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}

func optOdds(v *int) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return "+" + strconv.Itoa(*v)
	}
	return strconv.Itoa(*v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
