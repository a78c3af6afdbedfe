package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chiefotto/clustercalculator/internal/models"
)

func TestOptionalFormatting(t *testing.T) {
	p, odds, neg := 0.625, 150, -300

	assert.Equal(t, "62.5%", optPct(&p))
	assert.Equal(t, "-", optPct(nil))
	assert.Equal(t, "+150", optOdds(&odds))
	assert.Equal(t, "-300", optOdds(&neg))
	assert.Equal(t, "-", optOdds(nil))
	assert.Equal(t, "0.62", optFloat(&p, 2))
	assert.Equal(t, "?", clusterLabel(nil))
}

func TestRenderSlate(t *testing.T) {
	two := 2
	games := []models.SlateGame{{
		GameID: "0022600001",
		Home:   models.SlateTeam{TeamID: 1610612747, Name: "Los Angeles Lakers", Abbreviation: "LAL", Cluster: &two},
		Away:   models.SlateTeam{TeamID: 99},
	}}

	var buf bytes.Buffer
	renderSlate(&buf, time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC), games)

	out := buf.String()
	assert.Contains(t, out, "Slate for 2026-10-20")
	assert.Contains(t, out, "? @ Los Angeles Lakers")
	assert.Contains(t, out, "LAL")

	buf.Reset()
	renderSlate(&buf, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), nil)
	assert.Contains(t, buf.String(), "No games scheduled")
}

func TestRenderReport(t *testing.T) {
	hit, odds := 0.5, -100
	report := models.PlayerReport{
		PlayerName:      "LeBron James",
		Opponent:        models.TeamRecord{ID: 1610612738, FullName: "Boston Celtics", Abbreviation: "BOS"},
		OpponentCluster: 1,
		ClusterTeams:    []models.TeamRecord{{Abbreviation: "BOS"}, {Abbreviation: "NYK"}},
		GamesLogged:     4,
		Projection: models.Projection{
			Stat:           models.StatPoints,
			Line:           17,
			Cluster:        models.Summary{N: 2, Mean: 18},
			HitProbability: &hit,
			FairOdds:       &odds,
			Verdict:        models.VerdictValue,
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "cluster 1: BOS, NYK")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "-100")
	assert.Contains(t, out, "value")
	assert.Contains(t, out, "No DVP adjustment available")
}

func TestRenderTeamDefense(t *testing.T) {
	def := models.TeamDefense{
		Team:      models.TeamRecord{FullName: "Boston Celtics"},
		Position:  "G",
		Positions: []string{"PG", "SG"},
		Targets:   []models.PositionStatFactor{{Position: "PG", Stat: models.DVPPoints, DefFactor: 1.1, Display: "+10%"}},
		Factors:   []models.StatFactor{{Stat: models.DVPPoints, DefFactor: 1.1, Rank: 1}},
	}

	var buf bytes.Buffer
	renderTeamDefense(&buf, def)

	out := buf.String()
	assert.Contains(t, out, "Boston Celtics defense")
	assert.Contains(t, out, "target")
	assert.Contains(t, out, "vs G (PG, SG)")
	assert.Contains(t, out, "1.1000")
}
