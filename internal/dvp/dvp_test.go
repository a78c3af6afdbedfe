package dvp

import (
	"testing"

	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	celticsID = 1610612738
	knicksID  = 1610612752
	sunsID    = 1610612756
)

func testRegistry() *models.TeamRegistry {
	return models.NewTeamRegistry([]models.TeamRecord{
		{ID: celticsID, FullName: "Boston Celtics", Abbreviation: "BOS"},
		{ID: knicksID, FullName: "New York Knicks", Abbreviation: "NYK"},
		{ID: sunsID, FullName: "Phoenix Suns", Abbreviation: "PHX"},
	})
}

func feedTable() models.RawTable {
	return models.RawTable{
		Columns: []string{"Sort: Position", "Sort: Team", "Sort: PTS", "Sort: REB", "Sort: TO"},
		Rows: [][]string{
			{"PG", "BOS", "22.0  3", "4.0  10", "2.0  5"},
			{"SG", "BOS", "18.0  15", "4.5  2", "n/a"},
			{"PG", "NY", "20.0  7", "5.0  1", "3.0  1"},
			{"SG", "PHO", "20.0  8", "6.5  30", "2.5  9"},
			{"PG", "XXX", "20.0  9", "5.0  4", "2.5  2"},
		},
	}
}

func TestSplitValueAndRank(t *testing.T) {
	in := models.RawTable{
		Columns: []string{"Sort: Position", "Sort: PTS", "Notes"},
		Rows: [][]string{
			{"PG", "22.1  3", "one two"},
			{"SG", "19.4", "x"},
		},
	}

	out := SplitValueAndRank(in)

	assert.Equal(t, []string{"Sort: Position", "Sort: PTS", "Notes", "Sort: PTS_rank"}, out.Columns)
	require.Len(t, out.Rows, len(in.Rows))
	assert.Equal(t, []string{"PG", "22.1", "one two", "3"}, out.Rows[0])
	assert.Equal(t, []string{"SG", "19.4", "x", ""}, out.Rows[1])
	// input untouched
	assert.Equal(t, "22.1  3", in.Rows[0][1])
	assert.Len(t, in.Columns, 3)
}

func TestSplitValueAndRankOnlySplitsOnce(t *testing.T) {
	in := models.RawTable{
		Columns: []string{"A"},
		Rows:    [][]string{{"1   2   3"}},
	}

	out := SplitValueAndRank(in)

	assert.Equal(t, []string{"A", "A_rank"}, out.Columns)
	assert.Equal(t, []string{"1", "2   3"}, out.Rows[0])
}

func TestTranslateAbbreviation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NY", "NYK"},
		{"PHO", "PHX"},
		{"GS", "GSW"},
		{"SA", "SAS"},
		{"NO", "NOP"},
		{"BOS", "BOS"},
		{" ny ", "NYK"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := TranslateAbbreviation(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, TranslateAbbreviation(got), "translation must be idempotent")
		})
	}
}

func TestNormalizeJoinsRegistry(t *testing.T) {
	rows, err := NewNormalizer(testRegistry()).Normalize(feedTable())
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, celticsID, rows[0].TeamID)
	assert.Equal(t, "Boston Celtics", rows[0].TeamName)
	assert.Equal(t, 22.0, rows[0].Values[models.DVPPoints])
	assert.Equal(t, 3, rows[0].Ranks[models.DVPPoints])
	assert.Equal(t, 2.0, rows[0].Values[models.DVPTurnovers])

	_, ok := rows[1].Value(models.DVPTurnovers)
	assert.False(t, ok, "non-numeric cell should be missing")

	assert.Equal(t, "NYK", rows[2].TeamAbbr)
	assert.Equal(t, knicksID, rows[2].TeamID)
	assert.Equal(t, sunsID, rows[3].TeamID)

	assert.False(t, rows[4].Resolved)
	assert.Zero(t, rows[4].TeamID)
	assert.Equal(t, []string{"XXX"}, Unresolved(rows))
}

func TestNormalizeMissingIdentityColumns(t *testing.T) {
	_, err := NewNormalizer(testRegistry()).Normalize(models.RawTable{Columns: []string{"Sort: PTS"}})
	assert.ErrorIs(t, err, models.ErrMissingColumn)
}

func TestApplyDefFactorsMeanIsOne(t *testing.T) {
	rows, err := NewNormalizer(testRegistry()).Normalize(feedTable())
	require.NoError(t, err)

	withFactors, avgs := ApplyDefFactors(rows)

	for stat := range avgs {
		var sum float64
		var n int
		for _, r := range withFactors {
			if f, ok := r.DefFactor(stat); ok {
				sum += f
				n++
			}
		}
		require.NotZero(t, n)
		assert.InDelta(t, 1.0, sum/float64(n), 1e-9, "stat %s", stat)
	}
}

func TestApplyDefFactorsExample(t *testing.T) {
	rows := []models.DVPRow{
		{Position: "PG", Values: map[models.DVPStat]float64{models.DVPPoints: 22.0}},
		{Position: "SG", Values: map[models.DVPStat]float64{models.DVPPoints: 18.0}},
	}

	out, avgs := ApplyDefFactors(rows)

	assert.Equal(t, 20.0, avgs[models.DVPPoints])
	f, ok := out[0].DefFactor(models.DVPPoints)
	require.True(t, ok)
	assert.InDelta(t, 1.10, f, 1e-12)
	assert.Equal(t, "+10%", FormatDefFactor(f))
	assert.Nil(t, rows[0].DefFactors, "input rows must not be modified")
}

func TestApplyDefFactorsSkipsZeroAverage(t *testing.T) {
	rows := []models.DVPRow{
		{Values: map[models.DVPStat]float64{models.DVPBlocks: 0, models.DVPPoints: 10}},
		{Values: map[models.DVPStat]float64{models.DVPBlocks: 0, models.DVPPoints: 10}},
	}

	out, _ := ApplyDefFactors(rows)

	_, ok := out[0].DefFactor(models.DVPBlocks)
	assert.False(t, ok)
	_, ok = out[0].DefFactor(models.DVPPoints)
	assert.True(t, ok)
}

func TestFormatDefFactor(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.12, "+12%"},
		{0.91, "-9%"},
		{1.0, "+0%"},
		{0.998, "+0%"},
		{1.5, "+50%"},
		{0.5, "-50%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDefFactor(tt.in), "factor %v", tt.in)
	}
}

func TestResolvePositions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"G", []string{"PG", "SG"}},
		{"g-f", []string{"SG", "SF"}},
		{"F", []string{"SF", "PF"}},
		{"F-C", []string{"SF", "PF", "C"}},
		{"C", []string{"C"}},
		{"PG-SG", []string{"PG", "SG"}},
		{"SF-PF", []string{"SF", "PF"}},
		{"SG-PF", []string{"SG", "SF", "PF"}},
		{"SF-PF-C", []string{"SF", "PF", "C"}},
		{"PG", []string{"PG"}},
		{"pf", []string{"PF"}},
		{"PG-C", nil},
		{"PF-C", nil},
		{"", nil},
		{"Coach", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePositions(tt.in))
		})
	}
}

func TestResolvePositionsOrderInsensitive(t *testing.T) {
	pairs := [][2]string{
		{"PG-SG", "SG-PG"},
		{"F-C", "C-F"},
		{"SG-PF", "PF-SG"},
		{"SF-PF-C", "C-SF-PF"},
		{"G-F", "F-G"},
	}
	for _, p := range pairs {
		assert.Equal(t, ResolvePositions(p[0]), ResolvePositions(p[1]), "%s vs %s", p[0], p[1])
	}
}

func factorRows() []models.DVPRow {
	mk := func(pos string, pts, reb, ast float64) models.DVPRow {
		return models.DVPRow{
			Position: pos,
			TeamAbbr: "BOS",
			TeamID:   celticsID,
			Resolved: true,
			DefFactors: map[models.DVPStat]float64{
				models.DVPPoints:   pts,
				models.DVPRebounds: reb,
				models.DVPAssists:  ast,
			},
		}
	}
	return []models.DVPRow{
		mk("PG", 1.10, 0.90, 1.01),
		mk("SG", 1.20, 0.80, 0.99),
		mk("SF", 1.00, 1.30, 0.85),
		mk("PF", 1.05, 0.97, 1.03),
		mk("C", 0.70, 1.02, 1.15),
		{Position: "PG", TeamID: knicksID, Resolved: true, DefFactors: map[models.DVPStat]float64{models.DVPPoints: 2.0}},
	}
}

func TestOpponentFactorsAveragesPositions(t *testing.T) {
	got := OpponentFactors(factorRows(), celticsID, "SF-PF")

	require.Len(t, got, 3)
	assert.Equal(t, models.DVPRebounds, got[0].Stat)
	assert.Equal(t, 1.135, got[0].DefFactor)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, models.DVPPoints, got[1].Stat)
	assert.Equal(t, 1.025, got[1].DefFactor)
	assert.Equal(t, models.DVPAssists, got[2].Stat)
	assert.Equal(t, 0.94, got[2].DefFactor)
	assert.Equal(t, 3, got[2].Rank)
}

func TestOpponentFactorsRankOneIsMax(t *testing.T) {
	for _, pos := range []string{"G", "F", "C", "G-F", "F-C", "SG-PF", "PG"} {
		got := OpponentFactors(factorRows(), celticsID, pos)
		require.NotEmpty(t, got, pos)
		for i, f := range got {
			assert.Equal(t, i+1, f.Rank)
			assert.LessOrEqual(t, f.DefFactor, got[0].DefFactor)
		}
	}
}

func TestOpponentFactorsEmpty(t *testing.T) {
	assert.Empty(t, OpponentFactors(factorRows(), celticsID, "Coach"))
	assert.Empty(t, OpponentFactors(factorRows(), sunsID, "PG"))
	assert.Empty(t, OpponentFactors(factorRows(), knicksID, "C"))
	assert.Empty(t, OpponentFactors(nil, celticsID, "PG"))
}

func TestTargetAvoid(t *testing.T) {
	rows := FilterByTeam(factorRows(), celticsID)

	targets, avoids := TargetAvoid(rows, 3, DefaultMinEdge)

	require.Len(t, targets, 3)
	assert.Equal(t, "SF", targets[0].Position)
	assert.Equal(t, models.DVPRebounds, targets[0].Stat)
	assert.Equal(t, "+30%", targets[0].Display)
	assert.Equal(t, 1.20, targets[1].DefFactor)
	assert.Equal(t, 1.15, targets[2].DefFactor)

	require.Len(t, avoids, 3)
	assert.Equal(t, 0.70, avoids[0].DefFactor, "toughest matchup first")
	assert.Equal(t, 0.80, avoids[1].DefFactor)
	assert.Equal(t, 0.85, avoids[2].DefFactor)
}

func TestTargetAvoidExcludesNearAverage(t *testing.T) {
	rows := FilterByTeam(factorRows(), celticsID)

	targets, avoids := TargetAvoid(rows, DefaultTargetCount, DefaultMinEdge)

	seen := make(map[string]bool)
	for _, tgt := range targets {
		assert.Greater(t, tgt.DefFactor, 1+DefaultMinEdge)
		seen[tgt.Position+string(tgt.Stat)] = true
	}
	for _, a := range avoids {
		assert.Less(t, a.DefFactor, 1-DefaultMinEdge)
		assert.False(t, seen[a.Position+string(a.Stat)], "target and avoid overlap")
	}
	for i := 1; i < len(avoids); i++ {
		assert.LessOrEqual(t, avoids[i-1].DefFactor, avoids[i].DefFactor)
	}
}

func TestTargetAvoidEmpty(t *testing.T) {
	targets, avoids := TargetAvoid(nil, DefaultTargetCount, DefaultMinEdge)
	assert.Empty(t, targets)
	assert.Empty(t, avoids)
}
