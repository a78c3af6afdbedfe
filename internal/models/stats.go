package models

import (
	"fmt"
	"strings"
)

// StatColumn is a column of the game log stat vector
type StatColumn string

// Game log stat columns
const (
	StatMinutes      StatColumn = "MIN"
	StatPoints       StatColumn = "PTS"
	StatRebounds     StatColumn = "REB"
	StatOffRebounds  StatColumn = "OREB"
	StatDefRebounds  StatColumn = "DREB"
	StatAssists      StatColumn = "AST"
	StatTurnovers    StatColumn = "TOV"
	StatSteals       StatColumn = "STL"
	StatBlocks       StatColumn = "BLK"
	StatBlocked      StatColumn = "BLKA"
	StatFouls        StatColumn = "PF"
	StatFoulsDrawn   StatColumn = "PFD"
	StatFGMade       StatColumn = "FGM"
	StatFGAttempted  StatColumn = "FGA"
	StatFG3Made      StatColumn = "FG3M"
	StatFG3Attempted StatColumn = "FG3A"
	StatFTMade       StatColumn = "FTM"
	StatFTAttempted  StatColumn = "FTA"
	StatPlusMinus    StatColumn = "PLUS_MINUS"
)

// AllStatColumns lists the stat vector in display order
var AllStatColumns = []StatColumn{
	StatMinutes, StatPoints, StatRebounds, StatAssists, StatTurnovers, StatSteals, StatBlocks,
	StatFouls, StatFGMade, StatFGAttempted, StatFG3Made, StatFG3Attempted, StatFTMade, StatFTAttempted,
	StatOffRebounds, StatDefRebounds, StatPlusMinus, StatBlocked, StatFoulsDrawn,
}

// HeadlineStats are the stats blended on every player report
var HeadlineStats = []StatColumn{StatPoints, StatRebounds, StatAssists}

// ParseStatColumn resolves a case-insensitive stat name
func ParseStatColumn(s string) (StatColumn, error) {
	want := StatColumn(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range AllStatColumns {
		if c == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStat)
}

// DVPStat is a stat category tracked by the defense-vs-position table
type DVPStat string

// Defense-vs-position categories
const (
	DVPPoints       DVPStat = "PTS"
	DVPFieldGoalPct DVPStat = "FG%"
	DVPFreeThrowPct DVPStat = "FT%"
	DVPThreesMade   DVPStat = "3PM"
	DVPRebounds     DVPStat = "REB"
	DVPAssists      DVPStat = "AST"
	DVPSteals       DVPStat = "STL"
	DVPBlocks       DVPStat = "BLK"
	DVPTurnovers    DVPStat = "TOV"
)

// AllDVPStats lists the tracked categories in source column order
var AllDVPStats = []DVPStat{
	DVPPoints, DVPFieldGoalPct, DVPFreeThrowPct, DVPThreesMade,
	DVPRebounds, DVPAssists, DVPSteals, DVPBlocks, DVPTurnovers,
}

// SourceColumn returns the header used for this category by the DVP feed
func (s DVPStat) SourceColumn() string {
	if s == DVPTurnovers {
		return "Sort: TO"
	}
	return "Sort: " + string(s)
}

// DVP feed identity columns
const (
	DVPPositionColumn = "Sort: Position"
	DVPTeamColumn     = "Sort: Team"
)
