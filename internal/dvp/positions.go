package dvp

import (
	"sort"
	"strings"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// Position groups used by rosters
const (
	GroupGuard         = "G"
	GroupGuardForward  = "G-F"
	GroupForward       = "F"
	GroupForwardCenter = "F-C"
	GroupCenter        = "C"
)

// groupPositions maps a roster position group to the DVP positions it covers
var groupPositions = map[string][]string{
	GroupGuard:         {models.PositionPG, models.PositionSG},
	GroupGuardForward:  {models.PositionSG, models.PositionSF},
	GroupForward:       {models.PositionSF, models.PositionPF},
	GroupForwardCenter: {models.PositionSF, models.PositionPF, models.PositionC},
	GroupCenter:        {models.PositionC},
}

// tokenGroups maps a normalized position key (lowercase tokens, sorted, joined by "-")
// to the groups whose positions it covers.
var tokenGroups = map[string][]string{
	"g":       {GroupGuard},
	"f":       {GroupForward},
	"c":       {GroupCenter},
	"f-g":     {GroupGuardForward},
	"c-f":     {GroupForwardCenter},
	"pg-sg":   {GroupGuard},
	"sf-sg":   {GroupGuardForward},
	"pf-sf":   {GroupForward},
	"c-pf-sf": {GroupForwardCenter},
	"pf-sg":   {GroupGuardForward, GroupForward},
}

// singlePositions are DVP positions that resolve to themselves
var singlePositions = map[string]string{
	"pg": models.PositionPG,
	"sg": models.PositionSG,
	"sf": models.PositionSF,
	"pf": models.PositionPF,
}

// NormalizePositionKey lowercases a roster position, splits it on dashes, slashes and
// spaces, sorts the tokens and rejoins them with "-".
func NormalizePositionKey(position string) string {
	tokens := strings.FieldsFunc(strings.ToLower(position), func(r rune) bool {
		return r == '-' || r == '/' || r == ' ' || r == '\t'
	})
	sort.Strings(tokens)
	return strings.Join(tokens, "-")
}

// ResolvePositions maps a roster position string to DVP positions in canonical order.
// Unknown combinations resolve to nil.
func ResolvePositions(position string) []string {
	key := NormalizePositionKey(position)
	if key == "" {
		return nil
	}

	if groups, ok := tokenGroups[key]; ok {
		set := make(map[string]bool)
		for _, g := range groups {
			for _, p := range groupPositions[g] {
				set[p] = true
			}
		}
		return ordered(set)
	}

	if p, ok := singlePositions[key]; ok {
		return []string{p}
	}
	return nil
}

func ordered(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, p := range models.AllPositions {
		if set[p] {
			out = append(out, p)
		}
	}
	return out
}
