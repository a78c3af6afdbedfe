package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/chiefotto/clustercalculator/internal/dvp"
	"github.com/chiefotto/clustercalculator/internal/models"
)

// Analyzer is the analysis surface served over HTTP
type Analyzer interface {
	Registry(ctx context.Context) (*models.TeamRegistry, error)
	Slate(ctx context.Context, day time.Time) ([]models.SlateGame, error)
	Matchup(ctx context.Context, sel models.Selection) (models.MatchupView, error)
	PlayerReport(ctx context.Context, sel models.Selection) (models.PlayerReport, error)
	TeamDVP(ctx context.Context, teamID int, position string) (models.TeamDefense, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	analysis    Analyzer
	refresh     RefreshFunc
	defaultLine float64
}

// NewHandler creates a new handler
func NewHandler(analysis Analyzer, refresh RefreshFunc, defaultLine float64) *Handler {
	return &Handler{analysis: analysis, refresh: refresh, defaultLine: defaultLine}
}

// GetSlate returns the games on a date, today by default
func (h *Handler) GetSlate(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		day = parsed
	}

	games, err := h.analysis.Slate(r.Context(), day)
	if err != nil {
		respondServiceError(w, "Failed to build slate", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":  day.Format("2006-01-02"),
		"games": games,
		"count": len(games),
	})
}

// GetMatchup returns both teams' target/avoid lists and the eligible players
func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.matchupSelection(w, r)
	if !ok {
		return
	}

	view, err := h.analysis.Matchup(r.Context(), sel)
	if err != nil {
		respondServiceError(w, "Failed to build matchup", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// GetPlayerReport returns the cluster projection for one player, stat and line
func (h *Handler) GetPlayerReport(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.matchupSelection(w, r)
	if !ok {
		return
	}

	playerID, err := strconv.Atoi(mux.Vars(r)["player"])
	if err != nil || playerID <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid player id", err)
		return
	}
	sel.PlayerID = playerID

	query := r.URL.Query()
	statStr := query.Get("stat")
	if statStr == "" {
		statStr = string(models.StatPoints)
	}
	sel.Stat, err = models.ParseStatColumn(statStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid stat", err)
		return
	}

	sel.Line = h.defaultLine
	if lineStr := query.Get("line"); lineStr != "" {
		sel.Line, err = strconv.ParseFloat(lineStr, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid line", err)
			return
		}
	}
	if err := sel.ValidateLine(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid line", err)
		return
	}
	sel.PlayerPosition = query.Get("position")

	report, err := h.analysis.PlayerReport(r.Context(), sel)
	if err != nil {
		respondServiceError(w, "Failed to build player report", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetTeamDVP returns a team's defensive profile, optionally against a position
func (h *Handler) GetTeamDVP(w http.ResponseWriter, r *http.Request) {
	registry, err := h.analysis.Registry(r.Context())
	if err != nil {
		respondServiceError(w, "Failed to load team registry", err)
		return
	}
	team, err := ResolveTeam(registry, mux.Vars(r)["team"])
	if err != nil {
		respondServiceError(w, "Unknown team", err)
		return
	}

	def, err := h.analysis.TeamDVP(r.Context(), team.ID, r.URL.Query().Get("position"))
	if err != nil {
		respondServiceError(w, "Failed to build defensive profile", err)
		return
	}

	respondJSON(w, http.StatusOK, def)
}

// RefreshGameLogs runs a game log upsert
func (h *Handler) RefreshGameLogs(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		respondError(w, http.StatusServiceUnavailable, "Refresh is not configured", nil)
		return
	}

	result, err := h.refresh(r.Context())
	if err != nil {
		respondServiceError(w, "Failed to refresh game logs", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) matchupSelection(w http.ResponseWriter, r *http.Request) (models.Selection, bool) {
	registry, err := h.analysis.Registry(r.Context())
	if err != nil {
		respondServiceError(w, "Failed to load team registry", err)
		return models.Selection{}, false
	}

	vars := mux.Vars(r)
	home, err := ResolveTeam(registry, vars["home"])
	if err != nil {
		respondServiceError(w, "Unknown home team", err)
		return models.Selection{}, false
	}
	away, err := ResolveTeam(registry, vars["away"])
	if err != nil {
		respondServiceError(w, "Unknown away team", err)
		return models.Selection{}, false
	}

	return models.Selection{HomeTeamID: home.ID, AwayTeamID: away.ID}, true
}

// ResolveTeam accepts a numeric team id or an abbreviation, including the short
// forms used by the DVP feed.
func ResolveTeam(registry *models.TeamRegistry, ref string) (models.TeamRecord, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return registry.MustLookup(id)
	}
	if t, ok := registry.LookupAbbreviation(dvp.TranslateAbbreviation(ref)); ok {
		return t, nil
	}
	return models.TeamRecord{}, fmt.Errorf("team %q: %w", ref, models.ErrTeamNotFound)
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidSelection), errors.Is(err, models.ErrUnknownStat):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTeamNotFound), errors.Is(err, models.ErrTeamNotClustered),
		errors.Is(err, models.ErrClusterNotFound), errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientSample):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, message string, err error) {
	respondError(w, statusFor(err), message, err)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
