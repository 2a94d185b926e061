package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/internal/pipeline"
	"nba-season-dashboard/internal/view"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// LoadLister lists past season loads
type LoadLister interface {
	ListLoads(ctx context.Context, limit int) ([]model.LoadRun, error)
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// DashboardHandler serves dashboard queries over one session
type DashboardHandler struct {
	session *pipeline.Session
	loads   LoadLister
	metrics []model.SourceMetrics
}

// NewDashboardHandler creates a handler. loads may be nil when the ledger is disabled.
func NewDashboardHandler(session *pipeline.Session, loads LoadLister, metrics []model.SourceMetrics) *DashboardHandler {
	return &DashboardHandler{
		session: session,
		loads:   loads,
		metrics: metrics,
	}
}

// HealthCheck reports service status
// @Summary Health check
// @Description Service status and the loaded season labels
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Service healthy"
// @Router /health [get]
func (h *DashboardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"timestamp":    time.Now().UTC(),
		"service":      "nba-season-dashboard",
		"session":      h.session.ID,
		"season":       h.session.Current.Label,
		"prior_season": h.session.Prior.Label,
	})
}

// GetFilters returns the selection universe
// @Summary Get filters
// @Description Players, teams and selectable statistics of the current season
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.Filters "Dropdown values"
// @Router /api/v1/filters [get]
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Filters())
}

// GetSeasons returns dataset metadata
// @Summary Get seasons
// @Description Metadata and load metrics of both loaded seasons
// @Tags seasons
// @Produce json
// @Success 200 {object} map[string]interface{} "Dataset metadata"
// @Router /api/v1/seasons [get]
func (h *DashboardHandler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": h.session.Datasets(),
		"metrics":  h.metrics,
	})
}

// GetLoads returns the load ledger
// @Summary List loads
// @Description History of season loads, newest first
// @Tags seasons
// @Produce json
// @Param limit query int false "Maximum number of loads" default(50)
// @Success 200 {object} map[string]interface{} "Load runs"
// @Failure 500 {object} ErrorResponse "Ledger read failed"
// @Router /api/v1/loads [get]
func (h *DashboardHandler) GetLoads(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	if h.loads == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"loads":   []model.LoadRun{},
			"count":   0,
			"enabled": false,
		})
		return
	}

	runs, err := h.loads.ListLoads(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list loads", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"loads":   runs,
		"count":   len(runs),
		"enabled": true,
	})
}

// GetPlayerDashboard returns the player tab
// @Summary Player dashboard
// @Description Metric cards, season averages and per-game series for a player and statistic
// @Tags dashboard
// @Produce json
// @Param name query string true "Player name"
// @Param stat query string false "Statistic column, defaults to the first selectable one"
// @Success 200 {object} model.PlayerDashboard "Player dashboard"
// @Failure 400 {object} ErrorResponse "Missing player or unknown statistic"
// @Failure 404 {object} ErrorResponse "Player not in current season"
// @Router /api/v1/dashboard/player [get]
func (h *DashboardHandler) GetPlayerDashboard(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "query parameter name is required", nil)
		return
	}

	dash, err := h.session.PlayerDashboard(r.Context(), name, h.statOrDefault(r.URL.Query().Get("stat")))
	if err != nil {
		respondError(w, statusFor(err), err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

// GetTeamDashboard returns the team tab
// @Summary Team dashboard
// @Description Metric cards and game history for a team
// @Tags dashboard
// @Produce json
// @Param team path string true "Team code, e.g. BOS"
// @Success 200 {object} model.TeamDashboard "Team dashboard"
// @Failure 404 {object} ErrorResponse "Team not in current season"
// @Router /api/v1/dashboard/team/{team} [get]
func (h *DashboardHandler) GetTeamDashboard(w http.ResponseWriter, r *http.Request) {
	team := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "team")))

	dash, err := h.session.TeamDashboard(r.Context(), team)
	if err != nil {
		respondError(w, statusFor(err), err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

// Page renders the HTML dashboard. Missing selections default to the first
// entry of each dropdown.
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	filters := h.session.Filters()
	q := r.URL.Query()

	data := view.PageData{
		Filters:        filters,
		SelectedPlayer: firstOr(q.Get("player"), filters.Players),
		SelectedTeam:   strings.ToUpper(firstOr(q.Get("team"), filters.Teams)),
		SelectedStat:   h.statOrDefault(q.Get("stat")),
	}

	if data.SelectedPlayer != "" {
		dash, err := h.session.PlayerDashboard(r.Context(), data.SelectedPlayer, data.SelectedStat)
		if err != nil {
			data.PlayerError = err.Error()
		}
		data.Player = dash
	}
	if data.SelectedTeam != "" {
		dash, err := h.session.TeamDashboard(r.Context(), data.SelectedTeam)
		if err != nil {
			data.TeamError = err.Error()
		}
		data.Team = dash
	}

	templ.Handler(view.DashboardPage(data)).ServeHTTP(w, r)
}

func (h *DashboardHandler) statOrDefault(stat string) string {
	stat = strings.TrimSpace(stat)
	if stat != "" {
		return stat
	}
	stats := h.session.Filters().Stats
	if len(stats) == 0 {
		return ""
	}
	return stats[0].String()
}

func firstOr(v string, options []string) string {
	v = strings.TrimSpace(v)
	if v != "" || len(options) == 0 {
		return v
	}
	return options[0]
}

// statusFor maps dashboard errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownStat):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("❌ error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		fmt.Printf("❌ error: %s - %v\n", message, err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
