package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/pkg/utils"
)

// TeamSummaryRow is one exported team line
type TeamSummaryRow struct {
	Team        string                   `json:"team"`
	Season      string                   `json:"season"`
	PriorSeason string                   `json:"prior_season"`
	Games       int                      `json:"games"`
	Metrics     model.TeamComparison     `json:"metrics"`
	History     []model.GameDifferential `json:"history,omitempty"`
}

// PlayerSummaryRow is one exported player line
type PlayerSummaryRow struct {
	Player      string                 `json:"player"`
	Season      string                 `json:"season"`
	PriorSeason string                 `json:"prior_season"`
	Metrics     model.PlayerComparison `json:"metrics"`
}

// exportRow is what the CSV writer needs from a summary row
type exportRow interface {
	csvRecord() []string
}

var teamCSVHeader = []string{
	"team", "season", "prior_season", "games",
	"win_rate", "win_rate_prior", "win_rate_delta",
	"points_made_per_game", "points_made_per_game_prior", "points_made_per_game_delta",
	"points_suffered_per_game", "points_suffered_per_game_prior", "points_suffered_per_game_delta",
}

func (r TeamSummaryRow) csvRecord() []string {
	rec := []string{r.Team, r.Season, r.PriorSeason, strconv.Itoa(r.Games)}
	rec = append(rec, metricCells(r.Metrics.WinRate)...)
	rec = append(rec, metricCells(r.Metrics.PointsMade)...)
	rec = append(rec, metricCells(r.Metrics.PointsSuffered)...)
	return rec
}

var playerCSVHeader = []string{
	"player", "season", "prior_season", "stat", "prior_fallback",
	"games_played", "games_played_prior", "games_played_delta",
	"stat_average", "stat_average_prior", "stat_average_delta",
	"stat_high", "stat_high_prior", "stat_high_delta",
}

func (r PlayerSummaryRow) csvRecord() []string {
	rec := []string{r.Player, r.Season, r.PriorSeason, r.Metrics.Stat.String(), strconv.FormatBool(r.Metrics.PriorFallback)}
	rec = append(rec, metricCells(r.Metrics.GamesPlayed)...)
	rec = append(rec, metricCells(r.Metrics.StatAverage)...)
	rec = append(rec, metricCells(r.Metrics.StatHigh)...)
	return rec
}

func metricCells(m model.ComparativeMetric) []string {
	return []string{measureCell(m.Value), measureCell(m.Prior), measureCell(m.Delta)}
}

// measureCell leaves undefined values blank
func measureCell(m model.Measure) string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// ExportManager writes league summaries for one export run
type ExportManager struct {
	RunID   string
	Format  string // "csv" or "json"
	Output  *utils.OutputManager
	Results []model.ExportResult
}

// NewExportManager creates a manager writing under outputDir/runID
func NewExportManager(runID, format, outputDir string) *ExportManager {
	return &ExportManager{
		RunID:  runID,
		Format: strings.ToLower(format),
		Output: utils.NewOutputManager(outputDir),
	}
}

// ExportTeamSummaries compares every given team across both seasons and
// writes one row per team. Teams absent from the current season are skipped.
func (em *ExportManager) ExportTeamSummaries(ctx context.Context, s *Session, teams []string, withHistory bool) model.ExportResult {
	rows := make([]exportRow, 0, len(teams))
	jsonRows := make([]TeamSummaryRow, 0, len(teams))
	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			return em.record(model.ExportResult{Type: em.Format, Error: err.Error(), Timestamp: time.Now()})
		}
		dash, err := s.TeamDashboard(ctx, team)
		if errors.Is(err, ErrNotFound) {
			fmt.Printf("⚠️ Export: team %s not in %s, skipped\n", team, s.Current.Label)
			continue
		}
		if err != nil {
			return em.record(model.ExportResult{Type: em.Format, Error: err.Error(), Timestamp: time.Now()})
		}
		row := TeamSummaryRow{
			Team:        team,
			Season:      dash.Season,
			PriorSeason: dash.PriorSeason,
			Games:       len(dash.Games),
			Metrics:     dash.Metrics,
		}
		if withHistory {
			row.History = dash.Games
		}
		rows = append(rows, row)
		jsonRows = append(jsonRows, row)
	}
	return em.write("teams", teamCSVHeader, rows, jsonRows)
}

// ExportPlayerSummaries compares every given player on one statistic.
func (em *ExportManager) ExportPlayerSummaries(ctx context.Context, s *Session, players []string, statName string) model.ExportResult {
	stat, err := s.Current.Schema.ParseStat(statName)
	if err != nil {
		return em.record(model.ExportResult{Type: em.Format, Error: err.Error(), Timestamp: time.Now()})
	}

	rows := make([]exportRow, 0, len(players))
	jsonRows := make([]PlayerSummaryRow, 0, len(players))
	for _, player := range players {
		if err := ctx.Err(); err != nil {
			return em.record(model.ExportResult{Type: em.Format, Error: err.Error(), Timestamp: time.Now()})
		}
		current := s.PlayerSeries(ctx, s.Current, player)
		if current.IsEmpty() {
			continue
		}
		row := PlayerSummaryRow{
			Player:      player,
			Season:      s.Current.Label,
			PriorSeason: s.Prior.Label,
			Metrics:     ComparePlayerSeries(current, s.PlayerSeries(ctx, s.Prior, player), stat),
		}
		rows = append(rows, row)
		jsonRows = append(jsonRows, row)
	}
	return em.write("players_"+stat.String(), playerCSVHeader, rows, jsonRows)
}

func (em *ExportManager) write(name string, header []string, rows []exportRow, jsonRows interface{}) model.ExportResult {
	fileName := fmt.Sprintf("%s_summary.%s", sanitizeFileName(name), em.Format)
	path, err := em.Output.GetOutputFilePath(em.RunID, fileName)
	if err != nil {
		return em.record(model.ExportResult{Type: em.Format, Error: err.Error(), Timestamp: time.Now()})
	}

	switch em.Output.GetFileType(fileName) {
	case "csv":
		err = exportToCSV(path, header, rows)
	case "json":
		err = exportToJSON(path, jsonRows)
	default:
		err = fmt.Errorf("unsupported export format: %s", em.Format)
	}

	result := model.ExportResult{
		Type:        em.Format,
		Path:        path,
		RecordCount: len(rows),
		Success:     err == nil,
		Timestamp:   time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		fmt.Printf("❌ Export to %s failed: %v\n", path, err)
	} else if size, sizeErr := em.Output.GetFileSize(path); sizeErr == nil {
		fmt.Printf("💾 Exported %d rows to %s (%d bytes)\n", len(rows), path, size)
	}
	return em.record(result)
}

func (em *ExportManager) record(result model.ExportResult) model.ExportResult {
	em.Results = append(em.Results, result)
	return result
}

func exportToCSV(path string, header []string, rows []exportRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.csvRecord()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportToJSON(path string, rows interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '%', ' ':
			return '_'
		}
		return r
	}, name)
}
