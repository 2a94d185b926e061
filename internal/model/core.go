package model

import (
	"encoding/json"
	"time"
)

// PlayerSeries holds one player's rows of a season, indexed by Date.
// Rows keep dataset order and are not guaranteed to be sorted.
type PlayerSeries struct {
	Player string       `json:"player"`
	Rows   []GameRecord `json:"rows"`
}

func (s PlayerSeries) Len() int      { return len(s.Rows) }
func (s PlayerSeries) IsEmpty() bool { return len(s.Rows) == 0 }

// TeamSeries holds every row of one team. Several rows may share a date.
type TeamSeries struct {
	Team string       `json:"team"`
	Rows []GameRecord `json:"rows"`
}

func (s TeamSeries) Len() int      { return len(s.Rows) }
func (s TeamSeries) IsEmpty() bool { return len(s.Rows) == 0 }

// GameResult is the outcome of one team game
type GameResult struct {
	Date   time.Time `json:"date"`
	Result string    `json:"result"`
}

// GamePoints is a per-date points total
type GamePoints struct {
	Date     time.Time `json:"date"`
	Opponent string    `json:"opponent,omitempty"`
	Points   float64   `json:"points"`
}

// GameDifferential is one bar of the team game history chart
type GameDifferential struct {
	Date          time.Time `json:"date"`
	Opponent      string    `json:"opponent"`
	OpponentLabel string    `json:"opponent_label"`
	PointsMade    float64   `json:"points_made"`
	PointsAllowed float64   `json:"points_suffered"`
	Differential  float64   `json:"point_diff"`
	Outcome       string    `json:"outcome"` // "Win" or "Loss"
}

const (
	OutcomeWin  = "Win"
	OutcomeLoss = "Loss"
)

// Measure is a number that may be undefined (no data, zero denominator).
// It encodes as JSON null when not valid.
type Measure struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Measure { return Measure{Value: v, Valid: true} }

// None is the "no data" sentinel.
func None() Measure { return Measure{} }

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Measure) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// ComparativeMetric pairs a current-season metric with its prior-season value
type ComparativeMetric struct {
	Name  string  `json:"name"`
	Value Measure `json:"value"`
	Prior Measure `json:"prior"`
	Delta Measure `json:"delta"`
}

// StatAverage is one bar of the season-average chart
type StatAverage struct {
	Stat    string  `json:"stat"`
	Average Measure `json:"average"`
}

// StatPoint is one point of the per-game line chart
type StatPoint struct {
	Date  time.Time `json:"date"`
	Value Measure   `json:"value"`
}

// ScatterPoint is one point of the stat vs minutes chart
type ScatterPoint struct {
	Date    time.Time `json:"date"`
	Minutes float64   `json:"minutes"`
	Value   float64   `json:"value"`
}

// PlayerComparison is the player metric cards
type PlayerComparison struct {
	Player        string            `json:"player"`
	Stat          Stat              `json:"stat"`
	GamesPlayed   ComparativeMetric `json:"games_played"`
	StatAverage   ComparativeMetric `json:"stat_average"`
	StatHigh      ComparativeMetric `json:"stat_high"`
	PriorFallback bool              `json:"prior_fallback"` // prior season had no rows; current season used as baseline
}

// TeamComparison is the team metric cards
type TeamComparison struct {
	Team           string            `json:"team"`
	WinRate        ComparativeMetric `json:"win_rate"`
	PointsMade     ComparativeMetric `json:"points_made_per_game"`
	PointsSuffered ComparativeMetric `json:"points_suffered_per_game"`
}

// PlayerDashboard is everything the player tab renders
type PlayerDashboard struct {
	Season         string           `json:"season"`
	PriorSeason    string           `json:"prior_season"`
	Metrics        PlayerComparison `json:"metrics"`
	SeasonAverages []StatAverage    `json:"season_averages"`
	PerGame        []StatPoint      `json:"per_game"`
	VsMinutes      []ScatterPoint   `json:"vs_minutes"`
}

// TeamDashboard is everything the team tab renders
type TeamDashboard struct {
	Season      string             `json:"season"`
	PriorSeason string             `json:"prior_season"`
	Metrics     TeamComparison     `json:"metrics"`
	Games       []GameDifferential `json:"games"`
}

// Filters is the universe of the selection dropdowns
type Filters struct {
	Season  string   `json:"season"`
	Players []string `json:"players"`
	Teams   []string `json:"teams"`
	Stats   []Stat   `json:"stats"`
}
