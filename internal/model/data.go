package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownStat is returned when a statistic name is not one of the dataset's
// selectable numeric columns.
var ErrUnknownStat = errors.New("unknown statistic")

// GameRecord represents one box-score row (one player in one game)
type GameRecord struct {
	Date     time.Time          `json:"date"` // calendar date, UTC midnight
	Player   string             `json:"player"`
	Team     string             `json:"team"`
	Opponent string             `json:"opponent"`
	Minutes  float64            `json:"minutes"`
	Result   string             `json:"result"` // "W", "L" or anything undecided
	Points   float64            `json:"points"`
	Stats    map[string]float64 `json:"stats"` // every numeric column of the row, missing cells absent
}

// Value returns the value of a numeric column and whether the cell was present.
func (r GameRecord) Value(column string) (float64, bool) {
	v, ok := r.Stats[column]
	return v, ok
}

const (
	ResultWin  = "W"
	ResultLoss = "L"
)

// Schema names the structural columns of a season file and lists its numeric columns
type Schema struct {
	Date     string `json:"date"`
	Player   string `json:"player"`
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
	Minutes  string `json:"minutes"`
	Result   string `json:"result"`
	Points   string `json:"points"`

	// NumericColumns is filled at load time, in header order.
	NumericColumns []string `json:"numericColumns"`
}

// DefaultSchema matches the column names of the Basketball-Reference style exports.
func DefaultSchema() Schema {
	return Schema{
		Date:     "Data",
		Player:   "Player",
		Team:     "Tm",
		Opponent: "Opp",
		Minutes:  "MP",
		Result:   "Res",
		Points:   "PTS",
	}
}

// RequiredColumns returns the structural columns every season file must carry.
func (s Schema) RequiredColumns() []string {
	return []string{s.Date, s.Player, s.Team, s.Opponent, s.Minutes, s.Result, s.Points}
}

// TextColumns are the structural columns that are never numeric.
func (s Schema) TextColumns() []string {
	return []string{s.Date, s.Player, s.Team, s.Opponent, s.Result}
}

// IsText reports whether column is one of the text structural columns.
func (s Schema) IsText(column string) bool {
	for _, c := range s.TextColumns() {
		if c == column {
			return true
		}
	}
	return false
}

// Stat is a statistic column validated against a schema.
type Stat string

func (s Stat) String() string { return string(s) }

// SelectableStats lists the numeric columns a user may analyze: every numeric
// column except minutes played.
func (s Schema) SelectableStats() []Stat {
	stats := make([]Stat, 0, len(s.NumericColumns))
	for _, c := range s.NumericColumns {
		if c == s.Minutes {
			continue
		}
		stats = append(stats, Stat(c))
	}
	return stats
}

// ParseStat validates a free-form column name.
func (s Schema) ParseStat(name string) (Stat, error) {
	for _, st := range s.SelectableStats() {
		if string(st) == name {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

// SeasonDataset is the immutable set of box-score rows for one season
type SeasonDataset struct {
	ID       string       `json:"id"` // identity used for memoization
	Label    string       `json:"label"`
	Source   Source       `json:"source"`
	Schema   Schema       `json:"schema"`
	Records  []GameRecord `json:"-"`
	LoadedAt time.Time    `json:"loadedAt"`
}

// Len returns the number of rows.
func (d *SeasonDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// DatasetInfo summarizes a loaded dataset for the API
type DatasetInfo struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Source      string    `json:"source"`
	SourceType  string    `json:"sourceType"`
	Rows        int       `json:"rows"`
	Players     int       `json:"players"`
	Teams       int       `json:"teams"`
	StatColumns []Stat    `json:"statColumns"`
	LoadedAt    time.Time `json:"loadedAt"`
}
