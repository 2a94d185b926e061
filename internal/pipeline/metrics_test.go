package pipeline

import (
	"math"
	"testing"
	"time"

	"nba-season-dashboard/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// row builds a box-score row with PTS and any extra stats
func row(date, player, team, opp, res string, pts float64, extra map[string]float64) model.GameRecord {
	stats := map[string]float64{"PTS": pts}
	for k, v := range extra {
		stats[k] = v
	}
	return model.GameRecord{
		Date: day(date), Player: player, Team: team, Opponent: opp, Result: res,
		Minutes: stats["MP"], Points: pts, Stats: stats,
	}
}

func dataset(id, label string, rows ...model.GameRecord) *model.SeasonDataset {
	schema := model.DefaultSchema()
	schema.NumericColumns = []string{"MP", "PTS", "AST"}
	return &model.SeasonDataset{ID: id, Label: label, Schema: schema, Records: rows}
}

func TestBuildSeries(t *testing.T) {
	ds := dataset("cur", "2024-25",
		row("2024-10-22", "Tatum", "BOS", "NYK", "W", 37, nil),
		row("2024-10-22", "Holiday", "BOS", "NYK", "W", 18, nil),
		row("2024-10-22", "Brunson", "NYK", "BOS", "L", 22, nil),
		row("2024-10-24", "Tatum", "BOS", "WAS", "W", 25, nil),
	)

	if got := BuildPlayerSeries(ds, "Tatum"); got.Len() != 2 || got.Rows[1].Opponent != "WAS" {
		t.Errorf("unexpected player series: %+v", got)
	}
	if got := BuildPlayerSeries(ds, "Nobody"); !got.IsEmpty() {
		t.Errorf("unknown player must give an empty series, got %d rows", got.Len())
	}
	if got := BuildTeamSeries(ds, "BOS"); got.Len() != 3 {
		t.Errorf("team series must keep duplicate dates, got %d rows", got.Len())
	}
	if got := BuildPlayerSeries(nil, "Tatum"); !got.IsEmpty() {
		t.Error("nil dataset must give an empty series")
	}
}

func TestGameResultsFirstOccurrence(t *testing.T) {
	ts := model.TeamSeries{Team: "BOS", Rows: []model.GameRecord{
		row("2024-10-22", "A", "BOS", "NYK", "W", 10, nil),
		row("2024-10-22", "B", "BOS", "NYK", "L", 10, nil),
		row("2024-10-22", "C", "BOS", "NYK", "L", 10, nil),
		row("2024-10-24", "A", "BOS", "WAS", "L", 10, nil),
	}}

	results := GameResults(ts)
	if len(results) != 2 {
		t.Fatalf("expected one result per date, got %d", len(results))
	}
	if results[0].Result != "W" || results[1].Result != "L" {
		t.Errorf("first row of each date must win: %+v", results)
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		name    string
		results []string
		want    model.Measure
	}{
		{"two of three", []string{"W", "L", "W"}, model.Some(200.0 / 3)},
		{"all wins", []string{"W", "W"}, model.Some(100)},
		{"all losses", []string{"L"}, model.Some(0)},
		{"undecided ignored", []string{"W", "", "L"}, model.Some(50)},
		{"no decided games", []string{"", "P"}, model.None()},
		{"empty", nil, model.None()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []model.GameResult
			for _, r := range tt.results {
				results = append(results, model.GameResult{Result: r})
			}
			got := WinRate(results)
			if got.Valid != tt.want.Valid || math.Abs(got.Value-tt.want.Value) > 1e-9 {
				t.Errorf("WinRate = %+v, want %+v", got, tt.want)
			}
			if got.Valid && (got.Value < 0 || got.Value > 100) {
				t.Errorf("win rate out of bounds: %v", got.Value)
			}
		})
	}
}

func TestPointsByDate(t *testing.T) {
	ds := dataset("cur", "2024-25",
		row("2024-10-24", "Tatum", "BOS", "WAS", "W", 25, nil),
		row("2024-10-22", "Tatum", "BOS", "NYK", "W", 37, nil),
		row("2024-10-22", "Holiday", "BOS", "NYK", "W", 18, nil),
		row("2024-10-22", "Brunson", "NYK", "BOS", "L", 22, nil),
		row("2024-10-22", "Hart", "NYK", "BOS", "L", 9, nil),
		row("2024-10-24", "Poole", "WAS", "BOS", "L", 30, nil),
	)

	made := PointsPerGame(BuildTeamSeries(ds, "BOS"))
	if len(made) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(made))
	}
	if !made[0].Date.Equal(day("2024-10-22")) || made[0].Points != 55 || made[0].Opponent != "NYK" {
		t.Errorf("dates must be sorted and points summed: %+v", made)
	}

	suffered := PointsSuffered(ds, "BOS")
	if len(suffered) != 2 || suffered[0].Points != 31 || suffered[1].Points != 30 {
		t.Errorf("unexpected points suffered: %+v", suffered)
	}

	games := GameDifferentials(made, suffered)
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].Differential != 24 || games[0].Outcome != model.OutcomeWin {
		t.Errorf("unexpected first game: %+v", games[0])
	}
	if games[1].Differential != -5 || games[1].Outcome != model.OutcomeLoss || games[1].OpponentLabel != "WAS" {
		t.Errorf("unexpected second game: %+v", games[1])
	}
}

func TestGameDifferentialsInnerJoin(t *testing.T) {
	made := []model.GamePoints{
		{Date: day("2024-10-22"), Opponent: "Oklahoma City", Points: 100},
		{Date: day("2024-10-24"), Opponent: "NYK", Points: 90},
	}
	suffered := []model.GamePoints{
		{Date: day("2024-10-22"), Points: 100},
		{Date: day("2024-10-30"), Points: 80},
	}

	games := GameDifferentials(made, suffered)
	if len(games) != 1 {
		t.Fatalf("dates missing on either side must be dropped, got %d games", len(games))
	}
	if games[0].OpponentLabel != "Okl" {
		t.Errorf("expected 3-character label, got %q", games[0].OpponentLabel)
	}
	if games[0].Outcome != model.OutcomeLoss {
		t.Error("a tie is not a win")
	}
}

func TestComparePlayerSeries(t *testing.T) {
	current := model.PlayerSeries{Player: "Tatum", Rows: []model.GameRecord{
		row("2024-10-22", "Tatum", "BOS", "NYK", "W", 10, nil),
		row("2024-10-24", "Tatum", "BOS", "WAS", "W", 20, nil),
		row("2024-10-26", "Tatum", "BOS", "DET", "W", 30, nil),
	}}
	prior := model.PlayerSeries{Player: "Tatum", Rows: []model.GameRecord{
		row("2023-10-25", "Tatum", "BOS", "NYK", "W", 15, nil),
		row("2023-10-27", "Tatum", "BOS", "MIA", "L", 16, nil),
	}}

	got := ComparePlayerSeries(current, prior, "PTS")
	if got.PriorFallback {
		t.Error("fallback must be off when the prior series has rows")
	}
	if got.GamesPlayed.Value != model.Some(3) || got.GamesPlayed.Delta != model.Some(1) {
		t.Errorf("unexpected games played: %+v", got.GamesPlayed)
	}
	if got.StatAverage.Value != model.Some(20) || got.StatAverage.Prior != model.Some(15.5) || got.StatAverage.Delta != model.Some(4.5) {
		t.Errorf("unexpected average: %+v", got.StatAverage)
	}
	if got.StatHigh.Value != model.Some(30) || got.StatHigh.Delta != model.Some(14) {
		t.Errorf("unexpected high: %+v", got.StatHigh)
	}
}

func TestComparePlayerSeriesFallback(t *testing.T) {
	current := model.PlayerSeries{Player: "Rookie", Rows: []model.GameRecord{
		row("2024-10-22", "Rookie", "SAS", "DAL", "L", 10, nil),
		row("2024-10-24", "Rookie", "SAS", "DAL", "W", 20, nil),
		row("2024-10-26", "Rookie", "SAS", "OKC", "L", 30, nil),
	}}

	got := ComparePlayerSeries(current, model.PlayerSeries{Player: "Rookie"}, "PTS")
	if !got.PriorFallback {
		t.Error("expected fallback for an empty prior series")
	}
	for _, m := range []model.ComparativeMetric{got.GamesPlayed, got.StatAverage, got.StatHigh} {
		if m.Delta != model.Some(0) {
			t.Errorf("%s: expected zero delta, got %+v", m.Name, m.Delta)
		}
	}
	if got.StatAverage.Value != model.Some(20) || got.StatHigh.Value != model.Some(30) {
		t.Errorf("unexpected values: avg %+v high %+v", got.StatAverage.Value, got.StatHigh.Value)
	}
}

func TestComparePlayerSeriesMissingStat(t *testing.T) {
	current := model.PlayerSeries{Player: "A", Rows: []model.GameRecord{
		row("2024-10-22", "A", "BOS", "NYK", "W", 10, nil),
		row("2024-10-24", "A", "BOS", "NYK", "W", 10, map[string]float64{"AST": 4}),
	}}
	prior := model.PlayerSeries{Player: "A", Rows: []model.GameRecord{
		row("2023-10-22", "A", "BOS", "NYK", "W", 10, nil),
	}}

	got := ComparePlayerSeries(current, prior, "AST")
	if got.StatAverage.Value != model.Some(4) {
		t.Errorf("missing cells must be skipped, got %+v", got.StatAverage.Value)
	}
	if got.StatAverage.Prior.Valid || got.StatAverage.Delta.Valid {
		t.Errorf("prior without the stat must be undefined: %+v", got.StatAverage)
	}
}

func TestCompareTeam(t *testing.T) {
	current := dataset("cur", "2024-25",
		row("2024-10-22", "A", "BOS", "NYK", "W", 60, nil),
		row("2024-10-22", "B", "BOS", "NYK", "W", 50, nil),
		row("2024-10-22", "X", "NYK", "BOS", "L", 100, nil),
		row("2024-10-24", "A", "BOS", "WAS", "L", 90, nil),
		row("2024-10-24", "Y", "WAS", "BOS", "W", 95, nil),
		row("2024-10-26", "A", "BOS", "DET", "W", 100, nil),
		row("2024-10-26", "Z", "DET", "BOS", "L", 99, nil),
	)
	prior := dataset("prior", "2023-24",
		row("2023-10-25", "A", "BOS", "NYK", "W", 100, nil),
		row("2023-10-25", "X", "NYK", "BOS", "L", 90, nil),
		row("2023-10-27", "A", "BOS", "MIA", "W", 101, nil),
		row("2023-10-27", "M", "MIA", "BOS", "L", 91, nil),
	)

	got := CompareTeam(current, prior, "BOS")
	if got.WinRate.Value != model.Some(66.7) || got.WinRate.Prior != model.Some(100) || got.WinRate.Delta != model.Some(-33.3) {
		t.Errorf("unexpected win rate: %+v", got.WinRate)
	}
	if got.PointsMade.Value != model.Some(100) || got.PointsMade.Prior != model.Some(100.5) || got.PointsMade.Delta != model.Some(-0.5) {
		t.Errorf("unexpected points made: %+v", got.PointsMade)
	}
	if got.PointsSuffered.Value != model.Some(98) || got.PointsSuffered.Prior != model.Some(90.5) || got.PointsSuffered.Delta != model.Some(7.5) {
		t.Errorf("unexpected points suffered: %+v", got.PointsSuffered)
	}
}

func TestCompareTeamAbsentFromPrior(t *testing.T) {
	current := dataset("cur", "2024-25", row("2024-10-22", "A", "BOS", "NYK", "W", 100, nil))
	prior := dataset("prior", "2023-24", row("2023-10-25", "X", "NYK", "MIA", "W", 90, nil))

	got := CompareTeam(current, prior, "BOS")
	if got.WinRate.Value != model.Some(100) {
		t.Errorf("unexpected current win rate: %+v", got.WinRate)
	}
	if got.WinRate.Prior.Valid || got.WinRate.Delta.Valid || got.PointsMade.Delta.Valid {
		t.Errorf("a team without prior games has no deltas: %+v", got)
	}
}

func TestSeasonAverages(t *testing.T) {
	rows := []model.GameRecord{
		row("2024-10-22", "A", "BOS", "NYK", "W", 10, map[string]float64{"MP": 30, "AST": 1}),
		row("2024-10-24", "A", "BOS", "NYK", "W", 11, map[string]float64{"MP": 31}),
		row("2024-10-26", "A", "BOS", "NYK", "W", 12, map[string]float64{"MP": 32, "AST": 2}),
	}
	ds := dataset("cur", "2024-25", rows...)

	got := SeasonAverages(rows, ds.Schema)
	want := []model.StatAverage{
		{Stat: "MP", Average: model.Some(31)},
		{Stat: "PTS", Average: model.Some(11)},
		{Stat: "AST", Average: model.Some(1.5)},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d averages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("average %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCompareRounding(t *testing.T) {
	m := Compare("x", model.Some(66.66666), model.Some(50), 1)
	if m.Value != model.Some(66.7) || m.Prior != model.Some(50) || m.Delta != model.Some(16.7) {
		t.Errorf("unexpected comparison: %+v", m)
	}
	if m := Compare("x", model.Some(1), model.None(), 1); m.Delta.Valid {
		t.Error("delta must be undefined when one side is")
	}
}
