package pipeline

import (
	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/pkg/utils"
)

// opponentLabelWidth is the width of opponent labels on the game history chart.
const opponentLabelWidth = 3

// BuildPlayerSeries filters ds to one player. The result is empty, not an
// error, when the player has no rows.
func BuildPlayerSeries(ds *model.SeasonDataset, player string) model.PlayerSeries {
	return model.PlayerSeries{
		Player: player,
		Rows:   filterRows(ds, func(r model.GameRecord) bool { return r.Player == player }),
	}
}

// BuildTeamSeries filters ds to one team. Rows sharing a date are all kept.
func BuildTeamSeries(ds *model.SeasonDataset, team string) model.TeamSeries {
	return model.TeamSeries{
		Team: team,
		Rows: filterRows(ds, func(r model.GameRecord) bool { return r.Team == team }),
	}
}

// opponentRows returns the rows where team is the opponent, i.e. the points
// other teams scored against it.
func opponentRows(ds *model.SeasonDataset, team string) []model.GameRecord {
	return filterRows(ds, func(r model.GameRecord) bool { return r.Opponent == team })
}

func filterRows(ds *model.SeasonDataset, keep func(model.GameRecord) bool) []model.GameRecord {
	if ds == nil {
		return nil
	}
	var rows []model.GameRecord
	for _, r := range ds.Records {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return rows
}

// GameResults keeps the first row of every distinct date and returns its
// result. Later rows of the same date are not consulted.
func GameResults(ts model.TeamSeries) []model.GameResult {
	seen := make(map[int64]bool)
	var results []model.GameResult
	for _, r := range ts.Rows {
		key := r.Date.Unix()
		if seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, model.GameResult{Date: r.Date, Result: r.Result})
	}
	return results
}

// PointsPerGame sums the points of every row sharing a date.
func PointsPerGame(ts model.TeamSeries) []model.GamePoints {
	return SumPointsByDate(ts.Rows)
}

// PointsSuffered sums, per date, the points scored against team by its
// opponents, read from the opponents' own rows.
func PointsSuffered(ds *model.SeasonDataset, team string) []model.GamePoints {
	return SumPointsByDate(opponentRows(ds, team))
}

// GameDifferentials joins points made and points suffered on date. Dates
// missing from either side are dropped.
func GameDifferentials(made, suffered []model.GamePoints) []model.GameDifferential {
	against := make(map[int64]float64, len(suffered))
	for _, p := range suffered {
		against[p.Date.Unix()] = p.Points
	}

	games := make([]model.GameDifferential, 0, len(made))
	for _, p := range made {
		pts, ok := against[p.Date.Unix()]
		if !ok {
			continue
		}
		diff := p.Points - pts
		outcome := model.OutcomeLoss
		if diff > 0 {
			outcome = model.OutcomeWin
		}
		games = append(games, model.GameDifferential{
			Date:          p.Date,
			Opponent:      p.Opponent,
			OpponentLabel: utils.Prefix(p.Opponent, opponentLabelWidth),
			PointsMade:    p.Points,
			PointsAllowed: pts,
			Differential:  diff,
			Outcome:       outcome,
		})
	}
	return games
}
