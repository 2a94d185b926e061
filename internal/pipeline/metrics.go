package pipeline

import (
	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/pkg/utils"
)

// Metric card names
const (
	MetricGamesPlayed    = "games_played"
	MetricStatAverage    = "stat_average"
	MetricStatHigh       = "stat_high"
	MetricWinRate        = "win_rate"
	MetricPointsMade     = "points_made_per_game"
	MetricPointsSuffered = "points_suffered_per_game"
)

// Compare rounds the current and prior values and their difference to places
// decimals. The delta is undefined unless both sides are.
func Compare(name string, current, prior model.Measure, places int32) model.ComparativeMetric {
	m := model.ComparativeMetric{
		Name:  name,
		Value: roundMeasure(current, places),
		Prior: roundMeasure(prior, places),
	}
	if current.Valid && prior.Valid {
		m.Delta = model.Some(utils.Round(current.Value-prior.Value, places))
	}
	return m
}

// ComparePlayerSeries computes the player cards for one statistic. When the
// prior series is empty the current series is used as the prior baseline and
// every delta is zero.
func ComparePlayerSeries(current, prior model.PlayerSeries, stat model.Stat) model.PlayerComparison {
	fallback := prior.IsEmpty()
	if fallback {
		prior = current
	}

	cur := AggregateColumn(current.Rows, stat.String())
	prev := AggregateColumn(prior.Rows, stat.String())

	return model.PlayerComparison{
		Player: current.Player,
		Stat:   stat,
		GamesPlayed: Compare(MetricGamesPlayed,
			model.Some(float64(current.Len())), model.Some(float64(prior.Len())), 0),
		// averages are rounded before the delta is taken
		StatAverage: Compare(MetricStatAverage,
			roundMeasure(cur.Mean(), 2), roundMeasure(prev.Mean(), 2), 2),
		StatHigh: Compare(MetricStatHigh,
			cur.Maximum(), prev.Maximum(), 2),
		PriorFallback: fallback,
	}
}

// ComparePlayer builds both player series and compares them.
func ComparePlayer(current, prior *model.SeasonDataset, player string, stat model.Stat) model.PlayerComparison {
	return ComparePlayerSeries(BuildPlayerSeries(current, player), BuildPlayerSeries(prior, player), stat)
}

// WinRate is wins over decided games times 100. With no decided game the
// rate is undefined.
func WinRate(results []model.GameResult) model.Measure {
	var wins, decided int
	for _, r := range results {
		switch r.Result {
		case model.ResultWin:
			wins++
			decided++
		case model.ResultLoss:
			decided++
		}
	}
	if decided == 0 {
		return model.None()
	}
	return model.Some(float64(wins) / float64(decided) * 100)
}

// teamSeasonMetrics holds the raw, unrounded team numbers for one season
type teamSeasonMetrics struct {
	winRate        model.Measure
	pointsMade     model.Measure
	pointsSuffered model.Measure
}

func computeTeamSeason(ts model.TeamSeries, suffered []model.GamePoints) teamSeasonMetrics {
	return teamSeasonMetrics{
		winRate:        WinRate(GameResults(ts)),
		pointsMade:     AggregatePoints(PointsPerGame(ts)).Mean(),
		pointsSuffered: AggregatePoints(suffered).Mean(),
	}
}

// CompareTeamSeries computes the team cards. suffered and priorSuffered are
// the opponents' per-date points against the team in each season.
func CompareTeamSeries(current, prior model.TeamSeries, suffered, priorSuffered []model.GamePoints) model.TeamComparison {
	cur := computeTeamSeason(current, suffered)
	prev := computeTeamSeason(prior, priorSuffered)

	return model.TeamComparison{
		Team:           current.Team,
		WinRate:        Compare(MetricWinRate, cur.winRate, prev.winRate, 1),
		PointsMade:     Compare(MetricPointsMade, cur.pointsMade, prev.pointsMade, 1),
		PointsSuffered: Compare(MetricPointsSuffered, cur.pointsSuffered, prev.pointsSuffered, 1),
	}
}

// CompareTeam builds both team series and compares them.
func CompareTeam(current, prior *model.SeasonDataset, team string) model.TeamComparison {
	return CompareTeamSeries(
		BuildTeamSeries(current, team), BuildTeamSeries(prior, team),
		PointsSuffered(current, team), PointsSuffered(prior, team),
	)
}
