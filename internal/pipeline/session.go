package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nba-season-dashboard/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the selected player or team has no rows in the
// current season.
var ErrNotFound = errors.New("not found in current season")

// Session answers dashboard queries over one pair of loaded seasons. The
// datasets are read-only; the cache is the only shared mutable state.
type Session struct {
	ID      string
	Current *model.SeasonDataset
	Prior   *model.SeasonDataset

	cache       SeriesCache
	filtersOnce sync.Once
	filters     model.Filters
}

// NewSession creates a session. A nil cache disables memoization.
func NewSession(current, prior *model.SeasonDataset, cache SeriesCache) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Current: current,
		Prior:   prior,
		cache:   cache,
	}
}

// Filters returns the dropdown universe, always taken from the current season.
func (s *Session) Filters() model.Filters {
	s.filtersOnce.Do(func() {
		s.filters = model.Filters{
			Season:  s.Current.Label,
			Players: Players(s.Current),
			Teams:   Teams(s.Current),
			Stats:   s.Current.Schema.SelectableStats(),
		}
	})
	return s.filters
}

// Datasets describes both loaded seasons, current first.
func (s *Session) Datasets() []model.DatasetInfo {
	return []model.DatasetInfo{Describe(s.Current), Describe(s.Prior)}
}

// rows returns the filtered rows of ds, going through the cache.
func (s *Session) rows(ctx context.Context, ds *model.SeasonDataset, kind SeriesKind, key string) []model.GameRecord {
	if ds == nil {
		return nil
	}
	cacheKey := CacheKey{DatasetID: ds.ID, Kind: kind, Key: key}
	if s.cache != nil {
		if rows, ok := s.cache.Get(ctx, cacheKey); ok {
			return rows
		}
	}

	var rows []model.GameRecord
	switch kind {
	case KindPlayer:
		rows = BuildPlayerSeries(ds, key).Rows
	case KindTeam:
		rows = BuildTeamSeries(ds, key).Rows
	case KindOpponent:
		rows = opponentRows(ds, key)
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, rows)
	}
	return rows
}

// PlayerSeries is BuildPlayerSeries through the session cache.
func (s *Session) PlayerSeries(ctx context.Context, ds *model.SeasonDataset, player string) model.PlayerSeries {
	return model.PlayerSeries{Player: player, Rows: s.rows(ctx, ds, KindPlayer, player)}
}

// TeamSeries is BuildTeamSeries through the session cache.
func (s *Session) TeamSeries(ctx context.Context, ds *model.SeasonDataset, team string) model.TeamSeries {
	return model.TeamSeries{Team: team, Rows: s.rows(ctx, ds, KindTeam, team)}
}

// PointsSuffered is PointsSuffered through the session cache.
func (s *Session) PointsSuffered(ctx context.Context, ds *model.SeasonDataset, team string) []model.GamePoints {
	return SumPointsByDate(s.rows(ctx, ds, KindOpponent, team))
}

// PlayerDashboard computes the player tab for a player and a statistic name.
// It fails with model.ErrUnknownStat or ErrNotFound.
func (s *Session) PlayerDashboard(ctx context.Context, player, statName string) (*model.PlayerDashboard, error) {
	stat, err := s.Current.Schema.ParseStat(statName)
	if err != nil {
		return nil, err
	}

	current := s.PlayerSeries(ctx, s.Current, player)
	if current.IsEmpty() {
		return nil, fmt.Errorf("player %q: %w", player, ErrNotFound)
	}
	prior := s.PlayerSeries(ctx, s.Prior, player)

	perGame := make([]model.StatPoint, 0, current.Len())
	vsMinutes := make([]model.ScatterPoint, 0, current.Len())
	for _, r := range current.Rows {
		v, ok := r.Value(stat.String())
		point := model.StatPoint{Date: r.Date}
		if ok {
			point.Value = model.Some(v)
			vsMinutes = append(vsMinutes, model.ScatterPoint{Date: r.Date, Minutes: r.Minutes, Value: v})
		}
		perGame = append(perGame, point)
	}

	return &model.PlayerDashboard{
		Season:         s.Current.Label,
		PriorSeason:    s.Prior.Label,
		Metrics:        ComparePlayerSeries(current, prior, stat),
		SeasonAverages: SeasonAverages(current.Rows, s.Current.Schema),
		PerGame:        perGame,
		VsMinutes:      vsMinutes,
	}, nil
}

// TeamDashboard computes the team tab. It fails with ErrNotFound.
func (s *Session) TeamDashboard(ctx context.Context, team string) (*model.TeamDashboard, error) {
	current := s.TeamSeries(ctx, s.Current, team)
	if current.IsEmpty() {
		return nil, fmt.Errorf("team %q: %w", team, ErrNotFound)
	}
	prior := s.TeamSeries(ctx, s.Prior, team)

	suffered := s.PointsSuffered(ctx, s.Current, team)
	priorSuffered := s.PointsSuffered(ctx, s.Prior, team)

	return &model.TeamDashboard{
		Season:      s.Current.Label,
		PriorSeason: s.Prior.Label,
		Metrics:     CompareTeamSeries(current, prior, suffered, priorSuffered),
		Games:       GameDifferentials(PointsPerGame(current), suffered),
	}, nil
}
