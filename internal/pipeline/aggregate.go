package pipeline

import (
	"sort"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/pkg/utils"
)

// Aggregate accumulates count, sum and max of one numeric column
type Aggregate struct {
	Count int
	Sum   float64
	Max   float64
}

// Add folds one value in.
func (a *Aggregate) Add(v float64) {
	if a.Count == 0 || v > a.Max {
		a.Max = v
	}
	a.Sum += v
	a.Count++
}

// Mean is undefined for an empty aggregate.
func (a Aggregate) Mean() model.Measure {
	if a.Count == 0 {
		return model.None()
	}
	return model.Some(a.Sum / float64(a.Count))
}

// Maximum is undefined for an empty aggregate.
func (a Aggregate) Maximum() model.Measure {
	if a.Count == 0 {
		return model.None()
	}
	return model.Some(a.Max)
}

// AggregateColumn aggregates the present cells of one column. Missing cells
// are skipped, not counted as zero.
func AggregateColumn(rows []model.GameRecord, column string) Aggregate {
	var agg Aggregate
	for _, r := range rows {
		if v, ok := r.Value(column); ok {
			agg.Add(v)
		}
	}
	return agg
}

// AggregatePoints aggregates the per-date totals of a points series.
func AggregatePoints(points []model.GamePoints) Aggregate {
	var agg Aggregate
	for _, p := range points {
		agg.Add(p.Points)
	}
	return agg
}

// SumPointsByDate groups rows by date and sums their points, ascending by
// date. The opponent of the first row of each date is kept.
func SumPointsByDate(rows []model.GameRecord) []model.GamePoints {
	groups := make(map[int64]*model.GamePoints)
	for _, r := range rows {
		key := r.Date.Unix()
		g, exists := groups[key]
		if !exists {
			g = &model.GamePoints{Date: r.Date, Opponent: r.Opponent}
			groups[key] = g
		}
		g.Points += r.Points
	}

	out := make([]model.GamePoints, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SeasonAverages averages every numeric column of the series in schema order,
// rounded to 2 decimals.
func SeasonAverages(rows []model.GameRecord, schema model.Schema) []model.StatAverage {
	averages := make([]model.StatAverage, 0, len(schema.NumericColumns))
	for _, col := range schema.NumericColumns {
		averages = append(averages, model.StatAverage{
			Stat:    col,
			Average: roundMeasure(AggregateColumn(rows, col).Mean(), 2),
		})
	}
	return averages
}

func roundMeasure(m model.Measure, places int32) model.Measure {
	if !m.Valid {
		return m
	}
	return model.Some(utils.Round(m.Value, places))
}
