package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/pkg/utils"
)

// dateLayouts are tried in order when reading the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"01/02/2006",
}

// TransformRecords normalizes validated records and decodes them into game
// records, in arrival order.
func TransformRecords(
	ctx context.Context,
	schema model.Schema,
	in <-chan model.GenericRecord,
	fail func(error),
	tracker *LoadTracker,
	label string,
) []model.GameRecord {
	var games []model.GameRecord

	for rec := range in {
		select {
		case <-ctx.Done():
			return games
		default:
		}

		game, err := toGameRecord(applyTransformations(rec, schema), schema)
		if err != nil {
			tracker.RecordInvalid(label)
			fmt.Printf("❌ Transform: failed to decode record in %s - %v\n", label, err)
			fail(err)
			return games
		}
		tracker.RecordValid(label)
		games = append(games, game)
		if len(games)%5000 == 0 {
			fmt.Printf("🔄 Transform: %d records decoded for %s\n", len(games), label)
		}
	}

	fmt.Printf("🔄 Transformation Summary (%s): %d records decoded\n", label, len(games))
	return games
}

// applyTransformations applies the fixed normalization chain to a copy of rec
func applyTransformations(rec model.GenericRecord, schema model.Schema) model.GenericRecord {
	result := make(model.GenericRecord, len(rec))

	// Copy original record
	for k, v := range rec {
		result[k] = v
	}

	result = trimStrings(result)
	result = convertToUppercase(result, schema.Team, schema.Opponent)
	result = normalizeResult(result, schema.Result)
	return result
}

// trimStrings trims whitespace from every text cell
func trimStrings(rec model.GenericRecord) model.GenericRecord {
	for key, val := range rec {
		if str, ok := val.(string); ok {
			rec[key] = strings.TrimSpace(str)
		}
	}
	return rec
}

// convertToUppercase upper-cases the given code columns
func convertToUppercase(rec model.GenericRecord, fields ...string) model.GenericRecord {
	for _, field := range fields {
		if val, ok := rec[field]; ok {
			rec[field] = strings.ToUpper(utils.String(val))
		}
	}
	return rec
}

// normalizeResult reduces result cells such as "W 110-102" to "W".
func normalizeResult(rec model.GenericRecord, field string) model.GenericRecord {
	val, ok := rec[field]
	if !ok {
		return rec
	}
	res := strings.ToUpper(utils.String(val))
	if res != "" {
		res = res[:1]
	}
	rec[field] = res
	return rec
}

// toGameRecord decodes a normalized record. Every non-structural column must be
// numeric or blank; blank cells are left out of Stats.
func toGameRecord(rec model.GenericRecord, schema model.Schema) (model.GameRecord, error) {
	row, _ := rec[RowKey].(int)

	date, err := parseDate(utils.String(rec[schema.Date]))
	if err != nil {
		return model.GameRecord{}, &LoadError{Row: row, Err: err}
	}

	game := model.GameRecord{
		Date:     date,
		Player:   utils.String(rec[schema.Player]),
		Team:     utils.String(rec[schema.Team]),
		Opponent: utils.String(rec[schema.Opponent]),
		Result:   utils.String(rec[schema.Result]),
		Stats:    make(map[string]float64, len(rec)),
	}
	if game.Player == "" || game.Team == "" {
		return model.GameRecord{}, &LoadError{Row: row, Err: fmt.Errorf("empty %s or %s", schema.Player, schema.Team)}
	}

	for key, val := range rec {
		if key == RowKey || schema.IsText(key) || utils.IsBlank(val) {
			continue
		}
		f, ok := utils.ToFloat(val)
		if !ok {
			return model.GameRecord{}, &LoadError{Row: row, Err: fmt.Errorf("column %s: %q is not numeric", key, utils.String(val))}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		game.Stats[key] = f
	}

	game.Minutes = game.Stats[schema.Minutes]
	game.Points = game.Stats[schema.Points]
	return game, nil
}

// parseDate reads a date cell and drops the time of day.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toCalendarDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func toCalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
