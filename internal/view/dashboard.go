package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"nba-season-dashboard/internal/model"

	"github.com/a-h/templ"
)

// PageData is what the dashboard page renders
type PageData struct {
	Filters        model.Filters
	SelectedPlayer string
	SelectedTeam   string
	SelectedStat   string
	Player         *model.PlayerDashboard
	Team           *model.TeamDashboard
	PlayerError    string
	TeamError      string
}

// htmlWriter keeps the first write error so templates can write freely
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) printf(format string, args ...interface{}) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

func (hw *htmlWriter) render(ctx context.Context, c templ.Component) {
	if hw.err != nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

func esc(s string) string { return templ.EscapeString(s) }

// DashboardPage renders the whole two-tab page
func DashboardPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>NBA Dashboard %s</title>`, esc(data.Filters.Season))
		hw.printf(`<style>.up{color:#1a7f37}.down{color:#cf222e}.card{display:inline-block;margin:8px;padding:8px;border:1px solid #ddd}</style></head><body>`)
		hw.printf(`<h1>NBA Dashboard %s</h1>`, esc(data.Filters.Season))
		hw.render(ctx, FiltersForm(data))

		hw.printf(`<section id="player"><h2>Player</h2>`)
		switch {
		case data.PlayerError != "":
			hw.printf(`<p class="error">%s</p>`, esc(data.PlayerError))
		case data.Player != nil:
			hw.render(ctx, PlayerSection(data.Player))
		}
		hw.printf(`</section>`)

		hw.printf(`<section id="team"><h2>Team</h2>`)
		switch {
		case data.TeamError != "":
			hw.printf(`<p class="error">%s</p>`, esc(data.TeamError))
		case data.Team != nil:
			hw.render(ctx, TeamSection(data.Team))
		}
		hw.printf(`</section></body></html>`)
		return hw.err
	})
}

// FiltersForm renders the player, team and statistic dropdowns
func FiltersForm(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.printf(`<form method="get" action="/">`)
		hw.printf(`<label>Player <select name="player">`)
		for _, p := range data.Filters.Players {
			hw.printf(`<option value="%s"%s>%s</option>`, esc(p), selected(p == data.SelectedPlayer), esc(p))
		}
		hw.printf(`</select></label>`)
		hw.printf(`<label>Statistic <select name="stat">`)
		for _, s := range data.Filters.Stats {
			hw.printf(`<option value="%s"%s>%s</option>`, esc(s.String()), selected(s.String() == data.SelectedStat), esc(s.String()))
		}
		hw.printf(`</select></label>`)
		hw.printf(`<label>Team <select name="team">`)
		for _, t := range data.Filters.Teams {
			hw.printf(`<option value="%s"%s>%s</option>`, esc(t), selected(t == data.SelectedTeam), esc(t))
		}
		hw.printf(`</select></label><button type="submit">Show</button></form>`)
		return hw.err
	})
}

func selected(ok bool) string {
	if ok {
		return " selected"
	}
	return ""
}

// MetricCard renders one value with its change against the prior season.
// inverse marks metrics where a decrease is the good direction.
func MetricCard(title string, m model.ComparativeMetric, suffix string, inverse bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.printf(`<div class="card" data-metric="%s"><h3>%s</h3><p class="value">%s%s</p>`,
			esc(m.Name), esc(title), formatMeasure(m.Value), esc(suffix))
		if m.Delta.Valid {
			hw.printf(`<p class="delta %s">%s</p>`, deltaClass(m.Delta.Value, inverse), formatDelta(m.Delta.Value))
		}
		hw.printf(`</div>`)
		return hw.err
	})
}

// PlayerSection renders the player cards, averages and per-game table
func PlayerSection(d *model.PlayerDashboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		m := d.Metrics
		hw.printf(`<h3>%s, %s vs %s</h3>`, esc(m.Player), esc(d.Season), esc(d.PriorSeason))
		if m.PriorFallback {
			hw.printf(`<p class="note">No %s games, compared with %s itself.</p>`, esc(d.PriorSeason), esc(d.Season))
		}
		hw.render(ctx, MetricCard("Games Played", m.GamesPlayed, "", false))
		hw.render(ctx, MetricCard("Average "+m.Stat.String(), m.StatAverage, "", false))
		hw.render(ctx, MetricCard("Highest "+m.Stat.String(), m.StatHigh, "", false))

		hw.printf(`<table class="averages"><caption>Season averages</caption><tr><th>Stat</th><th>Average</th></tr>`)
		for _, a := range d.SeasonAverages {
			hw.printf(`<tr><td>%s</td><td>%s</td></tr>`, esc(a.Stat), formatMeasure(a.Average))
		}
		hw.printf(`</table>`)

		hw.printf(`<table class="per-game"><caption>%s per game</caption><tr><th>Date</th><th>%s</th></tr>`, esc(m.Stat.String()), esc(m.Stat.String()))
		for _, p := range d.PerGame {
			hw.printf(`<tr><td>%s</td><td>%s</td></tr>`, p.Date.Format("2006-01-02"), formatMeasure(p.Value))
		}
		hw.printf(`</table>`)

		hw.printf(`<table class="vs-minutes"><caption>%s vs minutes</caption><tr><th>Date</th><th>MP</th><th>%s</th></tr>`, esc(m.Stat.String()), esc(m.Stat.String()))
		for _, p := range d.VsMinutes {
			hw.printf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`, p.Date.Format("2006-01-02"), formatFloat(p.Minutes), formatFloat(p.Value))
		}
		hw.printf(`</table>`)
		return hw.err
	})
}

// TeamSection renders the team cards and the game history
func TeamSection(d *model.TeamDashboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		m := d.Metrics
		hw.printf(`<h3>%s, %s vs %s</h3>`, esc(m.Team), esc(d.Season), esc(d.PriorSeason))
		hw.render(ctx, MetricCard("Win Rate", m.WinRate, "%", false))
		hw.render(ctx, MetricCard("Points Made per Game", m.PointsMade, "", false))
		hw.render(ctx, MetricCard("Points Suffered per Game", m.PointsSuffered, "", true))

		hw.printf(`<table class="games"><caption>Game history</caption><tr><th>Date</th><th>Opp</th><th>Made</th><th>Suffered</th><th>Diff</th><th></th></tr>`)
		for _, g := range d.Games {
			class := "up"
			if g.Outcome == model.OutcomeLoss {
				class = "down"
			}
			hw.printf(`<tr class="%s"><td>%s</td><td title="%s">%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				class, g.Date.Format("2006-01-02"), esc(g.Opponent), esc(g.OpponentLabel),
				formatFloat(g.PointsMade), formatFloat(g.PointsAllowed), formatDelta(g.Differential), esc(g.Outcome))
		}
		hw.printf(`</table>`)
		return hw.err
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMeasure shows undefined values as n/a
func formatMeasure(m model.Measure) string {
	if !m.Valid {
		return "n/a"
	}
	return formatFloat(m.Value)
}

func formatDelta(v float64) string {
	if v > 0 {
		return "+" + formatFloat(v)
	}
	return formatFloat(v)
}

func deltaClass(v float64, inverse bool) string {
	if inverse {
		v = -v
	}
	switch {
	case v > 0:
		return "up"
	case v < 0:
		return "down"
	default:
		return "flat"
	}
}
