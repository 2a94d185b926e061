package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nba-season-dashboard/internal/config"
	"nba-season-dashboard/internal/pipeline"

	"github.com/google/uuid"
)

func main() {
	cfg := config.LoadConfig()

	team := flag.String("team", "", "export only this team (default: every team of the current season)")
	stat := flag.String("stat", "", "statistic for the player summary (empty skips players)")
	players := flag.String("players", "", "comma separated players (default: every player of the current season)")
	format := flag.String("format", "csv", "output format: csv or json")
	history := flag.Bool("history", false, "include per-game history in JSON team summaries")
	outputDir := flag.String("out", cfg.OutputDir, "base output directory")
	flag.Parse()

	if *format != "csv" && *format != "json" {
		fmt.Fprintf(os.Stderr, "❌ unsupported format %q\n", *format)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seasons, err := pipeline.Run(ctx, cfg.Seasons.Current, cfg.Seasons.Prior, cfg.Seasons.Schema, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Could not load season data: %v\n", err)
		os.Exit(1)
	}
	session := pipeline.NewSession(seasons.Current, seasons.Prior, pipeline.NewMemoryCache())

	runID := uuid.New().String()
	em := pipeline.NewExportManager(runID, *format, *outputDir)
	fmt.Printf("📦 Export run %s\n", runID)

	teams := session.Filters().Teams
	if *team != "" {
		teams = []string{strings.ToUpper(*team)}
	}
	em.ExportTeamSummaries(ctx, session, teams, *history)

	if *stat != "" {
		names := session.Filters().Players
		if *players != "" {
			names = nil
			for _, p := range strings.Split(*players, ",") {
				if p = strings.TrimSpace(p); p != "" {
					names = append(names, p)
				}
			}
		}
		em.ExportPlayerSummaries(ctx, session, names, *stat)
	}

	failed := 0
	for _, res := range em.Results {
		if !res.Success {
			failed++
			fmt.Fprintf(os.Stderr, "❌ %s export failed: %s\n", res.Type, res.Error)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
	fmt.Printf("✅ %d files written\n", len(em.Results))
}
