package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nba-season-dashboard/internal/api"
	"nba-season-dashboard/internal/api/handler"
	"nba-season-dashboard/internal/cache"
	"nba-season-dashboard/internal/config"
	"nba-season-dashboard/internal/pipeline"
	"nba-season-dashboard/internal/store"
	"nba-season-dashboard/pkg/router"
)

// @title NBA Season Dashboard API
// @version 1.0
// @description Two-season box-score comparisons for players and teams.
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init ledger
	var recorder pipeline.LoadRecorder
	var loads handler.LoadLister
	if cfg.LedgerDB != "" {
		ledger, err := store.NewLedger(cfg.LedgerDB)
		if err != nil {
			log.Fatalf("❌ Failed to open load ledger %s: %v", cfg.LedgerDB, err)
		}
		defer ledger.Close()
		recorder, loads = ledger, ledger
	}

	// Load both seasons before serving anything
	seasons, err := pipeline.Run(ctx, cfg.Seasons.Current, cfg.Seasons.Prior, cfg.Seasons.Schema, recorder)
	if err != nil {
		if errors.Is(err, pipeline.ErrLoad) {
			fmt.Fprintf(os.Stderr, "❌ Could not load season data: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "❌ Startup failed: %v\n", err)
		}
		os.Exit(1)
	}

	session := pipeline.NewSession(seasons.Current, seasons.Prior, newSeriesCache(ctx, cfg.Redis))
	h := handler.NewDashboardHandler(session, loads, seasons.Metrics)

	r := router.New(router.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	api.RegisterRoutes(r, h)

	if err := r.Start(ctx, cfg.Server.Addr); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
	fmt.Println("✓ Shutdown complete")
}

// newSeriesCache uses Redis when configured and reachable, memory otherwise
func newSeriesCache(ctx context.Context, cfg config.RedisConfig) pipeline.SeriesCache {
	if cfg.URL == "" {
		return pipeline.NewMemoryCache()
	}
	client, err := cache.Connect(ctx, cfg.URL)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, using in-memory series cache: %v", err)
		return pipeline.NewMemoryCache()
	}
	log.Printf("✓ Series cache backed by Redis (ttl %v)", cfg.TTL)
	return cache.NewRedisCache(client, cfg.TTL)
}
