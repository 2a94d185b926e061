package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_ADDR", "CORS_ORIGINS", "REQUEST_TIMEOUT", "REDIS_URL", "CACHE_TTL",
		"SEASON_SOURCE_TYPE", "CURRENT_SEASON_SOURCE", "PRIOR_SEASON_SOURCE",
		"CURRENT_SEASON_LABEL", "PRIOR_SEASON_LABEL", "OUTPUT_DIR", "COLUMN_DATE",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("timeout: got %v", cfg.Server.RequestTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors: got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Redis.URL != "" || cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("redis: got %+v", cfg.Redis)
	}
	if cfg.Seasons.Current.Label != "2024-25" || cfg.Seasons.Prior.Label != "2023-24" {
		t.Errorf("labels: got %q / %q", cfg.Seasons.Current.Label, cfg.Seasons.Prior.Label)
	}
	if cfg.Seasons.Current.Source.URL != "./database_24_25.csv" || cfg.Seasons.Current.Source.Type != "csv" {
		t.Errorf("current source: got %+v", cfg.Seasons.Current.Source)
	}
	if cfg.Seasons.Current.Source.Table != "" {
		t.Errorf("csv sources carry no table, got %q", cfg.Seasons.Current.Source.Table)
	}
	if cfg.Seasons.Schema.Date != "Data" || cfg.Seasons.Schema.Points != "PTS" {
		t.Errorf("schema: got %+v", cfg.Seasons.Schema)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("output dir: got %q", cfg.OutputDir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SEASON_SOURCE_TYPE", "Postgres")
	t.Setenv("CURRENT_SEASON_SOURCE", "postgres://localhost/nba?sslmode=disable")
	t.Setenv("SEASON_TABLE_PRIOR", "prior_rows")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("COLUMN_DATE", "Date")
	t.Setenv("LEDGER_DB", "")

	cfg := LoadConfig()

	if cfg.Seasons.Current.Source.Type != "postgres" {
		t.Errorf("source type: got %q", cfg.Seasons.Current.Source.Type)
	}
	if cfg.Seasons.Current.Source.Table != "box_scores_24_25" || cfg.Seasons.Prior.Source.Table != "prior_rows" {
		t.Errorf("tables: got %q / %q", cfg.Seasons.Current.Source.Table, cfg.Seasons.Prior.Source.Table)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("cors: got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Redis.TTL != 90*time.Minute {
		t.Errorf("ttl: got %v", cfg.Redis.TTL)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("bad timeout should fall back, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Seasons.Schema.Date != "Date" {
		t.Errorf("date column: got %q", cfg.Seasons.Schema.Date)
	}
	if cfg.LedgerDB != "" {
		t.Errorf("empty LEDGER_DB should disable the ledger, got %q", cfg.LedgerDB)
	}
}
