package config

import (
	"os"
	"strings"
	"time"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/pkg/utils"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// SeasonsConfig holds where both seasons are read from
type SeasonsConfig struct {
	Current model.SeasonSource
	Prior   model.SeasonSource
	Schema  model.Schema
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL string // empty keeps the series cache in memory
	TTL time.Duration
}

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Seasons   SeasonsConfig
	Redis     RedisConfig
	LedgerDB  string // empty disables the load ledger
	OutputDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":8080"),
			CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
			RequestTimeout: utils.ParseDuration(os.Getenv("REQUEST_TIMEOUT"), 30*time.Second),
		},
		Seasons: loadSeasonsConfig(),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
			TTL: utils.ParseDuration(os.Getenv("CACHE_TTL"), 24*time.Hour),
		},
		LedgerDB:  getEnvAllowEmpty("LEDGER_DB", "dashboard.db"),
		OutputDir: getEnv("OUTPUT_DIR", "output"),
	}
}

// loadSeasonsConfig builds both season sources. File sources use the
// *_SOURCE paths; database sources use them as the DSN and read the
// SEASON_TABLE_* tables.
func loadSeasonsConfig() SeasonsConfig {
	sourceType := strings.ToLower(getEnv("SEASON_SOURCE_TYPE", "csv"))

	source := func(urlKey, urlDefault, tableKey, tableDefault string) model.Source {
		s := model.Source{
			Type: sourceType,
			URL:  getEnv(urlKey, urlDefault),
		}
		if sourceType == "sqlite" || sourceType == "postgres" {
			s.Table = getEnv(tableKey, tableDefault)
		}
		return s
	}

	defaults := model.DefaultSchema()
	return SeasonsConfig{
		Current: model.SeasonSource{
			Label:  getEnv("CURRENT_SEASON_LABEL", "2024-25"),
			Source: source("CURRENT_SEASON_SOURCE", "./database_24_25.csv", "SEASON_TABLE_CURRENT", "box_scores_24_25"),
		},
		Prior: model.SeasonSource{
			Label:  getEnv("PRIOR_SEASON_LABEL", "2023-24"),
			Source: source("PRIOR_SEASON_SOURCE", "./database_23_24.csv", "SEASON_TABLE_PRIOR", "box_scores_23_24"),
		},
		Schema: model.Schema{
			Date:     getEnv("COLUMN_DATE", defaults.Date),
			Player:   getEnv("COLUMN_PLAYER", defaults.Player),
			Team:     getEnv("COLUMN_TEAM", defaults.Team),
			Opponent: getEnv("COLUMN_OPPONENT", defaults.Opponent),
			Minutes:  getEnv("COLUMN_MINUTES", defaults.Minutes),
			Result:   getEnv("COLUMN_RESULT", defaults.Result),
			Points:   getEnv("COLUMN_POINTS", defaults.Points),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty is getEnv, except that a variable set to "" stays empty
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
