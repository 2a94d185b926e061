package model

import "time"

// GenericRecord is a schema-agnostic row as read from any source
type GenericRecord map[string]interface{}

// Source represents where a season dataset is read from
type Source struct {
	Type  string `json:"type"`            // csv, json, api, sqlite, postgres
	URL   string `json:"url"`             // file path, http(s) URL or database DSN
	Table string `json:"table,omitempty"` // table name for sqlite/postgres sources
}

// Location returns a printable identifier that never includes DSN credentials
// for database sources.
func (s Source) Location() string {
	switch s.Type {
	case "sqlite", "postgres":
		return s.Type + ":" + s.Table
	default:
		return s.URL
	}
}

// SeasonSource pairs a season label with where it is read from
type SeasonSource struct {
	Label  string `json:"label"` // e.g. "2024-25"
	Source Source `json:"source"`
}

// SourceMetrics represents metrics for loading one season source
type SourceMetrics struct {
	Label           string        `json:"label"`
	Source          string        `json:"source"`
	RecordsIngested int64         `json:"records_ingested"`
	RecordsValid    int64         `json:"records_valid"`
	RecordsInvalid  int64         `json:"records_invalid"`
	IngestionTime   time.Duration `json:"ingestion_time"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          string        `json:"status"` // "running", "completed", "failed"
	Error           string        `json:"error,omitempty"`
}

// LoadRun is one row of the load ledger
type LoadRun struct {
	ID         string    `json:"id"`
	DatasetID  string    `json:"dataset_id"`
	Label      string    `json:"label"`
	Source     string    `json:"source"`
	SourceType string    `json:"source_type"`
	Status     string    `json:"status"`
	Rows       int64     `json:"rows"`
	Rejected   int64     `json:"rejected"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "json"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
