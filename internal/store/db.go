package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"nba-season-dashboard/internal/model"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Ledger records every season load in a sqlite database
type Ledger struct {
	db *sql.DB
}

// NewLedger opens (or creates) the ledger database at dbPath
func NewLedger(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	l := &Ledger{db: db}
	if err := l.initDatabase(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initDatabase() error {
	// Create tables if not exists
	loadTable := `
	CREATE TABLE IF NOT EXISTS dataset_loads (
		id TEXT PRIMARY KEY,
		dataset_id TEXT,
		label TEXT,
		source TEXT,
		source_type TEXT,
		status TEXT,
		row_count INTEGER,
		rejected INTEGER,
		duration_ms INTEGER,
		error_message TEXT,
		loaded_at DATETIME
	);
	`
	if _, err := l.db.Exec(loadTable); err != nil {
		return fmt.Errorf("failed to create dataset_loads table: %w", err)
	}
	return nil
}

// RecordLoad stores one load run
func (l *Ledger) RecordLoad(ctx context.Context, run model.LoadRun) error {
	loadedAt := run.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `INSERT INTO dataset_loads
		(id, dataset_id, label, source, source_type, status, row_count, rejected, duration_ms, error_message, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DatasetID, run.Label, run.Source, run.SourceType, run.Status,
		run.Rows, run.Rejected, run.DurationMs, run.Error, loadedAt.UTC())
	return err
}

// ListLoads returns the most recent load runs, newest first
func (l *Ledger) ListLoads(ctx context.Context, limit int) ([]model.LoadRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `SELECT id, dataset_id, label, source, source_type, status,
		row_count, rejected, duration_ms, error_message, loaded_at
		FROM dataset_loads ORDER BY loaded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []model.LoadRun{}
	for rows.Next() {
		var run model.LoadRun
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.DatasetID, &run.Label, &run.Source, &run.SourceType, &run.Status,
			&run.Rows, &run.Rejected, &run.DurationMs, &errMsg, &run.LoadedAt); err != nil {
			return nil, err
		}
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the ledger database
func (l *Ledger) Close() error {
	return l.db.Close()
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// driverFor maps a source type to its database/sql driver name
func driverFor(sourceType string) (string, error) {
	switch sourceType {
	case "sqlite":
		return "sqlite3", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database source type: %s", sourceType)
	}
}

// ReadBoxScores streams every row of a box-score table to emit and returns
// the table's column names in order. Byte values become strings and
// timestamps become ISO dates.
func ReadBoxScores(ctx context.Context, sourceType, dsn, table string, emit func(model.GenericRecord) error) ([]string, error) {
	driver, err := driverFor(sourceType)
	if err != nil {
		return nil, err
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", sourceType, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return columns, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		rec := make(model.GenericRecord, len(columns)+1)
		for i, col := range columns {
			rec[col] = normalizeValue(values[i])
		}
		if err := emit(rec); err != nil {
			return columns, err
		}
	}
	return columns, rows.Err()
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return val
	}
}
