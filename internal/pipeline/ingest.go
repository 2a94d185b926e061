package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"nba-season-dashboard/internal/model"
	"nba-season-dashboard/internal/store"
	"nba-season-dashboard/pkg/utils"
)

// RowKey carries the 1-based data row number of a record for error messages.
const RowKey = "_row"

// ------------------- Ingestion -------------------

// IngestSource streams the rows of one season source into out and returns the
// column names in source order. It does not close out.
func IngestSource(ctx context.Context, source model.Source, out chan<- model.GenericRecord) ([]string, error) {
	fmt.Printf("➡️ Starting ingestion for source: %s (%s)\n", source.Location(), source.Type)
	defer fmt.Printf("✅ Finished ingestion for source: %s (%s)\n", source.Location(), source.Type)

	switch strings.ToLower(source.Type) {
	case "csv", "":
		return ingestCSV(ctx, source.URL, out)
	case "json", "api":
		return ingestJSON(ctx, source.URL, out)
	case "sqlite", "postgres":
		return ingestSQL(ctx, source, out)
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// ------------------- CSV Ingestion -------------------
func ingestCSV(ctx context.Context, pathOrURL string, out chan<- model.GenericRecord) ([]string, error) {
	var reader io.Reader
	if strings.HasPrefix(pathOrURL, "http") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build CSV request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to GET CSV: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to GET CSV: status %d", resp.StatusCode)
		}
		reader = resp.Body
	} else {
		file, err := os.Open(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	rawHeaders, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		// Clean header names: trim whitespace, BOM and ALL quotes
		cleanHeader := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cleanHeader = strings.ReplaceAll(cleanHeader, `"`, "")
		headers[i] = cleanHeader
	}

	recordCount := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			fmt.Printf("📄 CSV ingestion done: %d records read from %s\n", recordCount, pathOrURL)
			return headers, nil
		} else if err != nil {
			return headers, fmt.Errorf("CSV read error at row %d: %w", recordCount+1, err)
		}

		recMap := make(model.GenericRecord, len(headers)+1)
		for i, h := range headers {
			if i < len(record) {
				recMap[h] = utils.ParseValue(record[i])
			}
		}
		recMap[RowKey] = recordCount + 1

		select {
		case <-ctx.Done():
			return headers, ctx.Err()
		case out <- recMap:
			recordCount++
			if recordCount%5000 == 0 {
				fmt.Printf("📄 CSV: Processed %d records from %s\n", recordCount, pathOrURL)
			}
		}
	}
}

// ------------------- JSON / API Ingestion -------------------
func ingestJSON(ctx context.Context, pathOrURL string, out chan<- model.GenericRecord) ([]string, error) {
	var bodyBytes []byte
	if strings.HasPrefix(pathOrURL, "http") {
		fmt.Printf("🌐 GET JSON: %s\n", pathOrURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build JSON request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to GET JSON: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to GET JSON: status %d", resp.StatusCode)
		}
		bodyBytes, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON body: %w", err)
		}
	} else {
		var err error
		bodyBytes, err = os.ReadFile(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON file: %w", err)
		}
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: expected an array of rows: %w", err)
	}

	// JSON objects carry no column order
	seen := make(map[string]bool)
	var headers []string
	for i, item := range raw {
		for k := range item {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
		rec := model.GenericRecord(item)
		rec[RowKey] = i + 1

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case out <- rec:
		}
	}
	sort.Strings(headers)

	fmt.Printf("🌐 JSON ingestion done: %d records read from %s\n", len(raw), pathOrURL)
	return headers, nil
}

// ------------------- SQL Ingestion -------------------
func ingestSQL(ctx context.Context, source model.Source, out chan<- model.GenericRecord) ([]string, error) {
	recordCount := 0
	columns, err := store.ReadBoxScores(ctx, source.Type, source.URL, source.Table, func(rec model.GenericRecord) error {
		rec[RowKey] = recordCount + 1
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- rec:
			recordCount++
			return nil
		}
	})
	if err != nil {
		return columns, err
	}

	fmt.Printf("🗄️ SQL ingestion done: %d records read from %s\n", recordCount, source.Location())
	return columns, nil
}
