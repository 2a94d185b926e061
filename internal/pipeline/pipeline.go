package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nba-season-dashboard/internal/model"

	"github.com/google/uuid"
)

// ErrLoad marks every failure to load a season dataset.
var ErrLoad = errors.New("season load failed")

// LoadError describes why a season source could not be loaded
type LoadError struct {
	Source string
	Row    int // 1-based data row, 0 when the failure is not tied to a row
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Source != "" && e.Row > 0:
		return fmt.Sprintf("load %s: row %d: %v", e.Source, e.Row, e.Err)
	case e.Source != "":
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// LoadRecorder receives one entry per season load attempt.
type LoadRecorder interface {
	RecordLoad(ctx context.Context, run model.LoadRun) error
}

// Seasons is the pair of datasets every dashboard query reads
type Seasons struct {
	Current *model.SeasonDataset
	Prior   *model.SeasonDataset
	Metrics []model.SourceMetrics
}

// ------------------- Season Loader -------------------

// LoadSeason reads one season source through the ingest, validate and
// transform stages. Any failure is returned as a *LoadError.
func LoadSeason(ctx context.Context, season model.SeasonSource, schema model.Schema, tracker *LoadTracker) (ds *model.SeasonDataset, err error) {
	if tracker == nil {
		tracker = NewLoadTracker()
	}
	location := season.Source.Location()
	tracker.StartSource(season.Label, location)

	defer func() {
		if err != nil {
			var le *LoadError
			if !errors.As(err, &le) {
				err = &LoadError{Source: location, Err: err}
			} else if le.Source == "" {
				le.Source = location
			}
			tracker.Fail(season.Label, err)
			return
		}
		tracker.Complete(season.Label)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		firstErr error
		errOnce  sync.Once
	)
	fail := func(e error) {
		errOnce.Do(func() {
			firstErr = e
			cancel()
		})
	}

	recordsCh := make(chan model.GenericRecord, 256)
	validatedCh := make(chan model.GenericRecord, 256)

	var wg sync.WaitGroup
	var headers []string

	// --- INGESTION STAGE ---
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(recordsCh) // safe: only this goroutine closes recordsCh

		h, ingestErr := IngestSource(ctx, season.Source, recordsCh)
		headers = h
		if ingestErr != nil && ctx.Err() == nil {
			fail(ingestErr)
		}
	}()

	// --- VALIDATION STAGE ---
	wg.Add(1)
	go func() {
		defer wg.Done()
		ValidateRecords(ctx, schema, recordsCh, validatedCh, fail, tracker, season.Label)
	}()

	// --- TRANSFORMATION STAGE ---
	games := TransformRecords(ctx, schema, validatedCh, fail, tracker, season.Label)

	// drain so the upstream stages can exit after an early return
	for range validatedCh {
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateHeaders(headers, schema); err != nil {
		return nil, err
	}

	schema.NumericColumns = numericColumns(headers, schema)
	ds = &model.SeasonDataset{
		ID:       uuid.New().String(),
		Label:    season.Label,
		Source:   season.Source,
		Schema:   schema,
		Records:  games,
		LoadedAt: time.Now().UTC(),
	}
	return ds, nil
}

// numericColumns keeps the header order, dropping text structural columns.
func numericColumns(headers []string, schema model.Schema) []string {
	cols := make([]string, 0, len(headers))
	for _, h := range headers {
		if h == "" || h == RowKey || schema.IsText(h) {
			continue
		}
		cols = append(cols, h)
	}
	return cols
}

// ------------------- Pipeline Runner -------------------

// Run loads the current and prior seasons in parallel and records each
// attempt with recorder when it is not nil. Both must load for Run to succeed.
func Run(ctx context.Context, current, prior model.SeasonSource, schema model.Schema, recorder LoadRecorder) (*Seasons, error) {
	start := time.Now()
	fmt.Printf("🚀 Loading seasons %s and %s\n", current.Label, prior.Label)

	tracker := NewLoadTracker()
	seasons := []model.SeasonSource{current, prior}
	datasets := make([]*model.SeasonDataset, len(seasons))
	errs := make([]error, len(seasons))

	var wg sync.WaitGroup
	for i, s := range seasons {
		wg.Add(1)
		go func(i int, s model.SeasonSource) {
			defer wg.Done()
			datasets[i], errs[i] = LoadSeason(ctx, s, schema, tracker)
		}(i, s)
	}
	wg.Wait() // wait for all loading goroutines

	metrics := tracker.Metrics()
	if recorder != nil {
		for i, s := range seasons {
			run := tracker.LoadRun(s, datasets[i])
			if err := recorder.RecordLoad(ctx, run); err != nil {
				fmt.Printf("⚠️ Failed to record load of %s: %v\n", s.Label, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		fmt.Printf("❌ Season load failed after %v: %v\n", time.Since(start), err)
		return nil, err
	}

	fmt.Printf("🏁 Seasons loaded in %v: %s (%d rows), %s (%d rows)\n",
		time.Since(start), datasets[0].Label, datasets[0].Len(), datasets[1].Label, datasets[1].Len())

	return &Seasons{
		Current: datasets[0],
		Prior:   datasets[1],
		Metrics: metrics,
	}, nil
}
