package pipeline

import (
	"fmt"
	"sync"
	"time"

	"nba-season-dashboard/internal/model"

	"github.com/google/uuid"
)

// LoadTracker tracks per-source metrics while seasons load.
// A nil *LoadTracker is valid and records nothing.
type LoadTracker struct {
	mu      sync.RWMutex
	sources map[string]*model.SourceMetrics
	order   []string
}

// NewLoadTracker creates an empty tracker
func NewLoadTracker() *LoadTracker {
	return &LoadTracker{
		sources: make(map[string]*model.SourceMetrics),
	}
}

// StartSource begins tracking one season source
func (lt *LoadTracker) StartSource(label, source string) {
	if lt == nil {
		return
	}
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if _, exists := lt.sources[label]; !exists {
		lt.order = append(lt.order, label)
	}
	lt.sources[label] = &model.SourceMetrics{
		Label:     label,
		Source:    source,
		StartTime: time.Now(),
		Status:    "running",
	}
}

func (lt *LoadTracker) update(label string, fn func(m *model.SourceMetrics)) {
	if lt == nil {
		return
	}
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if m, ok := lt.sources[label]; ok {
		fn(m)
	}
}

// RecordIngested counts a record read from the source
func (lt *LoadTracker) RecordIngested(label string) {
	lt.update(label, func(m *model.SourceMetrics) { m.RecordsIngested++ })
}

// RecordValid counts a record decoded into a game record
func (lt *LoadTracker) RecordValid(label string) {
	lt.update(label, func(m *model.SourceMetrics) { m.RecordsValid++ })
}

// RecordInvalid counts a rejected record
func (lt *LoadTracker) RecordInvalid(label string) {
	lt.update(label, func(m *model.SourceMetrics) { m.RecordsInvalid++ })
}

// Complete marks a source as loaded
func (lt *LoadTracker) Complete(label string) {
	lt.update(label, func(m *model.SourceMetrics) {
		m.EndTime = time.Now()
		m.IngestionTime = m.EndTime.Sub(m.StartTime)
		m.Status = "completed"
		fmt.Printf("📊 %s: %d records in %v\n", label, m.RecordsValid, m.IngestionTime)
	})
}

// Fail marks a source as failed
func (lt *LoadTracker) Fail(label string, err error) {
	lt.update(label, func(m *model.SourceMetrics) {
		m.EndTime = time.Now()
		m.IngestionTime = m.EndTime.Sub(m.StartTime)
		m.Status = "failed"
		if err != nil {
			m.Error = err.Error()
		}
	})
}

// Metrics returns a snapshot in the order sources were started
func (lt *LoadTracker) Metrics() []model.SourceMetrics {
	if lt == nil {
		return nil
	}
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	out := make([]model.SourceMetrics, 0, len(lt.order))
	for _, label := range lt.order {
		out = append(out, *lt.sources[label])
	}
	return out
}

// LoadRun converts the metrics of one source into a ledger entry. ds is nil
// when the load failed.
func (lt *LoadTracker) LoadRun(season model.SeasonSource, ds *model.SeasonDataset) model.LoadRun {
	run := model.LoadRun{
		ID:         uuid.New().String(),
		Label:      season.Label,
		Source:     season.Source.Location(),
		SourceType: season.Source.Type,
		Status:     "failed",
		LoadedAt:   time.Now().UTC(),
	}
	if ds != nil {
		run.DatasetID = ds.ID
		run.Status = "completed"
		run.Rows = int64(ds.Len())
	}

	if lt == nil {
		return run
	}
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	if m, ok := lt.sources[season.Label]; ok {
		run.Rejected = m.RecordsInvalid
		run.DurationMs = m.IngestionTime.Milliseconds()
		run.Error = m.Error
	}
	return run
}
