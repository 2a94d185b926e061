package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"nba-season-dashboard/internal/model"
)

// SeriesKind names what a cached row set was filtered on
type SeriesKind string

const (
	KindPlayer   SeriesKind = "player"
	KindTeam     SeriesKind = "team"
	KindOpponent SeriesKind = "opponent"
)

// CacheKey identifies a filtered row set of one dataset
type CacheKey struct {
	DatasetID string
	Kind      SeriesKind
	Key       string
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.DatasetID, k.Kind, k.Key)
}

// SeriesCache memoizes filtered rows. Datasets never change during a process
// lifetime and get a fresh ID per load, so entries are never invalidated.
// Callers must treat returned rows as read-only.
type SeriesCache interface {
	Get(ctx context.Context, key CacheKey) ([]model.GameRecord, bool)
	Set(ctx context.Context, key CacheKey, rows []model.GameRecord)
}

// MemoryCache is an in-process SeriesCache
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[CacheKey][]model.GameRecord
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[CacheKey][]model.GameRecord),
	}
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) ([]model.GameRecord, bool) {
	c.mu.RLock()
	rows, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return rows, ok
}

func (c *MemoryCache) Set(_ context.Context, key CacheKey, rows []model.GameRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = rows
}

// Stats returns hit and miss counts
func (c *MemoryCache) Stats() map[string]interface{} {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return map[string]interface{}{
		"entries": size,
		"hits":    c.hits.Load(),
		"misses":  c.misses.Load(),
	}
}
