// Package stats maintains the process-lifetime detection counters. The
// aggregator is an append-only ledger: counters only ever increase, and
// deleting a detection from the store never adjusts them.
package stats

import (
	"maps"
	"sync"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

// Aggregator accumulates counters for every accepted detection.
type Aggregator struct {
	mu    sync.RWMutex
	stats model.Stats
	clock func() time.Time
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		stats: model.Stats{ByCategory: make(map[string]int64)},
		clock: time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (a *Aggregator) SetClock(clock func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clock = clock
}

// RecordDetection counts one accepted detection. The total increments by
// one per event; category counters increment once per detected object,
// falling back to the "other" sentinel when an object has no category.
func (a *Aggregator) RecordDetection(objects []model.DetectedObject) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.TotalDetections++
	for i := range objects {
		a.stats.ByCategory[objects[i].CategoryLabel()]++
	}
	a.stats.LastUpdate = a.clock()
}

// Snapshot returns a copy of the current counters safe for serialization.
func (a *Aggregator) Snapshot() model.Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := a.stats
	snapshot.ByCategory = make(map[string]int64, len(a.stats.ByCategory))
	maps.Copy(snapshot.ByCategory, a.stats.ByCategory)
	return snapshot
}
