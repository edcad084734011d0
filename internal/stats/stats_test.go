package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

func TestRecordDetection(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	agg.SetClock(func() time.Time { return fixed })

	agg.RecordDetection([]model.DetectedObject{
		{Name: "vache", Category: "livestock"},
		{Name: "vache", Category: "livestock"},
		{Name: "oiseau", Category: "bird"},
	})

	snapshot := agg.Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalDetections, "one event, one total increment")
	assert.Equal(t, int64(2), snapshot.ByCategory["livestock"], "category counts per object")
	assert.Equal(t, int64(1), snapshot.ByCategory["bird"])
	assert.Equal(t, fixed, snapshot.LastUpdate)
}

func TestRecordDetectionMissingCategory(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	agg.RecordDetection([]model.DetectedObject{{Name: "mystere"}})

	snapshot := agg.Snapshot()
	assert.Equal(t, int64(1), snapshot.ByCategory[model.CategoryOther])
}

func TestRecordDetectionEmptyObjects(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	agg.RecordDetection(nil)

	snapshot := agg.Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalDetections)
	assert.Empty(t, snapshot.ByCategory)
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	agg.RecordDetection([]model.DetectedObject{{Category: "bird"}})

	snapshot := agg.Snapshot()
	snapshot.ByCategory["bird"] = 99
	snapshot.TotalDetections = 99

	fresh := agg.Snapshot()
	assert.Equal(t, int64(1), fresh.TotalDetections)
	assert.Equal(t, int64(1), fresh.ByCategory["bird"])
}
