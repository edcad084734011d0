package datastore

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

func newDetection(name string, ts time.Time) *model.Detection {
	return &model.Detection{
		Timestamp: ts,
		Objects:   []model.DetectedObject{{Name: name}},
		Priority:  model.PriorityNormal,
	}
}

func TestDetectionStoreInsertAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	store := NewMemoryDetectionStore(10)
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id, err := store.Insert(newDetection("cat", time.Now()))
		require.NoError(t, err)
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestDetectionStoreRetention(t *testing.T) {
	t.Parallel()

	const maxSize = 1000
	store := NewMemoryDetectionStore(maxSize)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < maxSize+50; i++ {
		_, err := store.Insert(newDetection(fmt.Sprintf("obj-%d", i), base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	total, page := store.List(0, 5)
	assert.Equal(t, maxSize, total, "store must retain exactly the cap")

	// Newest first: the last inserted record leads the page.
	require.Len(t, page, 5)
	assert.Equal(t, "obj-1049", page[0].Objects[0].Name)
	assert.Equal(t, "obj-1048", page[1].Objects[0].Name)

	// The oldest surviving record is the one 1000 back from the end.
	total, lastPage := store.List(maxSize-1, 1)
	assert.Equal(t, maxSize, total)
	require.Len(t, lastPage, 1)
	assert.Equal(t, "obj-50", lastPage[0].Objects[0].Name)
}

func TestDetectionStoreListPaging(t *testing.T) {
	t.Parallel()

	store := NewMemoryDetectionStore(100)
	for i := 0; i < 10; i++ {
		_, err := store.Insert(newDetection(fmt.Sprintf("obj-%d", i), time.Now()))
		require.NoError(t, err)
	}

	t.Run("contiguous page", func(t *testing.T) {
		total, page := store.List(2, 3)
		assert.Equal(t, 10, total)
		require.Len(t, page, 3)
		assert.Equal(t, "obj-7", page[0].Objects[0].Name)
		assert.Equal(t, "obj-5", page[2].Objects[0].Name)
	})

	t.Run("limit past the end is clamped", func(t *testing.T) {
		total, page := store.List(8, 10)
		assert.Equal(t, 10, total)
		assert.Len(t, page, 2)
	})

	t.Run("out of range offset yields empty page", func(t *testing.T) {
		total, page := store.List(50, 10)
		assert.Equal(t, 10, total)
		assert.Empty(t, page)
	})

	t.Run("negative offset yields empty page", func(t *testing.T) {
		_, page := store.List(-1, 10)
		assert.Empty(t, page)
	})
}

func TestDetectionStoreGet(t *testing.T) {
	t.Parallel()

	store := NewMemoryDetectionStore(10)
	id, err := store.Insert(newDetection("cat", time.Now()))
	require.NoError(t, err)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "cat", got.Objects[0].Name)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrDetectionNotFound)
}

func TestDetectionStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryDetectionStore(10)
	id, err := store.Insert(newDetection("cat", time.Now()))
	require.NoError(t, err)
	keepID, err := store.Insert(newDetection("dog", time.Now()))
	require.NoError(t, err)

	deleted, err := store.Delete(id)
	require.NoError(t, err)
	assert.Equal(t, id, deleted.ID)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrDetectionNotFound)

	// The other record is untouched.
	_, err = store.Get(keepID)
	assert.NoError(t, err)

	// Deleting twice reports NotFound.
	_, err = store.Delete(id)
	assert.ErrorIs(t, err, ErrDetectionNotFound)
}

func TestDetectionStoreCountSince(t *testing.T) {
	t.Parallel()

	store := NewMemoryDetectionStore(10)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Insert(newDetection("cat", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	assert.Equal(t, 5, store.CountSince(base))
	assert.Equal(t, 2, store.CountSince(base.Add(3*time.Hour)))
	assert.Equal(t, 0, store.CountSince(base.Add(10*time.Hour)))
}
