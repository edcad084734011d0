package streamregistry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRejectsInsecureURL(t *testing.T) {
	t.Parallel()

	reg := New(2 * time.Hour)
	_, err := reg.Set("http://insecure.example.com")
	assert.ErrorIs(t, err, ErrInvalidURL)

	// Registry is unchanged by the failed write.
	_, err = reg.Get()
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestSetThenGet(t *testing.T) {
	t.Parallel()

	reg := New(2 * time.Hour)
	endpoint, err := reg.Set("https://tunnel.example.com/stream")
	require.NoError(t, err)
	assert.Equal(t, "https://tunnel.example.com/stream", endpoint.URL)

	got, err := reg.Get()
	require.NoError(t, err)
	assert.Equal(t, endpoint.URL, got.URL)
	assert.Equal(t, endpoint.LastUpdate, got.LastUpdate)
}

func TestGetNeverSet(t *testing.T) {
	t.Parallel()

	reg := New(2 * time.Hour)
	_, err := reg.Get()
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestGetExpired(t *testing.T) {
	t.Parallel()

	reg := New(2 * time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	_, err := reg.Set("https://tunnel.example.com/stream")
	require.NoError(t, err)

	// Still fresh exactly at the window boundary.
	now = now.Add(2 * time.Hour)
	_, err = reg.Get()
	assert.NoError(t, err)

	// One minute past the window the value is expired.
	now = now.Add(time.Minute)
	_, err = reg.Get()
	assert.ErrorIs(t, err, ErrExpired)
}

func TestLateSetResetsFreshness(t *testing.T) {
	t.Parallel()

	reg := New(2 * time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	_, err := reg.Set("https://old.example.com")
	require.NoError(t, err)

	now = now.Add(3 * time.Hour)
	_, err = reg.Get()
	assert.ErrorIs(t, err, ErrExpired)

	// The expired value was retained; a fresh write works and resets
	// the freshness window.
	_, err = reg.Set("https://new.example.com")
	require.NoError(t, err)

	got, err := reg.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", got.URL)
}
