package imagestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReturnsDereferenceableReference(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save([]byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, URLPrefix), "reference %q must be under %s", ref, URLPrefix)

	data, err := os.ReadFile(filepath.Join(store.Root(), filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestSaveGeneratesUniqueReferences(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		ref, err := store.Save([]byte("x"))
		require.NoError(t, err)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save([]byte("x"))
	require.NoError(t, err)

	store.Remove(ref)
	_, err = os.Stat(filepath.Join(store.Root(), filepath.Base(ref)))
	assert.True(t, os.IsNotExist(err))

	// Removing twice, or removing an empty reference, is harmless.
	store.Remove(ref)
	store.Remove("")
}

func TestRemoveRefusesTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "media"))
	require.NoError(t, err)

	outside := filepath.Join(dir, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	store.Remove("/media/../outside.txt")
	_, err = os.Stat(outside)
	assert.NoError(t, err, "file outside the root must survive")
}
