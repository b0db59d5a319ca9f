package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "http://localhost:8080")

	res, err := store.Upload([]byte("hello"), "photo.jpg", "reports")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "reports/"))
	assert.True(t, strings.HasSuffix(res.Key, ".jpg"), "original extension preserved")
	assert.Equal(t, "http://localhost:8080/uploads/"+res.Key, res.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, store.Delete(res.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(res.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_UniqueKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")

	a, err := store.Upload([]byte("a"), "same.png", "")
	require.NoError(t, err)
	b, err := store.Upload([]byte("b"), "same.png", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.Key, b.Key)
}

func TestLocalStore_NoExtension(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")

	res, err := store.Upload([]byte("x"), "noext", "reports")
	require.NoError(t, err)
	assert.False(t, strings.Contains(filepath.Base(res.Key), "."))
}

func TestLocalStore_DeleteMissingIsIdempotent(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")
	assert.NoError(t, store.Delete("reports/never-existed.jpg"))
}
