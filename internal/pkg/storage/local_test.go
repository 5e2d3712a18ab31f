package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndGet(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "data"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "news.json", strings.NewReader("first")))
	require.NoError(t, s.Save(ctx, "news.json", strings.NewReader("second")))

	rc, err := s.Get(ctx, "news.json")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))

	// No temp files are left behind after a successful save.
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_SaveCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "nested/dir/news.json", strings.NewReader("[]")))

	_, err = os.Stat(filepath.Join(dir, "nested", "dir", "news.json"))
	assert.NoError(t, err)
}

func TestLocalStorage_SaveCanceledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Save(ctx, "news.json", strings.NewReader("[]"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStorage_RejectsPathsOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("secret"), 0o644))

	ctx := context.Background()
	for _, path := range []string{"../secret.txt", "nested/../../secret.txt", "", "."} {
		t.Run(path, func(t *testing.T) {
			err := s.Save(ctx, path, strings.NewReader("overwritten"))
			assert.ErrorIs(t, err, ErrInvalidPath)

			_, err = s.Get(ctx, path)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}

	body, err := os.ReadFile(filepath.Join(dir, "secret.txt"))
	require.NoError(t, err)
	assert.Equal(t, "secret", string(body))

	// Dot segments that stay inside the root are fine.
	require.NoError(t, s.Save(ctx, "nested/../news.json", strings.NewReader("[]")))
	_, err = os.Stat(filepath.Join(dir, "data", "news.json"))
	assert.NoError(t, err)
}
