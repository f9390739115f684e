package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.ini")
	require.NoError(t, os.WriteFile(path, []byte("[G]\nk=1\n"), 0644))

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(path, func() { changed <- struct{}{} }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, path, w.Path())

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.ini"), []byte("x=1\n"), 0644))

	require.NoError(t, os.WriteFile(path, []byte("[G]\nk=2\n"), 0644))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcherIgnoreWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.ini")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0644))

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(path, func() { changed <- struct{}{} }, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	w.Ignore(time.Second)
	require.NoError(t, os.WriteFile(path, []byte("a=2\n"), 0644))

	select {
	case <-changed:
		t.Fatal("change inside the ignore window must not be reported")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "settings.ini"), nil)
	assert.Error(t, err)
}
