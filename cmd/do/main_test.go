package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, at, at))
}

func TestSourcesNewer(t *testing.T) {
	built := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := built.Add(-time.Hour)
	after := built.Add(time.Hour)

	t.Run("up to date", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "cmd", "main.go"), before)
		touch(t, filepath.Join(dir, "db", "migrations", "00001_goals.sql"), before)
		assert.False(t, sourcesNewer(built, filepath.Join(dir, "cmd"), filepath.Join(dir, "db")))
	})

	t.Run("new migration", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "cmd", "main.go"), before)
		touch(t, filepath.Join(dir, "db", "migrations", "00003_notes.sql"), after)
		assert.True(t, sourcesNewer(built, filepath.Join(dir, "cmd"), filepath.Join(dir, "db")))
	})

	t.Run("ignores tests and other files", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "cmd", "main_test.go"), after)
		touch(t, filepath.Join(dir, "cmd", "README.md"), after)
		assert.False(t, sourcesNewer(built, filepath.Join(dir, "cmd")))
	})

	t.Run("missing root", func(t *testing.T) {
		assert.False(t, sourcesNewer(built, filepath.Join(t.TempDir(), "nope")))
	})
}
