package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/folio/internal/watcher"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	slide := filepath.Join(dir, "intro.md")
	writeFile(t, slide, "# Intro")

	w, err := watcher.New(watcher.Config{
		Files:       []string{slide},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		writeFile(t, slide, fmt.Sprintf("# Intro %d", i))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case paths := <-onChange:
		assert.Equal(t, []string{slide}, paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_ReportsEveryChangedFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	writeFile(t, a, "# A")
	writeFile(t, b, "# B")

	w, err := watcher.New(watcher.Config{
		Files:       []string{b, a},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	writeFile(t, b, "# B2")
	writeFile(t, a, "# A2")

	select {
	case paths := <-onChange:
		assert.Equal(t, []string{a, b}, paths, "paths are sorted")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	slide := filepath.Join(dir, "intro.md")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, slide, "# Intro")
	// Pre-create the other file so writes to it are just Write events
	writeFile(t, other, "initial")

	w, err := watcher.New(watcher.Config{
		Files:       []string{slide},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	writeFile(t, other, "other content")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_RenameSave(t *testing.T) {
	dir := t.TempDir()
	slide := filepath.Join(dir, "intro.md")
	writeFile(t, slide, "# Intro")

	w, err := watcher.New(watcher.Config{
		Files:       []string{slide},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	// Editors commonly write a temp file and rename it over the original.
	tmp := filepath.Join(dir, ".intro.md.swp")
	writeFile(t, tmp, "# Intro, edited")
	require.NoError(t, os.Rename(tmp, slide))

	select {
	case paths := <-onChange:
		assert.Contains(t, paths, slide)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for rename save")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	slide := filepath.Join(dir, "intro.md")
	writeFile(t, slide, "# Intro")

	w, err := watcher.New(watcher.Config{
		Files:       []string{slide},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.Config{
		Files:       []string{filepath.Join(t.TempDir(), "gone", "intro.md")},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/decks/a.md", "/decks/b.md")

	assert.Equal(t, []string{"/decks/a.md", "/decks/b.md"}, cfg.Files)
	assert.Equal(t, 100*time.Millisecond, cfg.DebounceDur)
}
