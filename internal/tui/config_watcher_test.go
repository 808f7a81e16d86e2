package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gesture:\n  dead_zone: 2\n"), 0o644))

	w, err := NewConfigWatcher(path, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	msgs := make(chan any, 1)
	go func() { msgs <- w.Start()() }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("gesture:\n  dead_zone: 3\n"), 0o644))

	select {
	case msg := <-msgs:
		reloaded, ok := msg.(configReloadedMsg)
		require.True(t, ok, "got %T", msg)
		require.NoError(t, reloaded.err)
		assert.InDelta(t, 3.0, reloaded.cfg.Gesture.DeadZone, 0.001)
		assert.Equal(t, dir, reloaded.cfg.DataDir)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestConfigWatcher_CloseEndsStart(t *testing.T) {
	dir := t.TempDir()
	w, err := NewConfigWatcher(filepath.Join(dir, "config.yaml"), dir)
	require.NoError(t, err)

	msgs := make(chan any, 1)
	go func() { msgs <- w.Start()() }()

	require.NoError(t, w.Close())

	select {
	case msg := <-msgs:
		assert.Nil(t, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Close")
	}
}
