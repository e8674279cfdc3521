package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/lifeos/pkg/store"
)

func TestWatcherSignalsDatabaseWrites(t *testing.T) {
	dir := t.TempDir()
	msgs := make(chan tea.Msg, 8)

	cleanup, err := StartWatcher(dir, func(msg tea.Msg) { msgs <- msg })
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, os.WriteFile(filepath.Join(dir, store.DBName), []byte("x"), 0o644))

	select {
	case msg := <-msgs:
		assert.IsType(t, DataChangedMsg{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no DataChangedMsg after writing the database")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	msgs := make(chan tea.Msg, 8)

	cleanup, err := StartWatcher(dir, func(msg tea.Msg) { msgs <- msg })
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("x"), 0o644))

	select {
	case msg := <-msgs:
		t.Fatalf("unexpected message %T", msg)
	case <-time.After(4 * debounceDelay):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := StartWatcher(filepath.Join(t.TempDir(), "missing"), func(tea.Msg) {})
	assert.Error(t, err)
}
