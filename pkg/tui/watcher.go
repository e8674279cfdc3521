package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/stefanpenner/lifeos/pkg/store"
)

// debounceDelay coalesces the burst of writes one SQLite commit produces.
const debounceDelay = 200 * time.Millisecond

// StartWatcher watches the data directory for database changes and calls
// send with DataChangedMsg. The returned cleanup stops the watcher and
// waits for its goroutine to exit.
func StartWatcher(root string, send func(tea.Msg)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(root); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// lifeos.db, lifeos.db-wal, lifeos.db-journal
				if !strings.HasPrefix(filepath.Base(event.Name), store.DBName) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}

				// Debounce: wait after the last change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					send(DataChangedMsg{})
				})

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}

			case <-done:
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		<-exited
		watcher.Close()
	}

	return cleanup, nil
}
