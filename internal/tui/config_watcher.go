package tui

import (
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/colonyops/cardwallet/internal/core/config"
)

// configReloadedMsg carries the result of reloading the config file.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// ConfigWatcher reloads the config file when it changes on disk.
type ConfigWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	dataDir     string
	debounceDur time.Duration
}

// NewConfigWatcher watches path. The parent directory is watched so that
// editors which replace the file on save are picked up too.
func NewConfigWatcher(path, dataDir string) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return &ConfigWatcher{
		watcher:     watcher,
		path:        path,
		dataDir:     dataDir,
		debounceDur: 150 * time.Millisecond,
	}, nil
}

// Start returns a command that waits for the next change and reloads the
// config. The caller re-issues Start after handling the message.
func (w *ConfigWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				// Debounce: wait for changes to settle
				time.Sleep(w.debounceDur)

				drained := false
				for !drained {
					select {
					case <-w.watcher.Events:
					default:
						drained = true
					}
				}

				cfg, err := config.Load(w.path, w.dataDir)
				return configReloadedMsg{cfg: cfg, err: err}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the watcher.
func (w *ConfigWatcher) Close() error {
	return w.watcher.Close()
}
