// Package watcher reloads the session's circuit when its backing file
// changes on disk, so edits made by external tools show up live in the UI.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/circuit-workbench/pkg/logging"
)

// ChangeEvent is a debounced notification that the circuit file changed.
type ChangeEvent struct {
	Path      string
	Timestamp time.Time
}

// FileWatcher watches a single circuit file for writes.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
}

// New creates a watcher for the given circuit file. The containing
// directory is watched rather than the file itself: editors that
// write-rename would otherwise silently detach the watch.
func New(path string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolving watch path: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher: w,
		path:    abs,
		events:  make(chan ChangeEvent, 16),
	}, nil
}

// Start begins forwarding changes of the watched file. Events are raw;
// wrap the channel with a Debouncer to batch editor write storms.
func (fw *FileWatcher) Start(ctx context.Context) {
	logging.Info("watching circuit file", "path", fw.path)
	go fw.run(ctx)
}

// Events returns the channel of raw change notifications.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Close stops the watcher.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.matches(event) {
				continue
			}
			logging.Debug("circuit file changed", "op", event.Op.String())
			select {
			case fw.events <- ChangeEvent{Path: fw.path, Timestamp: time.Now()}:
			default:
				// A pending notification already covers this change.
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) matches(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == fw.path
}
