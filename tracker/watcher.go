package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long a path must stay quiet before its events are
// handed to the tracker.
const DefaultDebounce = 400 * time.Millisecond

// Watcher turns raw filesystem notifications for one root into settled
// per-file events. Events for the same path are coalesced with a reset
// timer so editors and tools that write in bursts trigger one detection
// pass instead of several.
type Watcher struct {
	root     string
	fs       *fsnotify.Watcher
	tracker  *Tracker
	debounce time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
	logger   zerolog.Logger
}

func newWatcher(root string, t *Tracker, debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		fs:       fsw,
		tracker:  t,
		debounce: debounce,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		logger:   logger.With().Str("component", "watcher").Logger(),
	}

	if err := w.addDirs(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to register watch directories: %w", err)
	}

	go w.loop()
	return w, nil
}

// addDirs registers dir and every non-ignored directory beneath it.
func (w *Watcher) addDirs(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && Ignored(rel) {
			return filepath.SkipDir
		}

		if addErr := w.fs.Add(path); addErr != nil {
			w.logger.Debug().Err(addErr).Str("dir", path).Msg("failed to watch directory")
		}
		return nil
	})
}

// loop is the single consumer: it drains raw events, batches them per path
// until the debounce window closes, and runs the tracker's detection
// pipeline for each settled path.
func (w *Watcher) loop() {
	defer close(w.doneChan)

	settleTimer := time.NewTimer(w.debounce)
	settleTimer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil || rel == "." {
				continue
			}
			if Ignored(rel) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := w.addDirs(event.Name); addErr != nil {
						w.logger.Debug().Err(addErr).Str("dir", event.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}

			pending[rel] = true
			settleTimer.Stop()
			settleTimer.Reset(w.debounce)

		case <-settleTimer.C:
			for rel := range pending {
				w.tracker.handleFileEvent(rel)
			}
			pending = make(map[string]bool)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// close stops the loop and releases the underlying watcher. It blocks until
// the consumer goroutine has exited, so no detection pass runs afterward.
func (w *Watcher) close() {
	close(w.stopChan)
	w.fs.Close()
	<-w.doneChan
}
