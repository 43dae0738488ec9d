package tracker

import (
	"bytes"
	"driftwatch/diff"
	"driftwatch/events"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNoPendingChange is returned when accept, revert, or revert-hunk
	// name a path with nothing pending.
	ErrNoPendingChange = errors.New("no pending change for path")

	// ErrHunkIndex is returned when a hunk index is out of range.
	ErrHunkIndex = errors.New("hunk index out of range")

	// ErrNotWatching is returned by operations that need an active watch.
	ErrNotWatching = errors.New("no directory is being watched")
)

// PendingChange records one file whose live content has diverged from its
// accepted baseline. OldContent is the baseline, NewContent the last
// observed content, and Diff always describes OldContent → NewContent.
type PendingChange struct {
	ID         string      `json:"id"`
	Path       string      `json:"path"`
	Filename   string      `json:"filename"`
	OldContent string      `json:"oldContent"`
	NewContent string      `json:"newContent"`
	Diff       []diff.Hunk `json:"diff"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Tracker owns the snapshot store and the pending-change map, and is the
// only component that writes workspace files (during reverts). One mutex
// guards both maps because change detection always touches them together.
type Tracker struct {
	mu       sync.Mutex
	snaps    *SnapshotStore
	pending  map[string]*PendingChange
	watcher  *Watcher
	root     string
	lastScan ScanResult
	debounce time.Duration
	bus      *events.Bus
	logger   zerolog.Logger
}

// New creates a tracker that publishes to bus. A debounce of zero or less
// selects DefaultDebounce.
func New(bus *events.Bus, logger zerolog.Logger, debounce time.Duration) *Tracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Tracker{
		snaps:    NewSnapshotStore(),
		pending:  make(map[string]*PendingChange),
		debounce: debounce,
		bus:      bus,
		logger:   logger.With().Str("component", "tracker").Logger(),
	}
}

// Watch starts tracking dir, replacing any active watch. Prior snapshots
// and pending changes are discarded and the store is rebuilt from a fresh
// scan before live events flow.
func (t *Tracker) Watch(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve watch directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", abs)
	}

	t.Stop()

	t.mu.Lock()
	t.snaps.Clear()
	t.pending = make(map[string]*PendingChange)
	t.root = abs
	t.lastScan = t.snaps.Scan(abs, MaxScanDepth)
	scan := t.lastScan
	t.mu.Unlock()

	t.logger.Info().
		Str("root", abs).
		Int("tracked", scan.Captured).
		Msg("initial scan complete")

	w, err := newWatcher(abs, t, t.debounce, t.logger)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	t.mu.Lock()
	t.watcher = w
	t.mu.Unlock()

	t.bus.EmitWatchStarted(abs)
	return nil
}

// Stop tears down the active watch, if any. Snapshots and pending changes
// survive until the next Watch.
func (t *Tracker) Stop() {
	t.mu.Lock()
	w := t.watcher
	t.watcher = nil
	root := t.root
	t.mu.Unlock()

	if w != nil {
		w.close()
		t.bus.EmitWatchStopped(root)
	}
}

// Root returns the directory of the current (or last) watch.
func (t *Tracker) Root() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// TrackedFiles returns how many files currently have snapshots.
func (t *Tracker) TrackedFiles() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snaps.Len()
}

// ScanSummary returns the result of the watch's initial scan.
func (t *Tracker) ScanSummary() ScanResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastScan
}

// PendingChanges returns a copy of every in-flight change, most recent
// first.
func (t *Tracker) PendingChanges() []*PendingChange {
	t.mu.Lock()
	defer t.mu.Unlock()

	changes := make([]*PendingChange, 0, len(t.pending))
	for _, pc := range t.pending {
		out := *pc
		changes = append(changes, &out)
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Timestamp.After(changes[j].Timestamp)
	})
	return changes
}

// FileDiff returns a copy of the pending change for path.
func (t *Tracker) FileDiff(path string) (*PendingChange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pc, ok := t.pending[path]
	if !ok {
		return nil, ErrNoPendingChange
	}
	out := *pc
	return &out, nil
}

// Accept promotes path's observed content to the new baseline. The file on
// disk is already in its new state, so nothing is written.
func (t *Tracker) Accept(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pc, ok := t.pending[path]
	if !ok {
		return ErrNoPendingChange
	}
	t.snaps.Set(path, pc.NewContent)
	delete(t.pending, path)
	t.bus.EmitChangeAccepted(path)
	return nil
}

// AcceptAll promotes every pending change, one file at a time, and returns
// how many were accepted.
func (t *Tracker) AcceptAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	accepted := 0
	for path, pc := range t.pending {
		t.snaps.Set(path, pc.NewContent)
		delete(t.pending, path)
		t.bus.EmitChangeAccepted(path)
		accepted++
	}
	return accepted
}

// Revert writes path's baseline content back to disk, resets the snapshot,
// and drops the pending change. Reverting a file that was deleted on disk
// recreates it.
func (t *Tracker) Revert(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pc, ok := t.pending[path]
	if !ok {
		return ErrNoPendingChange
	}
	abs := filepath.Join(t.root, path)
	if err := os.WriteFile(abs, []byte(pc.OldContent), 0644); err != nil {
		return fmt.Errorf("failed to restore %s: %w", path, err)
	}
	t.snaps.Set(path, pc.OldContent)
	delete(t.pending, path)
	t.bus.EmitChangeReverted(path)
	return nil
}

// RevertHunk undoes a single hunk of path's pending change by splicing the
// hunk's removed lines back over its added lines at their recorded
// positions, then recomputes what remains pending.
func (t *Tracker) RevertHunk(path string, index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pc, ok := t.pending[path]
	if !ok {
		return ErrNoPendingChange
	}

	abs := filepath.Join(t.root, path)
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	current := string(data)

	// stored hunk positions refer to the content they were computed from,
	// so recompute if the disk moved on since the last settled event
	hunks := pc.Diff
	if current != pc.NewContent {
		hunks = diff.Compute(pc.OldContent, current)
	}
	if index < 0 || index >= len(hunks) {
		return ErrHunkIndex
	}

	restored := diff.Undo(current, hunks[index])
	if err := os.WriteFile(abs, []byte(restored), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	t.snaps.Set(path, restored)

	remaining := diff.Compute(pc.OldContent, restored)
	if len(remaining) == 0 {
		delete(t.pending, path)
		t.bus.EmitChangeReverted(path)
		return nil
	}
	pc.NewContent = restored
	pc.Diff = remaining
	pc.Timestamp = time.Now()
	t.bus.EmitChangeDetected(path, pc.Filename, true)
	return nil
}

// SnapshotFile captures path's current content as its baseline and clears
// any pending change, for callers that already know the content should be
// treated as clean.
func (t *Tracker) SnapshotFile(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.root == "" {
		return ErrNotWatching
	}
	abs := filepath.Join(t.root, path)
	if reason := t.snaps.Capture(abs, path); reason != SkipNone {
		return fmt.Errorf("failed to snapshot %s: %s", path, reason)
	}
	delete(t.pending, path)
	return nil
}

// handleFileEvent runs the detection pipeline for one settled filesystem
// event. It executes on the watcher's consumer goroutine, so events are
// processed one at a time in arrival order.
func (t *Tracker) handleFileEvent(rel string) {
	if Ignored(rel) {
		return
	}

	t.mu.Lock()
	root := t.root
	t.mu.Unlock()
	if root == "" {
		return
	}

	abs := filepath.Join(root, rel)
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		// deleted or not a plain file; keep existing state so a pending
		// change can still be reverted to recreate the file
		return
	}
	if info.Size() > MaxFileSize {
		return
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		t.logger.Debug().Err(err).Str("path", rel).Msg("skipping unreadable file")
		return
	}
	if bytes.IndexByte(data, 0) >= 0 {
		t.logger.Debug().Str("path", rel).Msg("skipping binary content")
		return
	}
	current := string(data)

	t.mu.Lock()
	defer t.mu.Unlock()

	prior, tracked := t.snaps.Get(rel)
	if !tracked {
		// first sighting is the baseline, not a change
		t.snaps.Set(rel, current)
		return
	}
	if prior == current {
		return
	}

	baseline := prior
	existing := t.pending[rel]
	if existing != nil {
		baseline = existing.OldContent
	}

	filename := filepath.Base(rel)
	hunks := diff.Compute(baseline, current)
	if len(hunks) == 0 {
		// edited back to the baseline by hand
		delete(t.pending, rel)
		t.snaps.Set(rel, current)
		t.bus.EmitChangeDetected(rel, filename, false)
		return
	}

	if existing != nil {
		existing.NewContent = current
		existing.Diff = hunks
		existing.Timestamp = time.Now()
	} else {
		t.pending[rel] = &PendingChange{
			ID:         uuid.NewString(),
			Path:       rel,
			Filename:   filename,
			OldContent: baseline,
			NewContent: current,
			Diff:       hunks,
			Timestamp:  time.Now(),
		}
	}
	t.snaps.Set(rel, current)
	t.bus.EmitChangeDetected(rel, filename, true)
}
