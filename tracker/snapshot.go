package tracker

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
)

const (
	// MaxFileSize is the largest file, in bytes, the store will snapshot.
	MaxFileSize = 1 << 20

	// MaxTrackedFiles caps how many files one store holds.
	MaxTrackedFiles = 500

	// MaxScanDepth is how many directory levels below the root the initial
	// scan descends.
	MaxScanDepth = 8
)

// SkipReason explains why a file was not captured. Skips are expected and
// silent at the system boundary; callers log them at most.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipTooLarge   SkipReason = "too large"
	SkipNotRegular SkipReason = "not a regular file"
	SkipUnreadable SkipReason = "unreadable"
	SkipBinary     SkipReason = "binary content"
)

// SnapshotStore maps workspace-relative paths to the last observed content
// of each tracked file, bounded by MaxFileSize per entry and MaxTrackedFiles
// overall. It is not safe for concurrent use on its own; the Tracker
// serializes access to it together with the pending-change map.
type SnapshotStore struct {
	files map[string]string
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{files: make(map[string]string)}
}

// Get returns the stored content for path.
func (s *SnapshotStore) Get(path string) (string, bool) {
	content, ok := s.files[path]
	return content, ok
}

// Set stores content unconditionally. Inserting a new path into a full
// store evicts one arbitrary existing entry first; which entry is evicted
// is not specified.
func (s *SnapshotStore) Set(path, content string) {
	if _, exists := s.files[path]; !exists && len(s.files) >= MaxTrackedFiles {
		for victim := range s.files {
			delete(s.files, victim)
			break
		}
	}
	s.files[path] = content
}

// Delete removes the entry for path, if any.
func (s *SnapshotStore) Delete(path string) {
	delete(s.files, path)
}

// Clear drops every entry. Invoked on watch start so a previous project's
// snapshots never leak into the new one.
func (s *SnapshotStore) Clear() {
	s.files = make(map[string]string)
}

// Len returns the number of tracked files.
func (s *SnapshotStore) Len() int {
	return len(s.files)
}

// Paths returns every tracked path in sorted order.
func (s *SnapshotStore) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Capture reads the file at absPath and stores its content under relPath.
// Expected rejections come back as a skip reason instead of an error.
func (s *SnapshotStore) Capture(absPath, relPath string) SkipReason {
	info, err := os.Stat(absPath)
	if err != nil {
		return SkipUnreadable
	}
	if !info.Mode().IsRegular() {
		return SkipNotRegular
	}
	if info.Size() > MaxFileSize {
		return SkipTooLarge
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return SkipUnreadable
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return SkipBinary
	}

	s.Set(relPath, string(data))
	return SkipNone
}

// ScanResult summarizes one directory scan.
type ScanResult struct {
	Captured int
	Skipped  map[SkipReason]int
}

// Scan walks root breadth-first and captures every allowlisted file,
// stopping as soon as the store is full. The traversal carries a
// remaining-depth budget on an explicit queue instead of recursing, so the
// early stop never has call frames to unwind.
func (s *SnapshotStore) Scan(root string, maxDepth int) ScanResult {
	result := ScanResult{Skipped: make(map[SkipReason]int)}

	type frame struct {
		dir       string
		remaining int
	}
	queue := []frame{{root, maxDepth}}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(f.dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if s.Len() >= MaxTrackedFiles {
				return result
			}

			abs := filepath.Join(f.dir, entry.Name())
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				continue
			}
			if Ignored(rel) {
				continue
			}

			if entry.IsDir() {
				if f.remaining > 0 {
					queue = append(queue, frame{abs, f.remaining - 1})
				}
				continue
			}

			if !TrackedExtension(entry.Name()) {
				continue
			}
			if reason := s.Capture(abs, rel); reason != SkipNone {
				result.Skipped[reason]++
			} else {
				result.Captured++
			}
		}
	}

	return result
}
