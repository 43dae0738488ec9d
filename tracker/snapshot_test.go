package tracker

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureAndGet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	store := NewSnapshotStore()
	if reason := store.Capture(path, "main.go"); reason != SkipNone {
		t.Fatalf("Expected capture to succeed, got skip reason %q", reason)
	}

	content, ok := store.Get("main.go")
	if !ok {
		t.Fatal("Expected snapshot for main.go")
	}
	if content != "package main\n" {
		t.Errorf("Expected stored content %q, got %q", "package main\n", content)
	}
}

func TestCaptureOversizeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), MaxFileSize+1), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	store := NewSnapshotStore()
	if reason := store.Capture(path, "big.txt"); reason != SkipTooLarge {
		t.Errorf("Expected SkipTooLarge, got %q", reason)
	}
	if _, ok := store.Get("big.txt"); ok {
		t.Error("Oversize file must never enter the store")
	}
}

func TestCaptureSkipReasons(t *testing.T) {
	dir := t.TempDir()

	binPath := filepath.Join(dir, "tool.sh")
	if err := os.WriteFile(binPath, []byte("#!/bin/sh\x00\x01"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	store := NewSnapshotStore()

	if reason := store.Capture(filepath.Join(dir, "missing.go"), "missing.go"); reason != SkipUnreadable {
		t.Errorf("Expected SkipUnreadable for missing file, got %q", reason)
	}
	if reason := store.Capture(dir, "dir"); reason != SkipNotRegular {
		t.Errorf("Expected SkipNotRegular for directory, got %q", reason)
	}
	if reason := store.Capture(binPath, "tool.sh"); reason != SkipBinary {
		t.Errorf("Expected SkipBinary for NUL content, got %q", reason)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store after skips, got %d entries", store.Len())
	}
}

func TestSetEvictsWhenFull(t *testing.T) {
	store := NewSnapshotStore()
	for i := 0; i < MaxTrackedFiles+50; i++ {
		store.Set(fmt.Sprintf("file%d.go", i), "content")
	}

	if store.Len() > MaxTrackedFiles {
		t.Errorf("Expected at most %d entries, got %d", MaxTrackedFiles, store.Len())
	}
}

func TestSetOverwriteDoesNotEvict(t *testing.T) {
	store := NewSnapshotStore()
	for i := 0; i < MaxTrackedFiles; i++ {
		store.Set(fmt.Sprintf("file%d.go", i), "content")
	}

	store.Set("file0.go", "updated")

	if store.Len() != MaxTrackedFiles {
		t.Errorf("Expected %d entries after overwrite, got %d", MaxTrackedFiles, store.Len())
	}
	content, ok := store.Get("file0.go")
	if !ok || content != "updated" {
		t.Errorf("Expected overwritten content 'updated', got %q (present=%v)", content, ok)
	}
}

func TestClear(t *testing.T) {
	store := NewSnapshotStore()
	store.Set("a.go", "a")
	store.Set("b.go", "b")

	store.Clear()

	if store.Len() != 0 {
		t.Errorf("Expected empty store after Clear, got %d entries", store.Len())
	}
}

func TestScanRespectsFilters(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "notes.md", "# notes\n")
	writeFile(t, dir, "image.png", "not really a png")
	writeFile(t, dir, "node_modules/pkg/index.js", "module.exports = {}\n")
	writeFile(t, dir, "src/app.ts", "export {}\n")

	store := NewSnapshotStore()
	result := store.Scan(dir, MaxScanDepth)

	if result.Captured != 3 {
		t.Errorf("Expected 3 captured files, got %d", result.Captured)
	}
	for _, want := range []string{"main.go", "notes.md", filepath.Join("src", "app.ts")} {
		if _, ok := store.Get(want); !ok {
			t.Errorf("Expected %s to be tracked", want)
		}
	}
	if _, ok := store.Get("image.png"); ok {
		t.Error("Non-allowlisted extension must not be tracked")
	}
	if _, ok := store.Get(filepath.Join("node_modules", "pkg", "index.js")); ok {
		t.Error("Ignored directory contents must not be tracked")
	}
}

func TestScanDepthLimit(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "root.go", "a\n")
	writeFile(t, dir, "l1/one.go", "b\n")
	writeFile(t, dir, "l1/l2/two.go", "c\n")

	store := NewSnapshotStore()
	store.Scan(dir, 1)

	if _, ok := store.Get("root.go"); !ok {
		t.Error("Expected root.go to be tracked")
	}
	if _, ok := store.Get(filepath.Join("l1", "one.go")); !ok {
		t.Error("Expected l1/one.go to be tracked at depth 1")
	}
	if _, ok := store.Get(filepath.Join("l1", "l2", "two.go")); ok {
		t.Error("Expected l1/l2/two.go to be beyond the depth limit")
	}
}

func TestScanStopsAtCapacity(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < MaxTrackedFiles+20; i++ {
		writeFile(t, dir, fmt.Sprintf("file%04d.go", i), "package x\n")
	}

	store := NewSnapshotStore()
	result := store.Scan(dir, MaxScanDepth)

	if store.Len() != MaxTrackedFiles {
		t.Errorf("Expected store to stop at %d entries, got %d", MaxTrackedFiles, store.Len())
	}
	if result.Captured != MaxTrackedFiles {
		t.Errorf("Expected %d captures, got %d", MaxTrackedFiles, result.Captured)
	}
}

func TestScanCountsSkips(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.go", "package ok\n")
	if err := os.WriteFile(filepath.Join(dir, "big.md"), bytes.Repeat([]byte("y"), MaxFileSize+1), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	store := NewSnapshotStore()
	result := store.Scan(dir, MaxScanDepth)

	if result.Captured != 1 {
		t.Errorf("Expected 1 capture, got %d", result.Captured)
	}
	if result.Skipped[SkipTooLarge] != 1 {
		t.Errorf("Expected 1 too-large skip, got %d", result.Skipped[SkipTooLarge])
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
}
