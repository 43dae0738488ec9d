package tracker

import (
	"path/filepath"
	"strings"
)

// ignoredDirs are path segments that exclude everything beneath them.
var ignoredDirs = []string{
	".git", ".driftwatch", "node_modules", "vendor", "__pycache__",
	"dist", "build", "out", "target", ".next", ".idea", ".vscode",
}

// ignoredNames are exact file names excluded from tracking.
var ignoredNames = []string{
	".DS_Store", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"Cargo.lock", "composer.lock", "Gemfile.lock",
}

// ignoredSuffixes cover editor swap/backup files and logs.
var ignoredSuffixes = []string{".swp", ".swo", "~", ".log"}

// Ignored reports whether a workspace-relative path is excluded from
// tracking. Both the initial scan and the live watcher consult it so the
// two stay consistent.
func Ignored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	segments := strings.Split(relPath, "/")
	for _, seg := range segments {
		for _, dir := range ignoredDirs {
			if seg == dir {
				return true
			}
		}
	}

	base := segments[len(segments)-1]
	for _, name := range ignoredNames {
		if base == name {
			return true
		}
	}
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	return false
}

// trackedExtensions is the source-file allowlist consulted by the initial
// scan. Files observed by the live watcher are not re-checked against it;
// the size and content checks there are enough.
var trackedExtensions = map[string]bool{
	".go": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".rb": true, ".rs": true, ".java": true, ".c": true,
	".h": true, ".cpp": true, ".hpp": true, ".cs": true, ".php": true,
	".swift": true, ".kt": true, ".scala": true, ".sh": true, ".bash": true,
	".zsh": true, ".fish": true, ".html": true, ".css": true, ".scss": true,
	".sass": true, ".less": true, ".vue": true, ".svelte": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
	".env": true, ".xml": true, ".sql": true, ".md": true, ".txt": true,
	".graphql": true, ".proto": true,
}

// trackedNames admits well-known extensionless files.
var trackedNames = map[string]bool{
	"Dockerfile": true,
	"Makefile":   true,
	"Rakefile":   true,
	"Gemfile":    true,
}

// TrackedExtension reports whether the file name carries an allowlisted
// source extension or is a well-known extensionless file.
func TrackedExtension(path string) bool {
	base := filepath.Base(path)
	if trackedNames[base] {
		return true
	}
	return trackedExtensions[strings.ToLower(filepath.Ext(base))]
}
