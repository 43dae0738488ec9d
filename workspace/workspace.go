package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve determines the project root to watch. An explicit dir argument
// wins; otherwise the nearest enclosing Git repository root is used, falling
// back to the current directory when there is none.
func Resolve(dir string) (string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", abs)
		}
		return abs, nil
	}

	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	if gitRoot := findGitRoot(pwd); gitRoot != "" {
		return gitRoot, nil
	}
	return pwd, nil
}

// findGitRoot walks up the directory tree looking for a .git entry.
func findGitRoot(startPath string) string {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			return currentPath
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			// Reached the root directory
			break
		}
		currentPath = parentPath
	}

	return ""
}

// EnsureStateDir creates the project-local .driftwatch directory if it does
// not exist. It holds the optional per-project config file.
func EnsureStateDir(root string) error {
	stateDir := filepath.Join(root, ".driftwatch")
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", stateDir, err)
		}
	}
	return nil
}
