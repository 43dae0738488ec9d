package paths

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ProjectPaths locates the state directory driftwatch keeps for one project
// under the user directory, so nothing but the optional local config ever
// lands inside the watched tree itself.
type ProjectPaths struct {
	projectRoot string
	projectHash string
	projectDir  string
}

// NewProjectPaths creates a ProjectPaths instance for the given project root
func NewProjectPaths(projectRoot string) (*ProjectPaths, error) {
	absPath, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute project path: %w", err)
	}

	projectHash := generateProjectHash(absPath)

	userDir, err := UserDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user driftwatch directory: %w", err)
	}

	return &ProjectPaths{
		projectRoot: absPath,
		projectHash: projectHash,
		projectDir:  filepath.Join(userDir, "projects", projectHash),
	}, nil
}

// UserDir returns the user-level driftwatch directory (~/.driftwatch)
func UserDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".driftwatch"), nil
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() (string, error) {
	userDir, err := UserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userDir, "config.json"), nil
}

// ProjectDir returns the project-specific state directory
func (p *ProjectPaths) ProjectDir() string {
	return p.projectDir
}

// LogPath returns the session log file for this project. TUI sessions write
// here so log lines never tear the interface.
func (p *ProjectPaths) LogPath() string {
	return filepath.Join(p.projectDir, "session.log")
}

// ProjectRoot returns the original project root path
func (p *ProjectPaths) ProjectRoot() string {
	return p.projectRoot
}

// ProjectHash returns the project hash
func (p *ProjectPaths) ProjectHash() string {
	return p.projectHash
}

// EnsureProjectDir creates the project state directory
func (p *ProjectPaths) EnsureProjectDir() error {
	if err := os.MkdirAll(p.projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.projectDir, err)
	}
	return nil
}

// generateProjectHash creates a unique hash for a project root path
func generateProjectHash(projectRoot string) string {
	// Normalize path separators for cross-platform consistency
	normalizedPath := filepath.ToSlash(projectRoot)

	// On Windows, convert to lowercase for case-insensitive filesystem
	if runtime.GOOS == "windows" {
		normalizedPath = strings.ToLower(normalizedPath)
	}

	hasher := sha256.New()
	hasher.Write([]byte(normalizedPath))
	hash := fmt.Sprintf("%x", hasher.Sum(nil))

	// First 16 characters keep directory names short without collisions in
	// practice
	return hash[:16]
}
