package reporting

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultResultsDir = "results"

// DefaultPathManager implements path management functionality
type DefaultPathManager struct {
	baseDir string
}

// NewDefaultPathManager creates a new path manager rooted at results/
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{baseDir: defaultResultsDir}
}

// NewPathManager creates a path manager rooted at baseDir
func NewPathManager(baseDir string) *DefaultPathManager {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = defaultResultsDir
	}
	return &DefaultPathManager{baseDir: baseDir}
}

// GetDefaultOutputDir returns the output directory of a run
func (p *DefaultPathManager) GetDefaultOutputDir(runName string) string {
	return filepath.Join(p.baseDir, SanitizeRunName(runName))
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// SanitizeRunName turns a run name into a single safe path element
func SanitizeRunName(runName string) string {
	name := strings.TrimSpace(runName)
	if name == "" {
		return "unnamed"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_", "..", "_")
	return replacer.Replace(name)
}

// Package-level convenience function
func DefaultOutputDir(runName string) string {
	return NewDefaultPathManager().GetDefaultOutputDir(runName)
}
