package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadProjectConfig searches for a config file starting at path and walking
// up the directory tree, then loads it.
func LoadProjectConfig(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	for dir := absPath; ; dir = filepath.Dir(dir) {
		for _, name := range []string{"typegraph.yaml", defaultConfigFileName + "." + defaultConfigType} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return Load(candidate)
			}
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return Load("")
}

// GetProjectIDFromPath loads the configuration reachable from the given path
// and returns its project ID.
func GetProjectIDFromPath(path string) (string, error) {
	cfg, err := LoadProjectConfig(path)
	if err != nil {
		return "", fmt.Errorf("failed to load project config: %w", err)
	}
	if cfg.Project.ID == "" {
		return "", fmt.Errorf("project ID not found in configuration")
	}
	return cfg.Project.ID, nil
}

// EnsureProjectID returns the provided project ID if it's not empty,
// otherwise derives it from the configuration file.
func EnsureProjectID(providedID, projectPath string) (string, error) {
	if providedID != "" {
		return providedID, nil
	}
	return GetProjectIDFromPath(projectPath)
}
