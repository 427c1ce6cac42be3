// Package dotdir manages the .storyline/ and ~/.storyline directories that
// hold the config file and the local sqlite database.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the storyline directory.
	dirName = ".storyline"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .storyline/ directory.
// Order of precedence is as follows:
//  1. Provided override (created if missing)
//  2. Local ./.storyline/ dir
//  3. Home ~/.storyline/ dir
//
// Returns an empty string when no override is given and neither directory
// exists; callers fall back to defaults in that case.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating storyline directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	if local, ok := m.localDir(); ok {
		return filepath.Abs(local)
	}

	if home, ok := m.homeDir(); ok {
		return filepath.Abs(home)
	}

	return "", nil
}

// Init creates the .storyline/ directory at the override location, or at
// ~/.storyline when no override is given, and returns its absolute path.
func (m *Manager) Init(overrideDir string) (string, error) {
	dir := overrideDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating storyline directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDir checks whether a .storyline/ directory exists in the current
// working directory.
func (m *Manager) localDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(cwd, dirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}

// homeDir checks whether a .storyline/ directory exists in the user's home
// directory.
func (m *Manager) homeDir() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(home, dirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}
