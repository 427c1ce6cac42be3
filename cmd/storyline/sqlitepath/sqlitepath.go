// Package sqlitepath resolves where the local storyline database lives and
// opens the backing store, degrading to an in-memory store when no location
// can be resolved.
package sqlitepath

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/storylinehq/storyline/pkg/dotdir"
	"github.com/storylinehq/storyline/pkg/storage"
	"github.com/storylinehq/storyline/pkg/storage/inmemory"
	"github.com/storylinehq/storyline/pkg/storage/sqlite"
)

const dbFile = "storyline.sqlite"

// Resolve returns the path the sqlite database should live at.
// Order of precedence:
//  1. Provided override (the --sqlite flag or storage.sqlite_path config)
//  2. STORYLINE_SQLITE environment variable
//  3. An existing database next to an existing .storyline/ directory
//  4. <dotdir>/storyline.sqlite when a .storyline/ directory resolves
//
// Returns an empty string when nothing resolves; callers fall back to an
// in-memory store.
func Resolve(override string) string {
	if override != "" {
		return override
	}

	if envPath := strings.TrimSpace(os.Getenv("STORYLINE_SQLITE")); envPath != "" {
		return envPath
	}

	for _, candidate := range candidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	target, err := dotdir.NewManager().Target("")
	if err != nil || target == "" {
		return ""
	}

	return filepath.Join(target, dbFile)
}

// Open opens the store at the resolved path. Any failure degrades to an
// in-memory store with a warning; journal, streak, and resume state then
// last only for the current process.
func Open(override string, logger *slog.Logger) storage.Store {
	path := Resolve(override)
	if path == "" {
		logger.Warn("no .storyline directory found, state will not persist (run 'storyline init')")
		return inmemory.NewStore()
	}

	store, err := sqlite.NewStore(path)
	if err != nil {
		logger.Warn("opening local database, state will not persist", "path", path, "err", err)
		return inmemory.NewStore()
	}

	return store
}

func candidates() []string {
	paths := []string{
		filepath.Join(".storyline", dbFile),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".storyline", dbFile))
	}

	return paths
}
