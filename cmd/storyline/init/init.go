// Package initcmder provides the init command for initializing a local
// .storyline directory in the current working directory.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/dotdir"
)

const (
	dirName = ".storyline"
)

const initLongDesc string = `Initialize a new .storyline/ directory in the current working directory.

Creates a local .storyline/ directory that takes precedence over the default
~/.storyline/ directory for the journal database, streak, resume state, and
configuration, and seeds it with a default config.toml.

This is useful for maintaining separate storyline state per project or
directory.

Examples:
  storyline init`

const initShortDesc string = "Initialize a local .storyline/ directory"

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit()
		},
	}

	return cmd
}

func runInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	alreadyExists := err == nil && info.IsDir()

	if _, err := dotdir.NewManager().Init(dir); err != nil {
		return fmt.Errorf("creating .storyline directory: %w", err)
	}

	if err := seedConfig(dir); err != nil {
		return err
	}

	if alreadyExists {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	fmt.Printf("Initialized .storyline directory: %s\n", dir)
	return nil
}

// seedConfig writes a default config.toml unless one already exists.
func seedConfig(dir string) error {
	configPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SaveConfig(config.NewDefaultConfig()); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	return nil
}
