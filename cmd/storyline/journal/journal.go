// Package journalcmder provides the journal command for browsing and
// managing saved answers.
package journalcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storylinehq/storyline/cmd/storyline/sqlitepath"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/logger"
	"github.com/storylinehq/storyline/pkg/storage"
)

const journalLongDesc string = `Browse and manage answers saved to the journal.

Answers are saved with --save on "storyline ask" or /save inside
"storyline chat". They live in the local .storyline/ database, newest last.

Use subcommands to list, show, delete, or export entries:
  storyline journal list              List all saved entries
  storyline journal show <id>         Show one entry in full
  storyline journal delete <id>       Delete an entry
  storyline journal export [file]     Export entries as plain text

Examples:
  storyline journal list
  storyline journal show 4f1c2a
  storyline journal export notes.txt`

const journalShortDesc string = "Browse and manage saved answers"

func NewJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: journalShortDesc,
		Long:  journalLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// openJournal resolves the store via flags and config and returns the
// journal on top of it. The caller owns closing the store.
func openJournal(cmd *cobra.Command) (*journal.Journal, storage.Store, *viper.Viper, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagSQLite,
		config.FlagMarkdown,
	})

	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.New(logger.WithPretty(true), logger.WithDebug(debug), logger.WithWriter(os.Stderr))

	store := sqlitepath.Open(v.GetString("storage.sqlite_path"), log)
	return journal.New(store, log), store, v, nil
}
