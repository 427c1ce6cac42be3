package journalcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
)

const deleteLongDesc string = `Delete a journal entry.

Removes the entry with the given id. Deleting an unknown id is a no-op.

Examples:
  storyline journal delete 4f1c2a`

const deleteShortDesc string = "Delete an entry"

func newDeleteCmd() *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, store, _, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := j.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting entry: %w", err)
			}

			fmt.Printf("\n  %s Deleted %s\n\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[0]))
			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &sqlitePath)

	return cmd
}
