package journalcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/utils"
)

const listLongDesc string = `List all saved journal entries.

Shows each entry's id, when it was saved, the book, and a preview of the
question. Use the id with "storyline journal show" or
"storyline journal delete".

Examples:
  storyline journal list`

const listShortDesc string = "List all saved entries"

func newListCmd() *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, store, _, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries := j.Entries(cmd.Context())
			if len(entries) == 0 {
				fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("The journal is empty. Save an answer with --save or /save."))
				return nil
			}

			fmt.Println()
			for _, entry := range entries {
				preview := utils.Truncate(entry.Question, 60)
				fmt.Printf("  %s  %s  %s %s\n",
					cliui.KeyStyle.Render(entry.ID),
					cliui.DimStyle.Render(entry.Timestamp.Format("2006-01-02 15:04")),
					cliui.NameStyle.Render(entry.BookID),
					cliui.DimStyle.Render(preview),
				)
			}
			fmt.Println()

			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &sqlitePath)

	return cmd
}
