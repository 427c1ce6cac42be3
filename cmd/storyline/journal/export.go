package journalcmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
)

const exportLongDesc string = `Export journal entries as plain text.

Writes every saved entry to the given file, or to stdout when no file is
given. Any terminal styling is stripped, so the output is safe to archive
or share.

Examples:
  storyline journal export
  storyline journal export notes.txt`

const exportShortDesc string = "Export entries as plain text"

func newExportCmd() *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: exportShortDesc,
		Long:  exportLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, store, _, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries := j.Entries(cmd.Context())

			var b strings.Builder
			for _, entry := range entries {
				fmt.Fprintf(&b, "[%s] %s (%s)\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.BookID, entry.ID)
				fmt.Fprintf(&b, "Q: %s\n", entry.Question)
				fmt.Fprintf(&b, "A: %s\n\n", entry.Answer)
			}

			out := cliui.StripANSI(b.String())

			if len(args) == 0 {
				fmt.Print(out)
				return nil
			}

			if err := os.WriteFile(args[0], []byte(out), 0o600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			fmt.Printf("\n  %s Exported %d entries to %s\n\n",
				cliui.SuccessMark,
				len(entries),
				cliui.KeyStyle.Render(args[0]),
			)
			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &sqlitePath)

	return cmd
}
