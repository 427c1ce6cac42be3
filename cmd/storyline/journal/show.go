package journalcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
)

const showLongDesc string = `Show one journal entry in full.

Prints the question and the complete saved answer. The answer is rendered
as markdown when chat.markdown is enabled; pass --markdown=false for plain
text.

Examples:
  storyline journal show 4f1c2a
  storyline journal show 4f1c2a --markdown=false`

const showShortDesc string = "Show one entry in full"

func newShowCmd() *cobra.Command {
	var (
		sqlitePath string
		markdown   bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, store, v, err := openJournal(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			markdown = v.GetBool("chat.markdown")

			entry, ok := j.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no journal entry with id %q", args[0])
			}

			fmt.Printf("\n  %s  %s %s\n\n",
				cliui.KeyStyle.Render(entry.ID),
				cliui.NameStyle.Render(entry.BookID),
				cliui.DimStyle.Render(entry.Timestamp.Format("2006-01-02 15:04")),
			)
			fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Q:"), entry.Question)

			answer := entry.Answer
			if markdown {
				if rendered, err := cliui.RenderMarkdown(answer); err == nil {
					answer = rendered
				}
			}
			fmt.Println(answer)

			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &sqlitePath)
	config.AddBoolFlag(cmd, config.Flags, config.FlagMarkdown, &markdown)

	return cmd
}
